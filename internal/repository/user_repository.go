package repository

import (
	"context"
	"errors"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (model.User, error)
	//アカウント名からユーザーを一件取得する。
	FindByAccount(ctx context.Context, account string) (model.User, error)
	//複数IDをまとめて取得（名前解決用）
	ListByIDs(ctx context.Context, userIDs []int64) ([]model.User, error)
	//アカウント名・表示名の部分一致検索
	Search(ctx context.Context, q string, limit int) ([]model.User, error)
}
