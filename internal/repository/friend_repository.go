package repository

import (
	"context"
	"errors"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
)

// 既に友達
var ErrDuplicateFriendship = errors.New("duplicate friendship")

type FriendRepository interface {
	// 片方向のエッジを1本保存（双方向は呼び出し側が2回呼ぶ）
	Create(ctx context.Context, edge model.Friendship) error
	Exists(ctx context.Context, userID int64, friendID int64) (bool, error)
	//友達のユーザー一覧を取得
	ListFriends(ctx context.Context, userID int64) ([]model.User, error)
}
