package repository

import (
	"context"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
)

type GroupRepository interface {
	FindByID(ctx context.Context, groupID int64) (model.Group, error)
	//作成者または注文を持つグループを新しい順で取得
	ListByParticipant(ctx context.Context, userID int64) ([]model.Group, error)
	Create(ctx context.Context, g model.Group) (int64, error)
	//タイトル・開始/終了日時の更新
	UpdateInfo(ctx context.Context, groupID int64, title string, start time.Time, end time.Time) error
	UpdateStatus(ctx context.Context, groupID int64, status model.GroupStatus) error
	Delete(ctx context.Context, groupID int64) error
}
