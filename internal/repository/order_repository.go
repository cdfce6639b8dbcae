package repository

import (
	"context"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//グループ内の1ユーザーの注文（1件しか存在しない）
	FindByGroupAndUser(ctx context.Context, groupID int64, userID int64) (model.Order, error)
	ListByGroupID(ctx context.Context, groupID int64) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error
	//注文内容の入れ替え時にlastUpdatedを進める
	Touch(ctx context.Context, orderID int64, updatedAt time.Time) error
	Delete(ctx context.Context, orderID int64) error
	DeleteByGroupID(ctx context.Context, groupID int64) error
}
