package repository

import (
	"context"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
)

// メニューの永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListByGroupID(ctx context.Context, groupID int64) ([]model.Product, error)
	FindByID(ctx context.Context, productID int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, productID int64) error
	DeleteByGroupID(ctx context.Context, groupID int64) error
}
