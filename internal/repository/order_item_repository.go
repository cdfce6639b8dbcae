package repository

import (
	"context"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	//グループ内全注文の明細（集計用、注文経由のJOIN）
	ListByGroupID(ctx context.Context, groupID int64) ([]model.OrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID int64) error
	DeleteByGroupID(ctx context.Context, groupID int64) error

	//メニュー編集の反映。product_idで紐づく明細の名前・単価を上書き
	UpdateSnapshotByProductID(ctx context.Context, groupID int64, productID int64, name string, price int64) error
	//旧名一致のリンク無し明細に名前・単価を上書きしてproduct_idを補完
	AdoptByName(ctx context.Context, groupID int64, oldName string, productID int64, name string, price int64) error
	//product_idまたは名前一致で参照されているか（削除ガード用）
	ExistsReference(ctx context.Context, groupID int64, productID int64, name string) (bool, error)
}
