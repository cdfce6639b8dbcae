package repository

import (
	"context"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) ListByGroupID(ctx context.Context, groupID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.group_id = ?", groupID).
		Order("order_items.id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) DeleteByOrderID(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error
}

func (r *OrderItemGormRepository) DeleteByGroupID(ctx context.Context, groupID int64) error {
	return r.db.WithContext(ctx).
		Where("order_id IN (?)",
			r.db.Model(&model.Order{}).Select("id").Where("group_id = ?", groupID),
		).
		Delete(&model.OrderItem{}).Error
}

func (r *OrderItemGormRepository) UpdateSnapshotByProductID(ctx context.Context, groupID int64, productID int64, name string, price int64) error {
	return r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("product_id = ? AND order_id IN (?)",
			productID,
			r.db.Model(&model.Order{}).Select("id").Where("group_id = ?", groupID),
		).
		Updates(map[string]interface{}{
			"product_name_snapshot": name,
			"unit_price_snapshot":   price,
		}).Error
}

func (r *OrderItemGormRepository) AdoptByName(ctx context.Context, groupID int64, oldName string, productID int64, name string, price int64) error {
	//旧データ救済。product_idが無い明細を旧名で拾ってリンクを補完する
	return r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("product_id IS NULL AND product_name_snapshot = ? AND order_id IN (?)",
			oldName,
			r.db.Model(&model.Order{}).Select("id").Where("group_id = ?", groupID),
		).
		Updates(map[string]interface{}{
			"product_id":            productID,
			"product_name_snapshot": name,
			"unit_price_snapshot":   price,
		}).Error
}

func (r *OrderItemGormRepository) ExistsReference(ctx context.Context, groupID int64, productID int64, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("(product_id = ? OR product_name_snapshot = ?) AND order_id IN (?)",
			productID,
			name,
			r.db.Model(&model.Order{}).Select("id").Where("group_id = ?", groupID),
		).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
