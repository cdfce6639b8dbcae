package repository

import (
	"context"
	"errors"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"

	"gorm.io/gorm"
)

type GroupGormRepository struct {
	db *gorm.DB
}

func NewGroupGormRepository(db *gorm.DB) *GroupGormRepository {
	return &GroupGormRepository{db: db}
}

func (r *GroupGormRepository) FindByID(ctx context.Context, groupID int64) (model.Group, error) {
	var g model.Group
	err := r.db.WithContext(ctx).Where("id = ?", groupID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Group{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Group{}, err
	}
	return g, nil
}

func (r *GroupGormRepository) ListByParticipant(ctx context.Context, userID int64) ([]model.Group, error) {
	//作成者か、注文を1件持っているグループ
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Where("creator_id = ? OR id IN (?)",
			userID,
			r.db.Model(&model.Order{}).Select("group_id").Where("user_id = ?", userID),
		).
		Order("created_at desc").
		Find(&groups).Error
	if err != nil {
		return []model.Group{}, err
	}
	return groups, nil
}

func (r *GroupGormRepository) Create(ctx context.Context, g model.Group) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&g).Error; err != nil {
		return 0, err
	}
	return g.ID, nil
}

func (r *GroupGormRepository) UpdateInfo(ctx context.Context, groupID int64, title string, start time.Time, end time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ?", groupID).
		Updates(map[string]interface{}{
			"title":      title,
			"start_time": start,
			"end_time":   end,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *GroupGormRepository) UpdateStatus(ctx context.Context, groupID int64, status model.GroupStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ?", groupID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *GroupGormRepository) Delete(ctx context.Context, groupID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", groupID).Delete(&model.Group{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
