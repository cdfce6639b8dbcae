package repository

import (
	"context"
	"errors"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserGormRepository) FindByID(ctx context.Context, userID int64) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserGormRepository) FindByAccount(ctx context.Context, account string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("account = ?", account).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserGormRepository) ListByIDs(ctx context.Context, userIDs []int64) ([]model.User, error) {
	if len(userIDs) == 0 {
		return []model.User{}, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	if err != nil {
		return []model.User{}, err
	}
	return users, nil
}

func (r *UserGormRepository) Search(ctx context.Context, q string, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var users []model.User
	pattern := "%" + q + "%"
	err := r.db.WithContext(ctx).
		Where("account LIKE ? OR name LIKE ?", pattern, pattern).
		Order("id asc").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return []model.User{}, err
	}
	return users, nil
}
