package repository

import (
	"context"
	"errors"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// unique_violation
const pgUniqueViolation = "23505"

type FriendGormRepository struct {
	db *gorm.DB
}

func NewFriendGormRepository(db *gorm.DB) *FriendGormRepository {
	return &FriendGormRepository{db: db}
}

func (r *FriendGormRepository) Create(ctx context.Context, edge model.Friendship) error {
	err := r.db.WithContext(ctx).Create(&edge).Error
	if err != nil {
		//同じ方向のエッジが既にあるなら重複として返す
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repo.ErrDuplicateFriendship
		}
		return err
	}
	return nil
}

func (r *FriendGormRepository) Exists(ctx context.Context, userID int64, friendID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FriendGormRepository) ListFriends(ctx context.Context, userID int64) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Order("users.id asc").
		Find(&users).Error
	if err != nil {
		return []model.User{}, err
	}
	return users, nil
}
