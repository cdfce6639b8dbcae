package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"
)

// UserUsecase はユーザー検索と友達関係の業務ロジックです。
// 友達は招待候補を出すためだけに使う（招待自体は友達でなくてもできる）。
type UserUsecase struct {
	tx      repo.TransactionManager
	users   repo.UserRepository
	friends repo.FriendRepository
}

func NewUserUsecase(tx repo.TransactionManager, users repo.UserRepository, friends repo.FriendRepository) *UserUsecase {
	return &UserUsecase{tx: tx, users: users, friends: friends}
}

type UserOutput struct {
	ID      int64  `json:"id"`
	Account string `json:"account"`
	Name    string `json:"name"`
}

func (u *UserUsecase) Search(ctx context.Context, userID int64, q string) ([]UserOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "q required")
	}
	if len(q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	users, err := u.users.Search(ctx, q, 20)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]UserOutput, 0, len(users))
	for _, found := range users {
		//自分は候補に出さない
		if found.ID == userID {
			continue
		}
		outs = append(outs, UserOutput{ID: found.ID, Account: found.Account, Name: found.Name})
	}
	return outs, nil
}

// AddFriend は双方向のエッジを1トランザクションで2本作る。
func (u *UserUsecase) AddFriend(ctx context.Context, userID int64, friendID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if friendID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid friend id")
	}
	if friendID == userID {
		return NewHTTPError(http.StatusBadRequest, "cannot add yourself")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Users().FindByID(ctx, friendID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		exists, err := r.Friends().Exists(ctx, userID, friendID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if exists {
			return NewHTTPError(http.StatusConflict, "already friends")
		}

		now := time.Now()
		for _, edge := range []model.Friendship{
			{UserID: userID, FriendID: friendID, CreatedAt: now},
			{UserID: friendID, FriendID: userID, CreatedAt: now},
		} {
			if err := r.Friends().Create(ctx, edge); err != nil {
				//同時に同じ組を追加された場合はユニーク制約で弾かれる
				if errors.Is(err, repo.ErrDuplicateFriendship) {
					return NewHTTPError(http.StatusConflict, "already friends")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		return nil
	})
}

func (u *UserUsecase) ListFriends(ctx context.Context, userID int64) ([]UserOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	friends, err := u.friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]UserOutput, 0, len(friends))
	for _, f := range friends {
		outs = append(outs, UserOutput{ID: f.ID, Account: f.Account, Name: f.Name})
	}
	return outs, nil
}
