package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// GroupUsecase はグループのライフサイクル（作成・更新・削除・ステータス）の業務ロジックです。
// メニュー差分の適用はmenu_sync.goに分離。
type GroupUsecase struct {
	tx repo.TransactionManager
}

func NewGroupUsecase(tx repo.TransactionManager) *GroupUsecase {
	return &GroupUsecase{tx: tx}
}

type CreateGroupInput struct {
	Title          string
	StartTime      time.Time
	EndTime        time.Time
	Products       []ProductInput
	InvitedUserIDs []int64
	InitialOrder   []OrderItemInput
}

type GroupOutput struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Status    string          `json:"status"`
	CreatorID int64           `json:"creator_id"`
	CreatedAt time.Time       `json:"created_at"`
	Products  []ProductOutput `json:"products"`
}

type GroupDashboardOutput struct {
	ID               int64              `json:"id"`
	Title            string             `json:"title"`
	StartTime        time.Time          `json:"start_time"`
	EndTime          time.Time          `json:"end_time"`
	Status           string             `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
	IsCreator        bool               `json:"is_creator"`
	Participants     []string           `json:"participants"`
	Members          []MemberOutput     `json:"members"`
	Products         []ProductOutput    `json:"products"`
	OrderStats       []OrderStatOutput  `json:"order_stats"`
	TotalGroupAmount int64              `json:"total_group_amount"`
	MyOrder          *OrderDetailOutput `json:"my_order"`
}

func (u *GroupUsecase) CreateGroup(ctx context.Context, creatorID int64, in CreateGroupInput) (GroupOutput, error) {
	if creatorID <= 0 {
		return GroupOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Title) == "" {
		return GroupOutput{}, NewHTTPError(http.StatusBadRequest, "title required")
	}
	if in.StartTime.IsZero() {
		return GroupOutput{}, NewHTTPError(http.StatusBadRequest, "start_time required")
	}
	if in.EndTime.IsZero() {
		return GroupOutput{}, NewHTTPError(http.StatusBadRequest, "end_time required")
	}
	if in.EndTime.Before(in.StartTime) {
		return GroupOutput{}, NewHTTPError(http.StatusBadRequest, "end_time must be after start_time")
	}
	if err := validateProductInputs(in.Products); err != nil {
		return GroupOutput{}, err
	}
	if err := validateOrderItemInputs(in.InitialOrder); err != nil {
		return GroupOutput{}, err
	}

	var out GroupOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := time.Now()
		groupID, err := r.Groups().Create(ctx, model.Group{
			Title:     strings.TrimSpace(in.Title),
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Status:    model.GroupStatusOpen,
			CreatorID: creatorID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//メニュー作成
		products := make([]model.Product, 0, len(in.Products))
		for _, pi := range in.Products {
			p, err := r.Products().Create(ctx, model.Product{
				GroupID:   groupID,
				Name:      strings.TrimSpace(pi.Name),
				Price:     pi.Price,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			products = append(products, p)
		}

		//作成者の注文（支払い済みで作る）
		creatorOrderID, err := r.Orders().Create(ctx, model.Order{
			GroupID:       groupID,
			UserID:        creatorID,
			PaymentStatus: model.PaymentStatusPaid,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items := resolveOrderItems(products, in.InitialOrder, now)
		if err := r.OrderItems().CreateBulk(ctx, creatorOrderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//招待メンバーの注文（空で作る）。重複招待はsetで潰す
		for _, uid := range uniqueUserIDs(in.InvitedUserIDs, creatorID) {
			if _, err := r.Users().FindByID(ctx, uid); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invited user %d not found", uid))
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if _, err := r.Orders().Create(ctx, model.Order{
				GroupID:       groupID,
				UserID:        uid,
				PaymentStatus: model.PaymentStatusUnpaid,
				CreatedAt:     now,
				UpdatedAt:     now,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = GroupOutput{
			ID:        groupID,
			Title:     strings.TrimSpace(in.Title),
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Status:    string(model.GroupStatusOpen),
			CreatorID: creatorID,
			CreatedAt: now,
			Products:  toProductOutputs(products),
		}
		return nil
	})

	if err != nil {
		return GroupOutput{}, err
	}
	return out, nil
}

type UpdateGroupInput struct {
	Title          string
	StartTime      time.Time
	EndTime        time.Time
	Products       []ProductInput
	InvitedUserIDs []int64
}

func (u *GroupUsecase) UpdateGroup(ctx context.Context, requesterID int64, groupID int64, in UpdateGroupInput) ([]ProductOutput, error) {
	if requesterID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if groupID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid group id")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "title required")
	}
	if in.StartTime.IsZero() {
		return nil, NewHTTPError(http.StatusBadRequest, "start_time required")
	}
	if in.EndTime.IsZero() {
		return nil, NewHTTPError(http.StatusBadRequest, "end_time required")
	}
	if err := validateProductInputs(in.Products); err != nil {
		return nil, err
	}

	var out []ProductOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		g, err := r.Groups().FindByID(ctx, groupID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if g.CreatorID != requesterID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if err := r.Groups().UpdateInfo(ctx, groupID, strings.TrimSpace(in.Title), in.StartTime, in.EndTime); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := syncMembers(ctx, r, g, in.InvitedUserIDs); err != nil {
			return err
		}

		products, err := syncMenu(ctx, r, groupID, in.Products)
		if err != nil {
			return err
		}

		out = toProductOutputs(products)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

// syncMembers は招待リストと既存注文の差分を適用する。
// 目標のメンバー集合 = 招待ユーザー ∪ 作成者。注文が無い人には空の注文を作り、
// 集合から外れた人（作成者以外）は注文ごと削除する。
func syncMembers(ctx context.Context, r repo.TxRepos, g model.Group, invitedUserIDs []int64) error {
	orders, err := r.Orders().ListByGroupID(ctx, g.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	existing := make(map[int64]model.Order, len(orders))
	for _, o := range orders {
		existing[o.UserID] = o
	}

	target := make(map[int64]bool, len(invitedUserIDs)+1)
	target[g.CreatorID] = true
	for _, uid := range invitedUserIDs {
		if uid > 0 {
			target[uid] = true
		}
	}

	now := time.Now()

	//足りない注文を作る
	for uid := range target {
		if _, ok := existing[uid]; ok {
			continue
		}
		if _, err := r.Users().FindByID(ctx, uid); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invited user %d not found", uid))
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		status := model.PaymentStatusUnpaid
		if uid == g.CreatorID {
			status = model.PaymentStatusPaid
		}
		if _, err := r.Orders().Create(ctx, model.Order{
			GroupID:       g.ID,
			UserID:        uid,
			PaymentStatus: status,
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	//外れたメンバーの注文を明細ごと消す（作成者は残す）
	for _, o := range orders {
		if target[o.UserID] || o.UserID == g.CreatorID {
			continue
		}
		if err := r.OrderItems().DeleteByOrderID(ctx, o.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().Delete(ctx, o.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return nil
}

func (u *GroupUsecase) DeleteGroup(ctx context.Context, requesterID int64, groupID int64) error {
	if requesterID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if groupID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid group id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		g, err := r.Groups().FindByID(ctx, groupID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if g.CreatorID != requesterID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		//未払いが1人でもいたら削除できない
		orders, err := r.Orders().ListByGroupID(ctx, groupID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, o := range orders {
			if o.PaymentStatus == model.PaymentStatusUnpaid {
				return NewHTTPError(http.StatusConflict, "group has unpaid orders")
			}
		}

		//依存順に削除：明細→注文→メニュー→グループ
		if err := r.OrderItems().DeleteByGroupID(ctx, groupID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().DeleteByGroupID(ctx, groupID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Products().DeleteByGroupID(ctx, groupID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Groups().Delete(ctx, groupID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  requesterID,
			Action:       model.AuditActionDeleteGroup,
			ResourceType: model.AuditResourceGroup,
			ResourceID:   groupID,
			BeforeJSON:   fmt.Sprintf(`{"title":%q,"status":%q}`, g.Title, g.Status),
			AfterJSON:    `{}`,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *GroupUsecase) UpdateGroupStatus(ctx context.Context, requesterID int64, groupID int64, status string) error {
	if requesterID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if groupID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid group id")
	}
	st := model.GroupStatus(status)
	if st != model.GroupStatusOpen && st != model.GroupStatusClosed {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		g, err := r.Groups().FindByID(ctx, groupID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if g.CreatorID != requesterID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if err := r.Groups().UpdateStatus(ctx, groupID, st); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  requesterID,
			Action:       model.AuditActionUpdateGroupStatus,
			ResourceType: model.AuditResourceGroup,
			ResourceID:   groupID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q}`, g.Status),
			AfterJSON:    fmt.Sprintf(`{"status":%q}`, st),
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// GetDashboardGroups は自分が関わる全グループを新しい順で返す。
func (u *GroupUsecase) GetDashboardGroups(ctx context.Context, userID int64) ([]GroupDashboardOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []GroupDashboardOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		groups, err := r.Groups().ListByParticipant(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]GroupDashboardOutput, 0, len(groups))
		for _, g := range groups {
			view, err := buildGroupView(ctx, r, g, userID)
			if err != nil {
				return err
			}
			outs = append(outs, GroupDashboardOutput{
				ID:               g.ID,
				Title:            g.Title,
				StartTime:        g.StartTime,
				EndTime:          g.EndTime,
				Status:           string(g.Status),
				CreatedAt:        g.CreatedAt,
				IsCreator:        g.CreatorID == userID,
				Participants:     view.participantNames,
				Members:          view.members,
				Products:         view.products,
				OrderStats:       view.stats,
				TotalGroupAmount: view.totalGroupAmount,
				MyOrder:          view.myOrder,
			})
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

func uniqueUserIDs(ids []int64, exclude int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || id == exclude || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
