package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"
)

// OrderUsecase はメンバー注文の入れ替えとグループ集計の業務ロジックです。
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderUpdateOutput struct {
	OrderID int64             `json:"order_id"`
	Items   []OrderItemOutput `json:"items"`
	Total   int64             `json:"total"`
	Summary string            `json:"summary"`
}

type GroupSummaryOutput struct {
	ID               int64               `json:"id"`
	Title            string              `json:"title"`
	StartTime        time.Time           `json:"start_time"`
	EndTime          time.Time           `json:"end_time"`
	Status           string              `json:"status"`
	CreatorID        int64               `json:"creator_id"`
	CreatedAt        time.Time           `json:"created_at"`
	IsCreator        bool                `json:"is_creator"`
	Participants     []string            `json:"participants"`
	Products         []ProductOutput     `json:"products"`
	OrderStats       []OrderStatOutput   `json:"order_stats"`
	TotalGroupAmount int64               `json:"total_group_amount"`
	MyOrder          *OrderDetailOutput  `json:"my_order"`
	Orders           []OrderDetailOutput `json:"orders"`
}

// UpdateOrder は自分の注文の明細を丸ごと入れ替える（差分更新はしない）。
func (u *OrderUsecase) UpdateOrder(ctx context.Context, userID int64, groupID int64, inputs []OrderItemInput) (OrderUpdateOutput, error) {
	if userID <= 0 {
		return OrderUpdateOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if groupID <= 0 {
		return OrderUpdateOutput{}, NewHTTPError(http.StatusBadRequest, "invalid group id")
	}
	if err := validateOrderItemInputs(inputs); err != nil {
		return OrderUpdateOutput{}, err
	}

	var out OrderUpdateOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		g, err := r.Groups().FindByID(ctx, groupID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//作成者か、既にメンバー（注文を持っている）だけが出せる
		order, err := r.Orders().FindByGroupAndUser(ctx, groupID, userID)
		isMember := err == nil
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if g.CreatorID != userID && !isMember {
			return NewHTTPError(http.StatusForbidden, "access denied")
		}

		//締め切ったグループは受け付けない
		if g.Status == model.GroupStatusClosed {
			return NewHTTPError(http.StatusConflict, "group is closed")
		}

		now := time.Now()

		if !isMember {
			status := model.PaymentStatusUnpaid
			if userID == g.CreatorID {
				status = model.PaymentStatusPaid
			}
			orderID, err := r.Orders().Create(ctx, model.Order{
				GroupID:       groupID,
				UserID:        userID,
				PaymentStatus: status,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			order = model.Order{ID: orderID, GroupID: groupID, UserID: userID, PaymentStatus: status}
		}

		//全消ししてから作り直す
		if err := r.OrderItems().DeleteByOrderID(ctx, order.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		products, err := r.Products().ListByGroupID(ctx, groupID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items := resolveOrderItems(products, inputs, now)

		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().Touch(ctx, order.ID, now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderUpdateOutput{
			OrderID: order.ID,
			Items:   toOrderItemOutputs(items),
			Total:   orderTotal(items),
			Summary: orderSummary(items),
		}
		return nil
	})

	if err != nil {
		return OrderUpdateOutput{}, err
	}
	return out, nil
}

// GetGroupSummary はグループの全注文・集計を返す。作成者の管理画面用だが
// メンバーにも同じ形で返す。
func (u *OrderUsecase) GetGroupSummary(ctx context.Context, userID int64, groupID int64) (GroupSummaryOutput, error) {
	if userID <= 0 {
		return GroupSummaryOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if groupID <= 0 {
		return GroupSummaryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid group id")
	}

	var out GroupSummaryOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		g, err := r.Groups().FindByID(ctx, groupID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if g.CreatorID != userID {
			_, err := r.Orders().FindByGroupAndUser(ctx, groupID, userID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusForbidden, "access denied")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		view, err := buildGroupView(ctx, r, g, userID)
		if err != nil {
			return err
		}

		out = GroupSummaryOutput{
			ID:               g.ID,
			Title:            g.Title,
			StartTime:        g.StartTime,
			EndTime:          g.EndTime,
			Status:           string(g.Status),
			CreatorID:        g.CreatorID,
			CreatedAt:        g.CreatedAt,
			IsCreator:        g.CreatorID == userID,
			Participants:     view.participantNames,
			Products:         view.products,
			OrderStats:       view.stats,
			TotalGroupAmount: view.totalGroupAmount,
			MyOrder:          view.myOrder,
			Orders:           view.orders,
		}
		return nil
	})

	if err != nil {
		return GroupSummaryOutput{}, err
	}
	return out, nil
}
