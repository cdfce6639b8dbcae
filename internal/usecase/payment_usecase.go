package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"
)

// PaymentUsecase は支払いフラグ（手動トグル）の業務ロジックです。
// 実際の決済は扱わない。
type PaymentUsecase struct {
	tx repo.TransactionManager
}

func NewPaymentUsecase(tx repo.TransactionManager) *PaymentUsecase {
	return &PaymentUsecase{tx: tx}
}

// UpdatePaymentStatus はグループ作成者だけが切り替えられる。
func (u *PaymentUsecase) UpdatePaymentStatus(ctx context.Context, requesterID int64, orderID int64, status string) error {
	if requesterID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	st := model.PaymentStatus(status)
	if st != model.PaymentStatusPaid && st != model.PaymentStatusUnpaid {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		g, err := r.Groups().FindByID(ctx, o.GroupID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if g.CreatorID != requesterID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if err := r.Orders().UpdatePaymentStatus(ctx, orderID, st); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  requesterID,
			Action:       model.AuditActionUpdatePaymentStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"payment_status":%q}`, o.PaymentStatus),
			AfterJSON:    fmt.Sprintf(`{"payment_status":%q}`, st),
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
