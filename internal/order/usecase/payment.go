package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order"
	"github.com/fekuna/omnipos-bar-service/internal/order/dto"
	"go.uber.org/zap"
)

type paymentUseCase struct {
	Deps
	now func() time.Time
}

func NewPaymentUseCase(deps Deps) order.PaymentUseCase {
	return &paymentUseCase{Deps: deps, now: time.Now}
}

// ReviewPayment settles a pending transfer. Once PAID or REJECTED the payment
// never changes again. A rejection cancels the order and releases its stock.
func (uc *paymentUseCase) ReviewPayment(ctx context.Context, in *dto.ReviewInput) (*model.Order, error) {
	var out *model.Order
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := uc.Repo.LockByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.NotFound("order", in.OrderID)
		}
		if o.PaymentMethod != model.PaymentTransfer {
			return apperr.NotTransfer(string(o.PaymentMethod))
		}
		if o.PaymentStatus != model.PaymentPendingApproval {
			return apperr.AlreadyProcessed(string(o.PaymentStatus))
		}

		now := uc.now()
		if in.Approve {
			o.PaymentStatus = model.PaymentPaid
			o.PaidAt = &now
		} else {
			if err := releaseOutstanding(ctx, uc.Deps, o, in.ReviewerID); err != nil {
				return err
			}
			o.PaymentStatus = model.PaymentRejected
			o.FulfillmentStatus = model.FulfillmentCancelled
		}
		o.ApprovedBy = &in.ReviewerID
		o.ApprovedAt = &now
		if in.Notes != "" {
			o.ReviewNotes = &in.Notes
		}
		o.UpdatedAt = now

		if err := uc.Repo.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("transfer reviewed",
		zap.String("code", out.Code),
		zap.String("status", string(out.PaymentStatus)),
		zap.String("reviewer", in.ReviewerID),
	)
	publish(ctx, uc.Deps, order.EventPaymentReviewed, dto.NewOrderEvent(out, in.ReviewerID, false))
	return out, nil
}

func (uc *paymentUseCase) ListPending(ctx context.Context, eventID string) ([]model.Order, error) {
	orders, _, err := uc.Repo.FindAll(ctx, &dto.OrderFilters{
		EventID:       eventID,
		PaymentMethod: string(model.PaymentTransfer),
		PaymentStatus: string(model.PaymentPendingApproval),
	})
	return orders, err
}
