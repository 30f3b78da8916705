package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop/internal/cart"
	pkgerrors "github.com/angelmondragon/minishop/pkg/errors"
	"github.com/angelmondragon/minishop/pkg/logger"
	"github.com/angelmondragon/minishop/pkg/metrics"
	"github.com/angelmondragon/minishop/pkg/money"
)

// TimestampFormat renders receipt timestamps as ISO-8601 UTC with milliseconds.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

type cartStore interface {
	Get(ctx context.Context, sessionKey string) cart.Cart
	Clear(ctx context.Context, sessionKey string) cart.Cart
}

type checkoutRecorder interface {
	IncCheckout(result string)
}

// Input is the caller-supplied checkout payload.
type Input struct {
	Name  string
	Email string
	Items []cart.LineItem
	Total *decimal.Decimal
}

// Receipt is the immutable record of a completed checkout.
type Receipt struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Items     []cart.LineItem `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Timestamp string          `json:"timestamp"`
}

// Service executes checkout against the session cart.
type Service interface {
	Checkout(ctx context.Context, sessionKey string, input Input) (*Receipt, error)
}

// ServiceParams configure the checkout processor. VerifyTotals switches from
// trusting the client total to recomputing it from the session cart.
type ServiceParams struct {
	Carts        cartStore
	VerifyTotals bool
	Clock        func() time.Time
	NewID        func() string
	Metrics      checkoutRecorder
	Logger       *logger.Logger
}

type service struct {
	carts   cartStore
	verify  bool
	now     func() time.Time
	newID   func() string
	metrics checkoutRecorder
	logg    *logger.Logger
}

// NewService builds the checkout processor.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	svc := &service{
		carts:   params.Carts,
		verify:  params.VerifyTotals,
		now:     params.Clock,
		newID:   params.NewID,
		metrics: params.Metrics,
		logg:    params.Logger,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	return svc, nil
}

func (s *service) Checkout(ctx context.Context, sessionKey string, input Input) (*Receipt, error) {
	if err := validateInput(input); err != nil {
		s.record(metrics.CheckoutInvalid)
		return nil, err
	}

	items := cart.CloneItems(input.Items)
	total := money.Round(*input.Total)
	if s.verify {
		current := s.carts.Get(ctx, sessionKey)
		if current.Empty() {
			s.record(metrics.CheckoutConflict)
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
		}
		quote := Quote(current)
		if !money.EqualCents(quote.Total, total) {
			s.record(metrics.CheckoutConflict)
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "total does not match cart").
				WithDetails(map[string]any{
					"expectedTotal": quote.Total,
					"receivedTotal": total,
				})
		}
		items = current.Items
		total = quote.Total
	}

	receipt := &Receipt{
		ID:        s.newID(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Items:     items,
		Total:     total,
		Timestamp: s.now().UTC().Format(TimestampFormat),
	}
	s.carts.Clear(ctx, sessionKey)
	s.record(metrics.CheckoutSuccess)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"receipt_id": receipt.ID,
		"item_count": len(receipt.Items),
		"total":      receipt.Total.String(),
		"verified":   s.verify,
	})
	s.logg.Info(logCtx, "checkout.completed")
	return receipt, nil
}

func (s *service) record(result string) {
	if s.metrics != nil {
		s.metrics.IncCheckout(result)
	}
}

func validateInput(input Input) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(input.Email) == "" {
		details["email"] = "is required"
	}
	if len(input.Items) == 0 {
		details["items"] = "is required"
	}
	switch {
	case input.Total == nil:
		details["total"] = "is required"
	case !money.Round(*input.Total).IsPositive():
		details["total"] = "must be greater than 0"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").WithDetails(details)
	}
	return nil
}
