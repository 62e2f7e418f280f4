package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/repository"
)

const maxOrderNumber = 999999

// OrderIDs hands out ORD-XXXXXX identifiers from a monotonic counter.
type OrderIDs struct {
	mu   sync.Mutex
	next int64
}

// NewOrderIDs starts the counter at seed (clamped to six digits).
func NewOrderIDs(seed int64) *OrderIDs {
	if seed < 100000 {
		seed = 100000
	}
	return &OrderIDs{next: seed}
}

func (g *OrderIDs) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next > maxOrderNumber {
		return "", errors.New("order id space exhausted")
	}
	id := fmt.Sprintf("ORD-%06d", g.next)
	g.next++
	return id, nil
}

// CheckoutService turns a cart snapshot into an order after a simulated
// payment latency. It never touches the cart itself.
type CheckoutService struct {
	orders   repository.OrderRepository
	tracking repository.TrackingRepository
	tx       repository.TxManager
	ids      *OrderIDs
	policy   ShippingPolicy
	delay    time.Duration
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

type CheckoutOptions struct {
	Delay   time.Duration
	Policy  ShippingPolicy
	OrderID *OrderIDs
	Logger  *zap.Logger
}

func NewCheckoutService(orders repository.OrderRepository, tracking repository.TrackingRepository, tx repository.TxManager, opts CheckoutOptions) *CheckoutService {
	if opts.OrderID == nil {
		opts.OrderID = NewOrderIDs(100000)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Policy == (ShippingPolicy{}) {
		opts.Policy = DefaultShippingPolicy
	}
	return &CheckoutService{
		orders:   orders,
		tracking: tracking,
		tx:       tx,
		ids:      opts.OrderID,
		policy:   opts.Policy,
		delay:    opts.Delay,
		validate: validator.New(),
		logger:   opts.Logger,
		now:      time.Now,
	}
}

// ValidateForm checks the checkout fields and returns the first violation.
func (s *CheckoutService) ValidateForm(form domain.CheckoutForm) error {
	return validateStruct(s.validate, form)
}

// Submit validates synchronously and schedules the order. onDone runs on the
// task goroutine with the outcome, before the task completes; it is not
// called when the task is canceled.
func (s *CheckoutService) Submit(ctx context.Context, lines []domain.CartLine, form domain.CheckoutForm, onDone func(*domain.Order, error)) (*Task[*domain.Order], error) {
	if len(lines) == 0 {
		metrics.RecordOperation("checkout", false)
		return nil, domain.ErrEmptyCart
	}
	if err := s.ValidateForm(form); err != nil {
		metrics.RecordOperation("checkout", false)
		return nil, err
	}
	snapshot := append([]domain.CartLine(nil), lines...)
	// the task outlives the request that started it
	ctx = context.WithoutCancel(ctx)
	return After(s.delay, func() (*domain.Order, error) {
		o, err := s.place(ctx, snapshot, form)
		metrics.RecordOperation("checkout", err == nil)
		if err != nil {
			s.logger.Error("place order failed", zap.Error(err))
			if onDone != nil {
				onDone(nil, err)
			}
			return nil, err
		}
		metrics.OrderPlaced(int64(o.Totals.Total))
		s.logger.Info("order placed",
			zap.String("order_id", o.ID),
			zap.Int64("total", int64(o.Totals.Total)),
			zap.Int("lines", len(o.Lines)),
		)
		if onDone != nil {
			onDone(o, nil)
		}
		return o, nil
	}), nil
}

// GetOrder returns a placed order.
func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return nil, &domain.ValidationError{Field: "order_id", Message: "order id is required"}
	}
	return s.orders.GetByID(ctx, id)
}

func (s *CheckoutService) place(ctx context.Context, lines []domain.CartLine, form domain.CheckoutForm) (*domain.Order, error) {
	id, err := s.ids.Next()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	o := &domain.Order{
		ID:              id,
		Lines:           lines,
		Totals:          ComputeTotals(lines, s.policy),
		ShippingAddress: form.ShippingAddress(),
		PaymentMethod:   form.PaymentMethod,
		CreatedAt:       now,
	}
	rec := newTrackingRecord(o)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.tracking.Register(ctx, rec); err != nil {
			return fmt.Errorf("register tracking: %w", err)
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// newTrackingRecord is the projection of a freshly placed order.
func newTrackingRecord(o *domain.Order) *domain.TrackingRecord {
	placed := o.CreatedAt
	eta := placed.AddDate(0, 0, 5)
	items := make([]domain.TrackedItem, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, domain.TrackedItem{Name: l.Product.Name, Quantity: l.Quantity, Price: l.Product.EffectivePrice()})
	}
	return &domain.TrackingRecord{
		OrderID:            o.ID,
		Status:             domain.TrackingProcessing,
		OrderDate:          placed.Format(time.DateOnly),
		EstimatedDelivery:  eta.Format(time.DateOnly),
		CurrentLocation:    "Central Warehouse",
		ProgressPercentage: 10,
		Items:              items,
		Events: []domain.TrackingEvent{
			{Date: placed.Format("2006-01-02 15:04"), Status: "Order placed", Completed: true},
			{Date: placed.Format(time.DateOnly), Status: "Processing order", Completed: false},
			{Date: placed.AddDate(0, 0, 2).Format(time.DateOnly), Status: "Shipping", Completed: false},
			{Date: eta.Format(time.DateOnly), Status: "Delivered", Completed: false},
		},
	}
}

// validateStruct converts the first validator failure into a ValidationError.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		f := fields[0]
		return &domain.ValidationError{Field: f.Field(), Message: fieldMessage(f)}
	}
	return &domain.ValidationError{Message: err.Error()}
}

var requiredMessages = map[string]string{
	"FirstName":  "First name is required",
	"LastName":   "Last name is required",
	"Phone":      "Phone number is required",
	"Address":    "Address is required",
	"City":       "City is required",
	"PostalCode": "Postal code is required",
	"State":      "State/Province is required",
	"Country":    "Country is required",
}

func fieldMessage(f validator.FieldError) string {
	switch f.Tag() {
	case "email":
		return "Invalid email address"
	case "required", "min":
		if f.Field() == "Email" {
			return "Invalid email address"
		}
		if msg, ok := requiredMessages[f.Field()]; ok {
			return msg
		}
		return f.Field() + " is required"
	case "oneof":
		return "must be one of " + f.Param()
	default:
		return "invalid value"
	}
}
