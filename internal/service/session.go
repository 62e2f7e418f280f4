package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/repository"
)

const inboxLimit = 100

// Notifier receives every notification a session emits.
type Notifier interface {
	Publish(ctx context.Context, n domain.Notification)
}

// SessionDeps are the collaborators shared by all sessions.
type SessionDeps struct {
	Catalog         repository.CatalogRepository
	Checkout        *CheckoutService
	Tracking        *TrackingService
	Notifier        Notifier
	Policy          ShippingPolicy
	FAQ             []FAQ
	ChatDelay       time.Duration
	NewsletterDelay time.Duration
	Logger          *zap.Logger
	Now             func() time.Time
}

// Snapshot is what the navigation chrome renders: badge counts and whether
// the cart drawer should be open.
type Snapshot struct {
	SessionID       string `json:"session_id"`
	CartCount       int    `json:"cart_count"`
	WishlistCount   int    `json:"wishlist_count"`
	CartOpen        bool   `json:"cart_open"`
	CheckoutPending bool   `json:"checkout_pending"`
}

// Browse is the visible catalog of a session.
type Browse struct {
	Shelves     domain.ShelfMap `json:"shelves"`
	ActiveShelf string          `json:"active_shelf"`
	Query       string          `json:"query"`
	Category    string          `json:"category"`
	HasResults  bool            `json:"has_results"`
}

// CartView is the cart drawer content.
type CartView struct {
	Lines         []domain.CartLine `json:"lines"`
	Totals        domain.Totals     `json:"totals"`
	ShippingLabel string            `json:"shipping_label"`
	Count         int               `json:"count"`
	Open          bool              `json:"open"`
}

// AddItem is the product-detail add-to-cart request.
type AddItem struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type newsletterRequest struct {
	Email string `validate:"required,email"`
}

// Session is one shopper's state. Commands are serialised by a mutex so they
// apply in the order they were dispatched. Observers and the notifier are
// called with the session locked and must not call back into it.
type Session struct {
	id       string
	deps     SessionDeps
	logger   *zap.Logger
	validate *validator.Validate

	mu        sync.Mutex
	closed    bool
	shelves   domain.ShelfMap
	query     string
	category  string
	active    string
	cart      *Cart
	cartOpen  bool
	wishlist  *Wishlist
	chat      *Chat
	inbox     []domain.Notification
	observers map[int]func(Snapshot)
	nextObs   int
	last      Snapshot
	pending   map[int]func() bool
	nextTask  int
	checkout  int // pending checkout task id, 0 when idle
}

// NewSession loads the catalog shelves and starts an empty session.
func NewSession(ctx context.Context, id string, deps SessionDeps) (*Session, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Policy == (ShippingPolicy{}) {
		deps.Policy = DefaultShippingPolicy
	}
	if deps.FAQ == nil {
		deps.FAQ = DefaultFAQ
	}
	shelves, err := deps.Catalog.Shelves(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shelves: %w", err)
	}
	s := &Session{
		id:        id,
		deps:      deps,
		logger:    deps.Logger.With(zap.String("session_id", id)),
		validate:  validator.New(),
		shelves:   shelves,
		cart:      NewCart(deps.Policy),
		wishlist:  NewWishlist(),
		chat:      NewChat(deps.FAQ, deps.Now),
		observers: make(map[int]func(Snapshot)),
		pending:   make(map[int]func() bool),
		nextTask:  1,
	}
	if len(shelves) > 0 {
		s.active = shelves[0].Name
	}
	s.last = s.snapshotLocked()
	metrics.SessionOpened()
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) lock() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	return nil
}

// Search applies a free-text query. A non-empty query clears the category and
// focuses the shelf with the most matches.
func (s *Session) Search(query string) (Browse, error) {
	if err := s.lock(); err != nil {
		return Browse{}, err
	}
	defer s.mu.Unlock()
	s.query = query
	if query != "" {
		s.category = ""
	}
	view := ComputeVisibleShelves(s.shelves, s.query, s.category)
	if view.Focus != "" && view.Shelves.HasResults() {
		s.active = view.Focus
	}
	metrics.RecordOperation("search", true)
	return s.browseLocked(view), nil
}

// SelectCategory filters by category and clears the query.
func (s *Session) SelectCategory(category string) (Browse, error) {
	if err := s.lock(); err != nil {
		return Browse{}, err
	}
	defer s.mu.Unlock()
	s.category = category
	s.query = ""
	metrics.RecordOperation("select_category", true)
	return s.browseLocked(ComputeVisibleShelves(s.shelves, s.query, s.category)), nil
}

// SetActiveShelf switches the focused shelf tab.
func (s *Session) SetActiveShelf(name string) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.shelves.Get(name); !ok {
		return fmt.Errorf("shelf %q: %w", name, domain.ErrNotFound)
	}
	s.active = name
	return nil
}

func (s *Session) Browse() (Browse, error) {
	if err := s.lock(); err != nil {
		return Browse{}, err
	}
	defer s.mu.Unlock()
	return s.browseLocked(ComputeVisibleShelves(s.shelves, s.query, s.category)), nil
}

func (s *Session) browseLocked(view ShelfView) Browse {
	return Browse{
		Shelves:     view.Shelves,
		ActiveShelf: s.active,
		Query:       s.query,
		Category:    s.category,
		HasResults:  view.Shelves.HasResults(),
	}
}

// QuickAdd is the product-card button: one unit, placeholder size, first color.
func (s *Session) QuickAdd(ctx context.Context, productID int64) error {
	p, err := s.deps.Catalog.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return s.afterAddLocked(ctx, p, s.cart.QuickAdd(*p))
}

// AddToCart is the product-detail path; a size must be chosen.
func (s *Session) AddToCart(ctx context.Context, item AddItem) error {
	p, err := s.deps.Catalog.GetByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return s.afterAddLocked(ctx, p, s.cart.AddDetailed(*p, item.Quantity, item.Size, item.Color))
}

func (s *Session) afterAddLocked(ctx context.Context, p *domain.Product, err error) error {
	metrics.RecordOperation("cart_add", err == nil)
	if err != nil {
		s.rejectLocked(ctx, err)
		return err
	}
	if s.cart.ConsumeChanged() {
		s.cartOpen = true
	}
	s.emitLocked(ctx, domain.Notification{
		Kind:        domain.NotifyItemAdded,
		Title:       "Added to cart",
		Description: p.Name + " has been added to your cart",
	})
	s.changedLocked()
	return nil
}

// UpdateQuantity sets every line of the product to n; n below 1 is a no-op.
func (s *Session) UpdateQuantity(productID, n int64) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()
	ok, err := s.cart.UpdateQuantity(productID, n)
	metrics.RecordOperation("cart_update", ok)
	if err != nil {
		s.rejectLocked(context.Background(), err)
	}
	return ok, err
}

func (s *Session) UpdateLineQuantity(key domain.LineKey, n int64) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()
	ok, err := s.cart.UpdateLineQuantity(key, n)
	metrics.RecordOperation("cart_update", ok)
	if err != nil {
		s.rejectLocked(context.Background(), err)
	}
	return ok, err
}

// RemoveItem deletes every line of the product.
func (s *Session) RemoveItem(ctx context.Context, productID int64) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	n := s.cart.RemoveItem(productID)
	metrics.RecordOperation("cart_remove", n > 0)
	if n == 0 {
		return fmt.Errorf("product %d not in cart: %w", productID, domain.ErrNotFound)
	}
	s.emitLocked(ctx, domain.Notification{
		Kind:        domain.NotifyItemRemoved,
		Title:       "Item removed",
		Description: "Product has been removed from your cart",
	})
	s.changedLocked()
	return nil
}

// RemoveLine deletes a single size/color line.
func (s *Session) RemoveLine(ctx context.Context, key domain.LineKey) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	ok := s.cart.RemoveLine(key)
	metrics.RecordOperation("cart_remove", ok)
	if !ok {
		return fmt.Errorf("line %d/%s/%s not in cart: %w", key.ProductID, key.Size, key.Color, domain.ErrNotFound)
	}
	s.emitLocked(ctx, domain.Notification{
		Kind:        domain.NotifyItemRemoved,
		Title:       "Item removed",
		Description: "Product has been removed from your cart",
	})
	s.changedLocked()
	return nil
}

func (s *Session) Cart() (CartView, error) {
	if err := s.lock(); err != nil {
		return CartView{}, err
	}
	defer s.mu.Unlock()
	totals := s.cart.Totals()
	return CartView{
		Lines:         s.cart.Lines(),
		Totals:        totals,
		ShippingLabel: domain.ShippingLabel(totals.Shipping),
		Count:         s.cart.Count(),
		Open:          s.cartOpen,
	}, nil
}

// DismissCart closes the cart drawer.
func (s *Session) DismissCart() error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.cartOpen = false
	s.changedLocked()
	return nil
}

// ToggleWishlist adds or removes the product and reports the new membership.
func (s *Session) ToggleWishlist(ctx context.Context, productID int64) (bool, error) {
	p, err := s.deps.Catalog.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()
	added := s.wishlist.Toggle(*p)
	n := domain.Notification{
		Kind:        domain.NotifyWishlistAdded,
		Title:       "Added to wishlist",
		Description: p.Name + " has been added to your wishlist",
	}
	if !added {
		n.Kind = domain.NotifyWishlistRemoved
		n.Title = "Removed from wishlist"
		n.Description = p.Name + " has been removed from your wishlist"
	}
	metrics.RecordOperation("wishlist_toggle", true)
	s.emitLocked(ctx, n)
	s.changedLocked()
	return added, nil
}

func (s *Session) IsWishlisted(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.IsWishlisted(productID)
}

func (s *Session) Wishlist() ([]domain.WishlistEntry, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.wishlist.Items(), nil
}

// SubmitOrder snapshots the cart and starts checkout. The cart is cleared
// when the order is placed, unless the session was closed by then.
func (s *Session) SubmitOrder(ctx context.Context, form domain.CheckoutForm) (*Task[*domain.Order], error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if s.checkout != 0 {
		err := &domain.ValidationError{Field: "checkout", Message: "an order is already being placed"}
		s.rejectLocked(ctx, err)
		return nil, err
	}
	id := s.nextTask
	done := context.WithoutCancel(ctx)
	task, err := s.deps.Checkout.Submit(ctx, s.cart.Lines(), form, func(o *domain.Order, err error) {
		s.orderDone(done, id, o, err)
	})
	if err != nil {
		s.rejectLocked(ctx, err)
		return nil, err
	}
	s.nextTask++
	s.pending[id] = task.Cancel
	s.checkout = id
	s.changedLocked()
	return task, nil
}

func (s *Session) orderDone(ctx context.Context, id int, o *domain.Order, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		if err == nil {
			s.logger.Info("order completed after session closed", zap.String("order_id", o.ID))
		}
		return
	}
	delete(s.pending, id)
	s.checkout = 0
	if err != nil {
		s.changedLocked()
		return
	}
	s.cart.Clear()
	s.cartOpen = false
	s.emitLocked(ctx, domain.Notification{
		Kind:        domain.NotifyOrderPlaced,
		Title:       "Order placed successfully!",
		Description: "Thank you for your order. You will receive a confirmation email shortly.",
		OrderID:     o.ID,
	})
	s.changedLocked()
}

// CancelCheckout stops a checkout that has not completed yet.
func (s *Session) CancelCheckout() bool {
	if err := s.lock(); err != nil {
		return false
	}
	defer s.mu.Unlock()
	if s.checkout == 0 {
		return false
	}
	if !s.pending[s.checkout]() {
		return false
	}
	delete(s.pending, s.checkout)
	s.checkout = 0
	s.changedLocked()
	return true
}

// TrackOrder looks up an order typed into the tracking form.
func (s *Session) TrackOrder(ctx context.Context, orderID string) (*domain.TrackingRecord, error) {
	rec, err := s.deps.Tracking.TrackOrder(ctx, orderID)
	metrics.RecordOperation("track_order", err == nil)
	if err != nil && errors.Is(err, domain.ErrValidation) {
		if lerr := s.lock(); lerr != nil {
			return nil, lerr
		}
		defer s.mu.Unlock()
		s.rejectLocked(ctx, err)
	}
	return rec, err
}

// SendChat appends a user message and schedules the bot reply. Blank input
// returns a nil task.
func (s *Session) SendChat(ctx context.Context, text string) (*Task[domain.ChatMessage], error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if !s.chat.Ask(text) {
		return nil, nil
	}
	id := s.nextTask
	s.nextTask++
	ctx = context.WithoutCancel(ctx)
	task := After(s.deps.ChatDelay, func() (domain.ChatMessage, error) {
		if err := s.lock(); err != nil {
			return domain.ChatMessage{}, err
		}
		defer s.mu.Unlock()
		delete(s.pending, id)
		m := s.chat.Reply()
		s.emitLocked(ctx, domain.Notification{Kind: domain.NotifyChatReply, Title: "Support", Description: m.Content})
		return m, nil
	})
	s.pending[id] = task.Cancel
	return task, nil
}

// AskFAQ answers a predefined question immediately.
func (s *Session) AskFAQ(question string) (domain.ChatMessage, error) {
	if err := s.lock(); err != nil {
		return domain.ChatMessage{}, err
	}
	defer s.mu.Unlock()
	return s.chat.QuickQuestion(question)
}

// FAQ lists the predefined questions offered by the chat widget.
func (s *Session) FAQ() ([]FAQ, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.chat.FAQ(), nil
}

func (s *Session) ChatTranscript() ([]domain.ChatMessage, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.chat.Messages(), nil
}

// SubscribeNewsletter validates the email and confirms after a delay.
func (s *Session) SubscribeNewsletter(ctx context.Context, email string) (*Task[string], error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if err := validateStruct(s.validate, newsletterRequest{Email: email}); err != nil {
		s.rejectLocked(ctx, err)
		return nil, err
	}
	id := s.nextTask
	s.nextTask++
	ctx = context.WithoutCancel(ctx)
	task := After(s.deps.NewsletterDelay, func() (string, error) {
		if err := s.lock(); err != nil {
			return "", err
		}
		defer s.mu.Unlock()
		delete(s.pending, id)
		s.emitLocked(ctx, domain.Notification{
			Kind:        domain.NotifyNewsletterSubscribed,
			Title:       "Success!",
			Description: "You've been subscribed to our newsletter.",
		})
		return email, nil
	})
	s.pending[id] = task.Cancel
	return task, nil
}

// Notifications drains the notifications emitted since the last call.
func (s *Session) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.inbox
	s.inbox = nil
	return out
}

// Observe registers fn for snapshot changes and calls it once with the
// current snapshot. The returned function unregisters it.
func (s *Session) Observe(fn func(Snapshot)) (func(), error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	fn(s.last)
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close discards the session. Pending delayed work is canceled; work that
// already started finds the session closed and leaves it untouched.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	for id, cancel := range s.pending {
		cancel()
		delete(s.pending, id)
	}
	s.checkout = 0
	clear(s.observers)
	metrics.SessionClosed()
	s.logger.Debug("session closed")
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:       s.id,
		CartCount:       s.cart.Count(),
		WishlistCount:   s.wishlist.Count(),
		CartOpen:        s.cartOpen,
		CheckoutPending: s.checkout != 0,
	}
}

// changedLocked pushes the snapshot to observers when it differs from the
// last one pushed.
func (s *Session) changedLocked() {
	snap := s.snapshotLocked()
	if snap == s.last {
		return
	}
	s.last = snap
	for id := 0; id < s.nextObs; id++ {
		if fn, ok := s.observers[id]; ok {
			fn(snap)
		}
	}
}

func (s *Session) rejectLocked(ctx context.Context, err error) {
	n := domain.Notification{Kind: domain.NotifyValidationError, Title: "Validation error", Description: err.Error()}
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		n.Kind = domain.NotifyEmptyCartRedirect
		n.Title = "No items in cart"
		n.Description = "Your cart is empty. Please add items to proceed to checkout."
	case errors.As(err, &verr):
		n.Description = verr.Message
	default:
		return
	}
	s.emitLocked(ctx, n)
}

func (s *Session) emitLocked(ctx context.Context, n domain.Notification) {
	n.SessionID = s.id
	n.At = s.deps.Now()
	s.inbox = append(s.inbox, n)
	if len(s.inbox) > inboxLimit {
		s.inbox = s.inbox[len(s.inbox)-inboxLimit:]
	}
	if s.deps.Notifier != nil {
		s.deps.Notifier.Publish(ctx, n)
	}
	s.logger.Debug("notification", zap.String("kind", string(n.Kind)), zap.String("title", n.Title))
}
