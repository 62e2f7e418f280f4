package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type recordingNotifier struct {
	mu   sync.Mutex
	seen []domain.Notification
}

func (r *recordingNotifier) Publish(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

func (r *recordingNotifier) kinds() []domain.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return kinds(r.seen)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSession_QuickAddAndObservers(t *testing.T) {
	f := setup(t)
	notifier := &recordingNotifier{}
	f.deps.Notifier = notifier
	s := f.session(t)
	ctx := context.Background()

	var snaps []Snapshot
	stop, err := s.Observe(func(snap Snapshot) { snaps = append(snaps, snap) })
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Zero(t, snaps[0].CartCount)

	require.NoError(t, s.QuickAdd(ctx, 1))
	require.NoError(t, s.QuickAdd(ctx, 1))

	cart, err := s.Cart()
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(2), cart.Lines[0].Quantity)
	assert.True(t, cart.Open)
	assert.Equal(t, domain.Money(1998000), cart.Totals.Total)

	// the second add leaves count and drawer unchanged, so one push only
	require.Len(t, snaps, 2)
	assert.Equal(t, Snapshot{SessionID: "test-session", CartCount: 1, CartOpen: true}, snaps[1])

	ns := s.Notifications()
	assert.Equal(t, []domain.NotificationKind{domain.NotifyItemAdded, domain.NotifyItemAdded}, kinds(ns))
	assert.Equal(t, "Chuck 70 High Top has been added to your cart", ns[0].Description)
	assert.Equal(t, "test-session", ns[0].SessionID)
	assert.Empty(t, s.Notifications())
	assert.Equal(t, kinds(ns), notifier.kinds())

	stop()
	require.NoError(t, s.DismissCart())
	assert.Len(t, snaps, 2)
	assert.False(t, s.Snapshot().CartOpen)
}

func TestSession_AddToCartRequiresSize(t *testing.T) {
	f := setup(t)
	s := f.session(t)
	ctx := context.Background()

	err := s.AddToCart(ctx, AddItem{ProductID: 2, Quantity: 1, Color: "#F97316"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	ns := s.Notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyValidationError, ns[0].Kind)
	assert.Equal(t, "Please select a size", ns[0].Description)
	assert.Zero(t, s.Snapshot().CartCount)

	require.NoError(t, s.AddToCart(ctx, AddItem{ProductID: 2, Quantity: 2, Size: "10", Color: "#F97316"}))
	cart, _ := s.Cart()
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, domain.LineKey{ProductID: 2, Size: "10", Color: "#F97316"}, cart.Lines[0].Key())

	assert.ErrorIs(t, s.QuickAdd(ctx, 404), domain.ErrNotFound)
}

func TestSession_UpdateAndRemove(t *testing.T) {
	f := setup(t)
	s := f.session(t)
	ctx := context.Background()
	require.NoError(t, s.QuickAdd(ctx, 3))
	s.Notifications()

	ok, err := s.UpdateQuantity(3, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, _ = s.UpdateQuantity(3, 4)
	assert.True(t, ok)
	cart, _ := s.Cart()
	assert.Equal(t, domain.Money(4*949000), cart.Totals.Subtotal)

	ok, _ = s.UpdateLineQuantity(domain.LineKey{ProductID: 3, Size: "8", Color: "#000000"}, 2)
	assert.True(t, ok)

	_, err = s.UpdateQuantity(3, domain.MaxQuantity+1)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []domain.NotificationKind{domain.NotifyValidationError}, kinds(s.Notifications()))
	cart, _ = s.Cart()
	assert.Equal(t, int64(2), cart.Lines[0].Quantity)
	assert.Equal(t, "Free", cart.ShippingLabel)

	assert.ErrorIs(t, s.RemoveItem(ctx, 7), domain.ErrNotFound)
	assert.Empty(t, s.Notifications())

	require.NoError(t, s.RemoveItem(ctx, 3))
	assert.Equal(t, []domain.NotificationKind{domain.NotifyItemRemoved}, kinds(s.Notifications()))
	assert.Zero(t, s.Snapshot().CartCount)
}

func TestSession_RemoveLine(t *testing.T) {
	f := setup(t)
	s := f.session(t)
	ctx := context.Background()
	require.NoError(t, s.AddToCart(ctx, AddItem{ProductID: 13, Quantity: 1, Size: "7", Color: "#F97316"}))
	require.NoError(t, s.AddToCart(ctx, AddItem{ProductID: 13, Quantity: 1, Size: "9", Color: "#F97316"}))
	s.Notifications()

	cart, _ := s.Cart()
	assert.Equal(t, "Free", cart.ShippingLabel)

	err := s.RemoveLine(ctx, domain.LineKey{ProductID: 13, Size: "10", Color: "#F97316"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, s.RemoveLine(ctx, domain.LineKey{ProductID: 13, Size: "7", Color: "#F97316"}))
	assert.Equal(t, []domain.NotificationKind{domain.NotifyItemRemoved}, kinds(s.Notifications()))

	cart, _ = s.Cart()
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "9", cart.Lines[0].Size)

	require.NoError(t, s.RemoveLine(ctx, cart.Lines[0].Key()))
	cart, _ = s.Cart()
	assert.Empty(t, cart.Lines)
	assert.Equal(t, "Rp 30.000", cart.ShippingLabel)
}

func TestSession_Wishlist(t *testing.T) {
	f := setup(t)
	s := f.session(t)
	ctx := context.Background()

	added, err := s.ToggleWishlist(ctx, 5)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, s.IsWishlisted(5))
	assert.Equal(t, 1, s.Snapshot().WishlistCount)

	added, _ = s.ToggleWishlist(ctx, 5)
	assert.False(t, added)
	items, _ := s.Wishlist()
	assert.Empty(t, items)
	assert.Equal(t,
		[]domain.NotificationKind{domain.NotifyWishlistAdded, domain.NotifyWishlistRemoved},
		kinds(s.Notifications()))
}

func TestSession_SearchAndCategory(t *testing.T) {
	f := setup(t)
	s := f.session(t)

	b, err := s.Browse()
	require.NoError(t, err)
	assert.Equal(t, domain.ShelfFeatured, b.ActiveShelf)

	b, _ = s.Search("lugged")
	assert.Equal(t, domain.ShelfNewArrivals, b.ActiveShelf)
	assert.True(t, b.HasResults)

	// no results keeps the current shelf
	b, _ = s.Search("sandal")
	assert.False(t, b.HasResults)
	assert.Equal(t, domain.ShelfNewArrivals, b.ActiveShelf)

	b, _ = s.SelectCategory("Chuck 70")
	assert.Empty(t, b.Query)
	for _, shelf := range b.Shelves {
		require.Len(t, shelf.Products, 1, shelf.Name)
	}

	// a query clears the category
	b, _ = s.Search("suede")
	assert.Empty(t, b.Category)
	products, _ := b.Shelves.Get(domain.ShelfBestSellers)
	require.Len(t, products, 1)
	assert.Equal(t, int64(11), products[0].ID)

	require.NoError(t, s.SetActiveShelf(domain.ShelfSale))
	assert.ErrorIs(t, s.SetActiveShelf("clearance"), domain.ErrNotFound)
}

func TestSession_CheckoutEmptyCart(t *testing.T) {
	f := setup(t)
	s := f.session(t)

	task, err := s.SubmitOrder(context.Background(), validForm())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Nil(t, task)
	ns := s.Notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyEmptyCartRedirect, ns[0].Kind)
	assert.Equal(t, "No items in cart", ns[0].Title)
}

func TestSession_CheckoutClearsCart(t *testing.T) {
	f := setup(t)
	s := f.session(t)
	ctx := context.Background()
	require.NoError(t, s.QuickAdd(ctx, 1))
	require.NoError(t, s.AddToCart(ctx, AddItem{ProductID: 3, Quantity: 2, Size: "9", Color: "#1EAEDB"}))
	s.Notifications()

	task, err := s.SubmitOrder(ctx, validForm())
	require.NoError(t, err)
	o, err := task.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, domain.Money(999000+2*949000), o.Totals.Total)

	snap := s.Snapshot()
	assert.Zero(t, snap.CartCount)
	assert.False(t, snap.CheckoutPending)
	ns := s.Notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyOrderPlaced, ns[0].Kind)
	assert.Equal(t, o.ID, ns[0].OrderID)

	rec, err := s.TrackOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrackingProcessing, rec.Status)
}

func TestSession_CheckoutValidation(t *testing.T) {
	f := setup(t)
	s := f.session(t)
	ctx := context.Background()
	require.NoError(t, s.QuickAdd(ctx, 1))
	s.Notifications()

	form := validForm()
	form.Email = "not-an-email"
	_, err := s.SubmitOrder(ctx, form)
	assert.ErrorIs(t, err, domain.ErrValidation)
	ns := s.Notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, "Invalid email address", ns[0].Description)
	assert.Equal(t, 1, s.Snapshot().CartCount)
}

func slowCheckout(f *fixture) {
	f.deps.Checkout = NewCheckoutService(f.orders, f.store, repository.NewMemoryTx(f.store), CheckoutOptions{Delay: time.Hour})
}

func TestSession_SingleCheckoutAndCancel(t *testing.T) {
	f := setup(t)
	slowCheckout(f)
	s := f.session(t)
	ctx := context.Background()
	require.NoError(t, s.QuickAdd(ctx, 1))
	s.Notifications()

	task, err := s.SubmitOrder(ctx, validForm())
	require.NoError(t, err)
	assert.True(t, s.Snapshot().CheckoutPending)

	_, err = s.SubmitOrder(ctx, validForm())
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.True(t, s.CancelCheckout())
	assert.False(t, s.CancelCheckout())
	_, err = task.Wait(waitCtx(t))
	assert.ErrorIs(t, err, domain.ErrCanceled)

	snap := s.Snapshot()
	assert.False(t, snap.CheckoutPending)
	assert.Equal(t, 1, snap.CartCount)
}

func TestSession_Close(t *testing.T) {
	f := setup(t)
	slowCheckout(f)
	s := f.session(t)
	ctx := context.Background()
	require.NoError(t, s.QuickAdd(ctx, 1))
	task, err := s.SubmitOrder(ctx, validForm())
	require.NoError(t, err)

	s.Close()
	s.Close()

	_, err = task.Wait(waitCtx(t))
	assert.ErrorIs(t, err, domain.ErrCanceled)
	assert.ErrorIs(t, s.QuickAdd(ctx, 1), domain.ErrSessionClosed)
	_, err = s.Cart()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	_, err = s.Observe(func(Snapshot) {})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.False(t, s.CancelCheckout())
}

// blockingOrders holds Create until release is closed.
type blockingOrders struct {
	repository.OrderRepository
	entered chan struct{}
	release chan struct{}
}

func (b *blockingOrders) Create(ctx context.Context, o *domain.Order) error {
	close(b.entered)
	<-b.release
	return b.OrderRepository.Create(ctx, o)
}

func TestSession_CloseWhileOrderIsBeingPlaced(t *testing.T) {
	f := setup(t)
	orders := &blockingOrders{OrderRepository: f.orders, entered: make(chan struct{}), release: make(chan struct{})}
	f.deps.Checkout = NewCheckoutService(orders, f.store, repository.NewMemoryTx(f.store), CheckoutOptions{})
	notifier := &recordingNotifier{}
	f.deps.Notifier = notifier
	s := f.session(t)
	ctx := context.Background()
	require.NoError(t, s.QuickAdd(ctx, 1))
	s.Notifications()

	task, err := s.SubmitOrder(ctx, validForm())
	require.NoError(t, err)
	select {
	case <-orders.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("order placement did not start")
	}
	s.Close()
	close(orders.release)

	// the order itself still completes
	o, err := task.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "ORD-100000", o.ID)

	s.mu.Lock()
	lines := s.cart.Count()
	s.mu.Unlock()
	assert.Equal(t, 1, lines)
	assert.Empty(t, s.Notifications())
	assert.NotContains(t, notifier.kinds(), domain.NotifyOrderPlaced)
}

func TestSession_ChatReplyAfterCloseIsDropped(t *testing.T) {
	f := setup(t)
	f.deps.ChatDelay = 20 * time.Millisecond
	s := f.session(t)

	task, err := s.SendChat(context.Background(), "hello")
	require.NoError(t, err)

	// hold the session while the reply timer fires, then close it
	s.mu.Lock()
	time.Sleep(100 * time.Millisecond)
	s.closeLocked()
	s.mu.Unlock()

	// ErrCanceled only if the timer had not fired by the time of Close
	_, err = task.Wait(waitCtx(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSessionClosed) || errors.Is(err, domain.ErrCanceled), err)
	s.mu.Lock()
	msgs := s.chat.Messages()
	s.mu.Unlock()
	assert.Len(t, msgs, 2)
	assert.Empty(t, s.Notifications())
}

func TestSession_TrackOrder(t *testing.T) {
	f := setup(t)
	s := f.session(t)
	ctx := context.Background()

	rec, err := s.TrackOrder(ctx, "ORD-12345")
	require.NoError(t, err)
	assert.Equal(t, domain.TrackingShipping, rec.Status)
	assert.Equal(t, 65, rec.ProgressPercentage)

	_, err = s.TrackOrder(ctx, "ORD-00000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.Notifications())

	_, err = s.TrackOrder(ctx, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	ns := s.Notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, "Please enter an order ID to track", ns[0].Description)
}

func TestSession_Chat(t *testing.T) {
	f := setup(t)
	s := f.session(t)
	ctx := context.Background()

	task, err := s.SendChat(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, task)

	task, err = s.SendChat(ctx, "Where is my order?")
	require.NoError(t, err)
	reply, err := task.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.False(t, reply.IsUser)

	msgs, _ := s.ChatTranscript()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Where is my order?", msgs[1].Content)
	assert.True(t, msgs[1].IsUser)
	assert.Equal(t, reply.ID, msgs[2].ID)
	assert.Equal(t, []domain.NotificationKind{domain.NotifyChatReply}, kinds(s.Notifications()))

	answer, err := s.AskFAQ("Do you ship internationally?")
	require.NoError(t, err)
	assert.Contains(t, answer.Content, "7-14 business days")
	_, err = s.AskFAQ("Do you sell hats?")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	msgs, _ = s.ChatTranscript()
	assert.Len(t, msgs, 5)
}

func TestSession_ChatReplyDroppedOnClose(t *testing.T) {
	f := setup(t)
	f.deps.ChatDelay = time.Hour
	s := f.session(t)

	task, err := s.SendChat(context.Background(), "hello")
	require.NoError(t, err)
	s.Close()
	_, err = task.Wait(waitCtx(t))
	assert.ErrorIs(t, err, domain.ErrCanceled)
}

func TestSession_Newsletter(t *testing.T) {
	f := setup(t)
	s := f.session(t)
	ctx := context.Background()

	_, err := s.SubscribeNewsletter(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []domain.NotificationKind{domain.NotifyValidationError}, kinds(s.Notifications()))

	task, err := s.SubscribeNewsletter(ctx, "siti@example.com")
	require.NoError(t, err)
	email, err := task.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "siti@example.com", email)
	assert.Equal(t, []domain.NotificationKind{domain.NotifyNewsletterSubscribed}, kinds(s.Notifications()))
}

func TestManager(t *testing.T) {
	f := setup(t)
	m := NewManager(f.deps)
	t.Cleanup(m.CloseAll)
	ctx := context.Background()

	s, err := m.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = m.Get("4d8f2b8e-8a57-4a4b-9d6c-1f8a4f3c2e10")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, m.Close(s.ID()))
	assert.ErrorIs(t, m.Close(s.ID()), domain.ErrNotFound)
	assert.ErrorIs(t, s.QuickAdd(ctx, 1), domain.ErrSessionClosed)
	assert.Zero(t, m.Len())
}

func TestChat_Greeting(t *testing.T) {
	c := NewChat(DefaultFAQ, nil)
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].IsUser)
	assert.Equal(t, 1, msgs[0].ID)
	assert.Len(t, c.FAQ(), 4)
}
