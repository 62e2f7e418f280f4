package domain

import (
	"slices"
	"time"
)

// Money is an amount in the smallest currency unit (rupiah).
type Money int64

// Product is a catalog record. Immutable after the catalog is loaded.
type Product struct {
	ID            int64    `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Price         Money    `json:"price" yaml:"price"`
	DiscountPrice *Money   `json:"discount_price,omitempty" yaml:"discount_price,omitempty"`
	ImageURL      string   `json:"image_url" yaml:"image_url"`
	Category      string   `json:"category" yaml:"category"`
	IsNew         bool     `json:"is_new" yaml:"is_new"`
	IsSale        bool     `json:"is_sale" yaml:"is_sale"`
	Colors        []string `json:"colors" yaml:"colors"`
}

// EffectivePrice is the discount price when present, otherwise the base price.
func (p Product) EffectivePrice() Money {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasColor reports whether c is one of the product's swatches.
func (p Product) HasColor(c string) bool {
	return slices.Contains(p.Colors, c)
}

// Validate checks the catalog rules for a single product.
func (p Product) Validate() error {
	switch {
	case p.ID <= 0:
		return &ValidationError{Field: "id", Message: "product id must be positive"}
	case p.Name == "":
		return &ValidationError{Field: "name", Message: "product name is required"}
	case p.Price <= 0:
		return &ValidationError{Field: "price", Message: "price must be positive"}
	case p.DiscountPrice != nil && (*p.DiscountPrice <= 0 || *p.DiscountPrice >= p.Price):
		return &ValidationError{Field: "discount_price", Message: "discount price must be below price"}
	case len(p.Colors) == 0:
		return &ValidationError{Field: "colors", Message: "at least one color is required"}
	}
	return nil
}

// Shelf names used by the storefront.
const (
	ShelfFeatured    = "featured"
	ShelfNewArrivals = "newArrivals"
	ShelfBestSellers = "bestSellers"
	ShelfSale        = "sale"
)

// Shelf is a named, ordered subset of the catalog.
type Shelf struct {
	Name     string    `json:"name" yaml:"name"`
	Products []Product `json:"products" yaml:"products"`
}

// ShelfMap is an ordered mapping from shelf name to products.
type ShelfMap []Shelf

// Get returns the products of the named shelf.
func (m ShelfMap) Get(name string) ([]Product, bool) {
	for _, s := range m {
		if s.Name == name {
			return s.Products, true
		}
	}
	return nil, false
}

// HasResults reports whether any shelf holds at least one product.
func (m ShelfMap) HasResults() bool {
	for _, s := range m {
		if len(s.Products) > 0 {
			return true
		}
	}
	return false
}

// Sizes offered for every shoe.
var Sizes = []string{"5", "6", "7", "8", "9", "10", "11", "12"}

// DefaultSize is bound to lines added without choosing a size.
const DefaultSize = "8"

// MaxQuantity caps the quantity of a single cart line.
const MaxQuantity = 99

// ValidSize reports whether s is in the size set.
func ValidSize(s string) bool {
	return slices.Contains(Sizes, s)
}

// LineKey identifies a cart line.
type LineKey struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// CartLine is one product/size/color combination in the cart.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
}

// Key returns the merge key of the line.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Size: l.Size, Color: l.Color}
}

// Amount is the effective unit price times quantity.
func (l CartLine) Amount() Money {
	return l.Product.EffectivePrice() * Money(l.Quantity)
}

// Totals is the order summary of a set of cart lines.
type Totals struct {
	Subtotal Money `json:"subtotal"`
	Shipping Money `json:"shipping"`
	Total    Money `json:"total"`
}

// WishlistEntry wraps a wishlisted product.
type WishlistEntry struct {
	Product Product `json:"product"`
}

// PaymentMethod selected at checkout.
type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentBank   PaymentMethod = "bank"
)

// CheckoutForm mirrors the checkout page fields.
type CheckoutForm struct {
	FirstName     string        `json:"first_name" validate:"min=2"`
	LastName      string        `json:"last_name" validate:"min=2"`
	Email         string        `json:"email" validate:"required,email"`
	Phone         string        `json:"phone" validate:"min=6"`
	Address       string        `json:"address" validate:"min=5"`
	City          string        `json:"city" validate:"min=2"`
	PostalCode    string        `json:"postal_code" validate:"min=3"`
	State         string        `json:"state" validate:"min=2"`
	Country       string        `json:"country" validate:"min=2"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"oneof=credit bank"`
	CardNumber    string        `json:"card_number,omitempty"`
	CardExpiry    string        `json:"card_expiry,omitempty"`
	CardCVC       string        `json:"card_cvc,omitempty"`
}

// ShippingAddress joins the address fields the way the order confirmation shows them.
func (f CheckoutForm) ShippingAddress() string {
	return f.Address + ", " + f.City + ", " + f.PostalCode + ", " + f.State + ", " + f.Country
}

// Order is created at checkout and immutable afterwards.
type Order struct {
	ID              string        `json:"id"`
	Lines           []CartLine    `json:"lines"`
	Totals          Totals        `json:"totals"`
	ShippingAddress string        `json:"shipping_address"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	CreatedAt       time.Time     `json:"created_at"`
}

// TrackingStatus of a shipment.
type TrackingStatus string

const (
	TrackingProcessing TrackingStatus = "processing"
	TrackingShipping   TrackingStatus = "shipping"
	TrackingDelivered  TrackingStatus = "delivered"
)

// TrackingEvent is one milestone of a shipment.
type TrackingEvent struct {
	Date      string `json:"date" yaml:"date"`
	Status    string `json:"status" yaml:"status"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// TrackedItem is the item summary shown on the tracking page.
type TrackedItem struct {
	Name     string `json:"name" yaml:"name"`
	Quantity int64  `json:"quantity" yaml:"quantity"`
	Price    Money  `json:"price" yaml:"price"`
}

// TrackingRecord is the shipment-status projection for an order.
type TrackingRecord struct {
	OrderID            string          `json:"order_id" yaml:"id"`
	Status             TrackingStatus  `json:"status" yaml:"status"`
	OrderDate          string          `json:"order_date" yaml:"order_date"`
	EstimatedDelivery  string          `json:"estimated_delivery" yaml:"estimated_delivery"`
	CurrentLocation    string          `json:"current_location" yaml:"current_location"`
	ProgressPercentage int             `json:"progress_percentage" yaml:"progress_percentage"`
	Items              []TrackedItem   `json:"items" yaml:"items"`
	Events             []TrackingEvent `json:"events" yaml:"events"`
}

// NotificationKind classifies what the presentation layer should surface.
type NotificationKind string

const (
	NotifyItemAdded            NotificationKind = "item-added"
	NotifyItemRemoved          NotificationKind = "item-removed"
	NotifyWishlistAdded        NotificationKind = "wishlist-added"
	NotifyWishlistRemoved      NotificationKind = "wishlist-removed"
	NotifyOrderPlaced          NotificationKind = "order-placed"
	NotifyValidationError      NotificationKind = "validation-error"
	NotifyEmptyCartRedirect    NotificationKind = "empty-cart-redirect"
	NotifyChatReply            NotificationKind = "chat-reply"
	NotifyNewsletterSubscribed NotificationKind = "newsletter-subscribed"
)

// Notification is a toast-worthy event emitted by a session.
type Notification struct {
	SessionID   string           `json:"session_id"`
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	OrderID     string           `json:"order_id,omitempty"`
	At          time.Time        `json:"at"`
}

// ChatMessage is one entry of the support chat transcript.
type ChatMessage struct {
	ID      int       `json:"id"`
	Content string    `json:"content"`
	IsUser  bool      `json:"is_user"`
	At      time.Time `json:"at"`
}
