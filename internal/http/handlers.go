package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"
)

type Server struct {
	engine   *gin.Engine
	catalog  *service.CatalogService
	checkout *service.CheckoutService
	tracking *service.TrackingService
	sessions *service.Manager
	logger   *zap.Logger
}

func NewServer(catalog *service.CatalogService, checkout *service.CheckoutService, tracking *service.TrackingService, sessions *service.Manager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery(), PrometheusMiddleware())
	s := &Server{engine: r, catalog: catalog, checkout: checkout, tracking: tracking, sessions: sessions, logger: logger}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
	})

	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.GET("", s.listProducts)
		products.GET(":id", s.getProduct)

		v1.GET("/orders/:orderId", s.getOrder)
		v1.GET("/orders/:orderId/tracking", s.trackOrder)

		v1.POST("/sessions", s.openSession)
		sess := v1.Group("/sessions/:sid")
		sess.GET("", s.getSnapshot)
		sess.DELETE("", s.closeSession)
		sess.GET("/events", s.events)
		sess.GET("/shelves", s.getShelves)
		sess.PUT("/shelves/active", s.setActiveShelf)
		sess.POST("/search", s.search)
		sess.POST("/category", s.selectCategory)
		sess.GET("/cart", s.getCart)
		sess.POST("/cart/items", s.addCartItem)
		sess.PUT("/cart/items/:productId", s.updateCartItem)
		sess.DELETE("/cart/items/:productId", s.removeCartItem)
		sess.POST("/cart/dismiss", s.dismissCart)
		sess.GET("/wishlist", s.getWishlist)
		sess.POST("/wishlist/:productId", s.toggleWishlist)
		sess.POST("/checkout", s.startCheckout)
		sess.DELETE("/checkout", s.cancelCheckout)
		sess.GET("/notifications", s.notifications)
		sess.GET("/chat", s.chatTranscript)
		sess.POST("/chat", s.sendChat)
		sess.GET("/chat/faq", s.listFAQ)
		sess.POST("/chat/faq", s.askFAQ)
		sess.POST("/newsletter", s.subscribe)
	}
}

// Catalog handlers

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Name contains"
// @Param category query string false "Category contains"
// @Param min_price query int false "Min effective price"
// @Param max_price query int false "Max effective price"
// @Success 200 {array} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	var f repository.ProductFilter
	f.NameSubstring = c.Query("q")
	f.Category = c.Query("category")
	if v := c.Query("min_price"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return
		}
		m := domain.Money(x)
		f.MinPrice = &m
	}
	if v := c.Query("max_price"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		m := domain.Money(x)
		f.MaxPrice = &m
	}
	list, err := s.catalog.List(c, f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := s.catalog.GetByID(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Get a placed order
// @Tags orders
// @Produce json
// @Param orderId path string true "Order ID, e.g. ORD-100000"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{orderId} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.checkout.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Track an order
// @Tags tracking
// @Produce json
// @Param orderId path string true "Order ID, e.g. ORD-12345"
// @Success 200 {object} domain.TrackingRecord
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{orderId}/tracking [get]
func (s *Server) trackOrder(c *gin.Context) {
	rec, err := s.tracking.TrackOrder(c, c.Param("orderId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Session handlers

// @Summary Open a shopping session
// @Tags sessions
// @Produce json
// @Success 201 {object} service.Snapshot
// @Router /sessions [post]
func (s *Server) openSession(c *gin.Context) {
	sess, err := s.sessions.Open(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess.Snapshot())
}

// @Summary Session badge counts
// @Tags sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} service.Snapshot
// @Failure 404 {object} map[string]string
// @Router /sessions/{sid} [get]
func (s *Server) getSnapshot(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// @Summary Close a session
// @Tags sessions
// @Param sid path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /sessions/{sid} [delete]
func (s *Server) closeSession(c *gin.Context) {
	if err := s.sessions.Close(c.Param("sid")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Stream badge counts
// @Description Server-sent events; one "snapshot" event now and one per change.
// @Tags sessions
// @Produce text/event-stream
// @Param sid path string true "Session ID"
// @Success 200 {object} service.Snapshot
// @Failure 404 {object} map[string]string
// @Router /sessions/{sid}/events [get]
func (s *Server) events(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	// observers run under the session lock, so a slow client drops updates
	ch := make(chan service.Snapshot, 16)
	stop, err := sess.Observe(func(snap service.Snapshot) {
		select {
		case ch <- snap:
		default:
		}
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	defer stop()
	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case snap := <-ch:
			c.SSEvent("snapshot", snap)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// @Summary Visible shelves
// @Tags browse
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} service.Browse
// @Router /sessions/{sid}/shelves [get]
func (s *Server) getShelves(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	b, err := sess.Browse()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type activeShelfReq struct {
	Shelf string `json:"shelf"`
}

// @Summary Switch the focused shelf
// @Tags browse
// @Accept json
// @Param sid path string true "Session ID"
// @Param input body activeShelfReq true "Shelf"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /sessions/{sid}/shelves/active [put]
func (s *Server) setActiveShelf(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req activeShelfReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := sess.SetActiveShelf(req.Shelf); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type searchReq struct {
	Query string `json:"query"`
}

// @Summary Search the catalog
// @Tags browse
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param input body searchReq true "Query"
// @Success 200 {object} service.Browse
// @Router /sessions/{sid}/search [post]
func (s *Server) search(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	b, err := sess.Search(req.Query)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type categoryReq struct {
	Category string `json:"category"`
}

// @Summary Filter by category
// @Tags browse
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param input body categoryReq true "Category"
// @Success 200 {object} service.Browse
// @Router /sessions/{sid}/category [post]
func (s *Server) selectCategory(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	b, err := sess.SelectCategory(req.Category)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Cart handlers

// @Summary Cart contents and totals
// @Tags cart
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} service.CartView
// @Router /sessions/{sid}/cart [get]
func (s *Server) getCart(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	s.writeCart(c, sess, http.StatusOK)
}

type addItemReq struct {
	service.AddItem
	// Quick adds one unit with the default size and first color.
	Quick bool `json:"quick"`
}

// @Summary Add to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param input body addItemReq true "Item"
// @Success 201 {object} service.CartView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{sid}/cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	var err error
	if req.Quick {
		err = sess.QuickAdd(c.Request.Context(), req.ProductID)
	} else {
		err = sess.AddToCart(c.Request.Context(), req.AddItem)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.writeCart(c, sess, http.StatusCreated)
}

type updateItemReq struct {
	Quantity int64 `json:"quantity"`
	// Size and Color select a single line; without them every line of the
	// product is updated.
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// @Summary Set line quantity
// @Description Quantities below 1 are ignored.
// @Tags cart
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param productId path int true "Product ID"
// @Param input body updateItemReq true "Quantity"
// @Success 200 {object} service.CartView
// @Router /sessions/{sid}/cart/items/{productId} [put]
func (s *Server) updateCartItem(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	id, err := parseID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Size != "" && req.Color != "" {
		_, err = sess.UpdateLineQuantity(domain.LineKey{ProductID: id, Size: req.Size, Color: req.Color}, req.Quantity)
	} else {
		_, err = sess.UpdateQuantity(id, req.Quantity)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.writeCart(c, sess, http.StatusOK)
}

// @Summary Remove a product from the cart
// @Description With size and color only that line is removed.
// @Tags cart
// @Produce json
// @Param sid path string true "Session ID"
// @Param productId path int true "Product ID"
// @Param size query string false "Line size"
// @Param color query string false "Line color"
// @Success 200 {object} service.CartView
// @Failure 404 {object} map[string]string
// @Router /sessions/{sid}/cart/items/{productId} [delete]
func (s *Server) removeCartItem(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	id, err := parseID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	size, color := c.Query("size"), c.Query("color")
	if size != "" && color != "" {
		err = sess.RemoveLine(c.Request.Context(), domain.LineKey{ProductID: id, Size: size, Color: color})
	} else {
		err = sess.RemoveItem(c.Request.Context(), id)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.writeCart(c, sess, http.StatusOK)
}

// @Summary Close the cart drawer
// @Tags cart
// @Param sid path string true "Session ID"
// @Success 204
// @Router /sessions/{sid}/cart/dismiss [post]
func (s *Server) dismissCart(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := sess.DismissCart(); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) writeCart(c *gin.Context, sess *service.Session, status int) {
	cart, err := sess.Cart()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(status, cart)
}

// Wishlist handlers

// @Summary Wishlist contents
// @Tags wishlist
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {array} domain.WishlistEntry
// @Router /sessions/{sid}/wishlist [get]
func (s *Server) getWishlist(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	items, err := sess.Wishlist()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Toggle a wishlist entry
// @Tags wishlist
// @Produce json
// @Param sid path string true "Session ID"
// @Param productId path int true "Product ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /sessions/{sid}/wishlist/{productId} [post]
func (s *Server) toggleWishlist(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	id, err := parseID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	added, err := sess.ToggleWishlist(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": id, "wishlisted": added})
}

// Checkout handlers

// @Summary Place an order
// @Description Starts checkout. With wait=true the response carries the placed order.
// @Tags checkout
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param wait query bool false "Wait for the order"
// @Param input body domain.CheckoutForm true "Checkout form"
// @Success 201 {object} domain.Order
// @Success 202 {object} service.Snapshot
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{sid}/checkout [post]
func (s *Server) startCheckout(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var form domain.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	task, err := sess.SubmitOrder(c.Request.Context(), form)
	if err != nil {
		s.fail(c, err)
		return
	}
	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, sess.Snapshot())
		return
	}
	o, err := task.Wait(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary Cancel a pending checkout
// @Tags checkout
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} map[string]bool
// @Router /sessions/{sid}/checkout [delete]
func (s *Server) cancelCheckout(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"canceled": sess.CancelCheckout()})
}

// @Summary Drain notifications
// @Tags sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {array} domain.Notification
// @Router /sessions/{sid}/notifications [get]
func (s *Server) notifications(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	ns := sess.Notifications()
	if ns == nil {
		ns = []domain.Notification{}
	}
	c.JSON(http.StatusOK, ns)
}

// Support handlers

// @Summary Chat transcript
// @Tags support
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {array} domain.ChatMessage
// @Router /sessions/{sid}/chat [get]
func (s *Server) chatTranscript(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	msgs, err := sess.ChatTranscript()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

type chatReq struct {
	Message string `json:"message"`
}

// @Summary Send a chat message
// @Description The bot reply arrives later as a chat-reply notification.
// @Tags support
// @Accept json
// @Param sid path string true "Session ID"
// @Param input body chatReq true "Message"
// @Success 202
// @Success 204
// @Router /sessions/{sid}/chat [post]
func (s *Server) sendChat(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	task, err := sess.SendChat(c.Request.Context(), req.Message)
	if err != nil {
		s.fail(c, err)
		return
	}
	if task == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.Status(http.StatusAccepted)
}

// @Summary Predefined questions
// @Tags support
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {array} service.FAQ
// @Router /sessions/{sid}/chat/faq [get]
func (s *Server) listFAQ(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	faq, err := sess.FAQ()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, faq)
}

type faqReq struct {
	Question string `json:"question"`
}

// @Summary Ask a predefined question
// @Tags support
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param input body faqReq true "Question"
// @Success 200 {object} domain.ChatMessage
// @Failure 404 {object} map[string]string
// @Router /sessions/{sid}/chat/faq [post]
func (s *Server) askFAQ(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req faqReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	m, err := sess.AskFAQ(req.Question)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type newsletterReq struct {
	Email string `json:"email"`
}

// @Summary Subscribe to the newsletter
// @Tags support
// @Accept json
// @Param sid path string true "Session ID"
// @Param input body newsletterReq true "Email"
// @Success 202
// @Failure 400 {object} map[string]string
// @Router /sessions/{sid}/newsletter [post]
func (s *Server) subscribe(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req newsletterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if _, err := sess.SubscribeNewsletter(c.Request.Context(), req.Email); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (s *Server) session(c *gin.Context) (*service.Session, bool) {
	sess, err := s.sessions.Get(c.Param("sid"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) fail(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// statusClientClosedRequest is the non-standard code for a client that went
// away before the response was ready.
const statusClientClosedRequest = 499

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrCanceled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
