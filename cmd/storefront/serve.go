package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/domain"
	httpapi "storefront/internal/http"
	"storefront/internal/notify"
	"storefront/internal/repository"
	"storefront/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := loadStore()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	ordersRepo := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)

	var sinks []notify.Publisher
	if cfg.RabbitMQURL != "" {
		pub, err := notify.NewAMQPPublisher(notify.AMQPConfig{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.NotifyExchange,
			Buffer:   cfg.NotifyBuffer,
		}, logger)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}
	bus := notify.NewBus(logger, sinks...)
	unsubscribe := bus.Subscribe(func(n domain.Notification) {
		if n.Kind == domain.NotifyOrderPlaced {
			logger.Info("order confirmed", zap.String("session_id", n.SessionID), zap.String("order_id", n.OrderID))
		}
	})
	defer unsubscribe()

	policy := service.ShippingPolicy{
		FreeThreshold: domain.Money(cfg.FreeShippingThreshold),
		FlatFee:       domain.Money(cfg.ShippingFee),
	}
	catalog := service.NewCatalogService(store)
	tracking := service.NewTrackingService(store)
	checkout := service.NewCheckoutService(ordersRepo, store, tx, service.CheckoutOptions{
		Delay:   cfg.CheckoutDelay,
		Policy:  policy,
		OrderID: service.NewOrderIDs(cfg.OrderIDSeed),
		Logger:  logger,
	})
	manager := service.NewManager(service.SessionDeps{
		Catalog:         store,
		Checkout:        checkout,
		Tracking:        tracking,
		Notifier:        bus,
		Policy:          policy,
		ChatDelay:       cfg.ChatDelay,
		NewsletterDelay: cfg.NewsletterDelay,
		Logger:          logger,
	})
	defer manager.CloseAll()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := httpapi.NewServer(catalog, checkout, tracking, manager, logger)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
