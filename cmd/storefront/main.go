package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/infra/kvstore"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/storefront/internal/gateway/display"
	"github.com/dwikikusuma/storefront/internal/gateway/httpapi"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/dwikikusuma/storefront/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	store, err := kvstore.Open(cfg.StorePath, log)
	if err != nil {
		log.Error("open cart store", slog.Any("err", err))
		return
	}
	defer store.Close()

	renderer := display.New(log)

	cart := cartapp.NewService(store, renderer, renderer, log)
	cart.Hydrate(ctx)

	gateway := adapter.NewCartServiceGateway(cart)
	composer := checkoutapp.NewService(gateway, checkoutapp.Options{
		RestaurantName:     cfg.RestaurantName,
		Currency:           cfg.Currency,
		DestinationContact: cfg.DestinationContact,
		DeliveryFee:        cfg.DeliveryFee,
	})
	flow := checkoutapp.NewFlow(composer, gateway, renderer, log)

	handler := httpapi.NewHandler(cart, flow, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("err", err))
	}
	log.Info("bye")
}
