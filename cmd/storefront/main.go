package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/greenbasket/storefront/config"
	"github.com/greenbasket/storefront/internal/cart"
	"github.com/greenbasket/storefront/internal/catalog"
	storefronthttp "github.com/greenbasket/storefront/internal/http"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()

	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to redis", "addr", cfg.RedisAddr)

	snap := catalog.NewSnapshot()
	loader := catalog.NewLoader(catalog.SheetURL(cfg.SheetID, cfg.SheetName), snap, log)

	// Single load attempt; failure leaves an empty catalog and the
	// storefront keeps serving (carts still work, prices resolve to 0).
	go func() {
		if _, err := loader.Load(ctx); err != nil {
			log.Warn("starting with empty catalog", "error", err)
		}
	}()

	store := cart.NewStore(cart.NewRedisKV(redisClient), snap, log)
	store.Subscribe(func() {
		if n, err := store.Count(context.Background()); err == nil {
			log.Debug("cart changed", "count", n)
		}
	})

	router := storefronthttp.NewRouter(
		storefronthttp.NewProductHandler(snap, cfg.CatalogWaitTimeout),
		storefronthttp.NewCartHandler(store, snap, cfg.CatalogWaitTimeout, cfg.RequestTimeout),
		storefronthttp.NewCheckoutHandler(store, snap, cfg.WhatsAppPhone, cfg.CatalogWaitTimeout, cfg.RequestTimeout, log),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: otelhttp.NewHandler(router, "storefront"),
	}

	go func() {
		log.Info("storefront listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	log.Info("storefront stopped")
}
