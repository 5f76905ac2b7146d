package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shop_client/internal/cart"
	"github.com/Skotchmaster/shop_client/internal/config"
	"github.com/Skotchmaster/shop_client/internal/events"
	"github.com/Skotchmaster/shop_client/internal/gateway"
	"github.com/Skotchmaster/shop_client/internal/httpserver"
	"github.com/Skotchmaster/shop_client/internal/logging"
	"github.com/Skotchmaster/shop_client/internal/notify"
	"github.com/Skotchmaster/shop_client/internal/session"
	"github.com/Skotchmaster/shop_client/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	store, err := storage.Open(cfg.StatePath)
	if err != nil {
		log.Fatalf("открыть локальное хранилище: %v", err)
	}

	gw := gateway.NewClient(cfg.BackendURL, cfg.RequestTimeout)
	notifier := notify.NewLogNotifier(logger)

	sessionStore := session.New(gw, store, notifier)
	gw.UseTokenSource(sessionStore.Token)

	cartStore := cart.New(gw, sessionStore, notifier)
	sessionStore.OnIdentityChange(cartStore.HandleIdentityChange)

	// resolve the stored session before serving anything
	hydrateCtx, cancelHydrate := context.WithTimeout(
		logging.IntoContext(context.Background(), logger), 10*time.Second)
	if err := sessionStore.Hydrate(hydrateCtx); err != nil {
		logger.Warn("session hydrate failed", "error", err)
	}
	cancelHydrate()

	prod := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(httpserver.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Session:  sessionStore,
		Cart:     cartStore,
		Gateway:  gw,
		Producer: prod,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("storage close error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
