package main

import (
	"context"
	"errors"
	"log"
	oshttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatwithme/internal/api"
	"chatwithme/internal/config"
	"chatwithme/internal/directory"
	"chatwithme/internal/filestore"
	"chatwithme/internal/http"
	"chatwithme/internal/ledger"
	"chatwithme/internal/notify"
	"chatwithme/internal/ws"

	"golang.org/x/sync/errgroup"
)

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	users := directory.New()
	records := ledger.New(users, ledger.RandomSummary)

	notifier := notify.New(notify.Config{
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		Subscriber:      cfg.PushSubscriber,
	})

	registry := ws.NewRegistry(users)
	router := ws.NewRouter(users, registry, notifier)
	wsServer := ws.NewServer(registry)

	avatars, err := filestore.NewLocalStore(cfg.AvatarsPath)
	if err != nil {
		return err
	}

	apiHandlers := api.New(users, records, router, notifier, avatars, api.Config{
		BaseURL:        cfg.BaseURL,
		HistoryLimit:   cfg.PublicHistoryLimit,
		AvatarMaxBytes: cfg.AvatarMaxBytes,
	})

	apiServer := http.NewAPIServer(apiHandlers, wsServer, cfg.APIAddr)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := apiServer.Start()
		if err != nil && err != oshttp.ErrServerClosed {
			return err
		}
		return nil
	})

	// Wait for context cancellation (signal)
	g.Go(func() error {
		<-gCtx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		return nil
	})

	return g.Wait()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Application error: %v", err)
	}
}
