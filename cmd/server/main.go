package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/dripsend/internal/config"
	"github.com/dmitrymomot/dripsend/internal/handler"
	"github.com/dmitrymomot/dripsend/pkg/campaign"
	"github.com/dmitrymomot/dripsend/pkg/logger"
	"github.com/dmitrymomot/dripsend/pkg/mailer"
	"github.com/dmitrymomot/dripsend/pkg/mailer/resend"
	"github.com/dmitrymomot/dripsend/pkg/personalize"
	"github.com/dmitrymomot/dripsend/pkg/redis"
	"github.com/dmitrymomot/dripsend/pkg/senderpool"
)

const (
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Sentry, logger.RequestID())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	dir := senderpool.NewStaticDirectory(cfg.SenderUsernames...)
	pool := senderpool.New(dir, cfg.EmailDomain)

	var sender mailer.Sender = resend.New(cfg.Resend)
	sender = mailer.NewRetrySender(sender, cfg.MaxRetries, log)

	pOpts, err := personalizeOptions(cfg)
	if err != nil {
		return err
	}

	dispatcher := campaign.New(store, pool, sender, mailer.NewRenderer(cfg.EmailDomain),
		campaign.Config{
			RatePerMinute: cfg.RatePerMinute,
			JitterPercent: cfg.JitterPercent,
			MaxPerHour:    cfg.MaxPerHour,
			BaseDelay:     cfg.SendDelay,
			PaceByRate:    cfg.PaceByRate,
		},
		campaign.WithLogger(log),
		campaign.WithPersonalization(pOpts...),
	)

	h := handler.New(dispatcher, store, dir, pool, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting",
			slog.String("address", ln.Addr().String()),
			slog.String("domain", cfg.EmailDomain),
		)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newStore picks the job store: Redis when REDIS_URL is set, otherwise
// process memory.
func newStore(ctx context.Context, cfg config.Config, log *slog.Logger) (campaign.Store, func(), error) {
	if cfg.RedisURL == "" {
		return campaign.NewMemoryStore(), func() {}, nil
	}

	client, err := redis.Open(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using redis job store")
	return campaign.NewRedisStore(client), func() { _ = client.Close() }, nil
}

func personalizeOptions(cfg config.Config) ([]personalize.Option, error) {
	var opts []personalize.Option
	if cfg.SenderNamesFile != "" {
		table, err := personalize.LoadSenderNames(cfg.SenderNamesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, personalize.WithSenderNames(table))
	}
	if cfg.SeededConditionals {
		opts = append(opts, personalize.WithSeededConditionals())
	}
	return opts, nil
}
