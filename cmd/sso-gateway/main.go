package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/admin-sso/gateway/pkg/events"
	"github.com/admin-sso/gateway/pkg/nonce"
	"github.com/admin-sso/gateway/pkg/oauth2"
	"github.com/admin-sso/gateway/pkg/oidc"
	"github.com/admin-sso/gateway/pkg/prettylog"
	"github.com/admin-sso/gateway/pkg/sso"
	"github.com/admin-sso/gateway/pkg/util"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	godotenv.Load()
	setupLogging()

	var cfg sso.Config
	if path := os.Getenv("SSO_CONFIG_PATH"); path != "" {
		loaded, err := sso.LoadConfigFile(path)
		if err != nil {
			log.Fatal(err)
		}
		cfg = *loaded
	} else {
		cfg = sso.FromEnv()
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	secret := cfg.SessionSecret.Value()
	if secret == "" {
		slog.Warn("SSO_SESSION_SECRET not set, using an ephemeral signing secret; session tokens will not survive a restart")
		secret = oauth2.RandomString(64, "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	}

	broadcaster := events.NewBroadcaster()
	sinks := []events.Sink{events.SlogSink{}, broadcaster}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, events.NewWebhookSink(cfg.WebhookURL, cfg.OIDC.Timeout, events.EntryCreate))
	}
	bus := events.NewHub(sinks...)

	nonces, err := nonce.NewHashicorpNonceService()
	if err != nil {
		log.Fatal(err)
	}

	store := sso.NewMemoryUserStore()
	service := sso.NewService(
		cfg,
		oidc.NewClient(cfg.OIDC),
		sso.NewProvisioner(store, bus),
		sso.NewJWTIssuer(secret, cfg.SessionTTL),
		bus,
		nonces,
	)
	api := sso.NewAPI(service, sso.NewRenderer(cfg))

	root := echo.New()
	root.HideBanner = true
	root.Use(
		middleware.Recover(),
		middleware.Logger(),
	)

	api.MountRoutes(root.Group(""))
	root.GET("/events", broadcaster.Handler)
	root.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting sso-gateway", "addr", cfg.Addr)
		if err := root.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := root.Shutdown(shutdownCtx); err != nil {
		slog.Error("unable to shut down cleanly", "error", err)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(util.GetEnv("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}

	if util.GetEnvBool("LOG_PRETTY", false) {
		slog.SetDefault(slog.New(prettylog.NewHandler(level)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
