package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/akinleyeOJ/culturer-backend/api/controllers"
	"github.com/akinleyeOJ/culturer-backend/api/routes"
	"github.com/akinleyeOJ/culturer-backend/internal/appstate"
	"github.com/akinleyeOJ/culturer-backend/internal/cart"
	"github.com/akinleyeOJ/culturer-backend/internal/events"
	"github.com/akinleyeOJ/culturer-backend/internal/listings"
	"github.com/akinleyeOJ/culturer-backend/internal/optimistic"
	"github.com/akinleyeOJ/culturer-backend/internal/orders"
	product "github.com/akinleyeOJ/culturer-backend/internal/products"
	"github.com/akinleyeOJ/culturer-backend/internal/recent"
	"github.com/akinleyeOJ/culturer-backend/internal/wishlist"
	"github.com/akinleyeOJ/culturer-backend/pkg/config"
	"github.com/akinleyeOJ/culturer-backend/pkg/db"
	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
	"github.com/akinleyeOJ/culturer-backend/pkg/metrics"
	"github.com/akinleyeOJ/culturer-backend/pkg/migrate"
	"github.com/akinleyeOJ/culturer-backend/pkg/pubsub"
	"github.com/akinleyeOJ/culturer-backend/pkg/redis"
	"github.com/akinleyeOJ/culturer-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	optionalDeps := map[string]controllers.Pinger{"redis": redisClient}

	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
		optionalDeps["gcs"] = gcsClient
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, image uploads disabled")
		optionalDeps["gcs"] = nil
	}

	activity := events.NewPublisher(nil, logg)
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		activity = events.NewPublisher(pubsubClient.ActivityPublisher(), logg)
		optionalDeps["pubsub"] = pubsubClient
	} else {
		logg.Warn(context.Background(), "gcp project not configured, activity events disabled")
		optionalDeps["pubsub"] = nil
	}

	appState := appstate.NewStore(redisClient, logg)

	productRepo := product.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	recentRepo := recent.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	taxRate := decimal.NewFromFloat(cfg.Checkout.TaxRate)

	cartService, err := cart.NewService(cartRepo, dbClient, productRepo, appState, taxRate)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	recentService, err := recent.NewService(recentRepo, wishlistRepo, 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create recent service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(productRepo, wishlistRepo, recentService, activity, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	mutationRunner, err := optimistic.NewRunner(metrics.NewMutationMetrics(prometheus.DefaultRegisterer), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mutation runner", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlistRepo,
		Products: productRepo,
		Cart:     cartService,
		Runner:   mutationRunner,
		Badges:   appState,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	listingParams := listings.ServiceParams{
		Repo:   productRepo,
		Events: activity,
		Config: cfg.Listings,
		Logger: logg,
	}
	if gcsClient != nil {
		listingParams.Storage = gcsClient
	}
	listingService, err := listings.NewService(listingParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create listing service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:    orderRepo,
		Cart:    cartRepo,
		Events:  activity,
		TaxRate: taxRate,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Optional: optionalDeps,
			Products: productService,
			Cart:     cartService,
			Wishlist: wishlistService,
			Recent:   recentService,
			Listings: listingService,
			Orders:   orderService,
			AppState: appState,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeout, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeout); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
