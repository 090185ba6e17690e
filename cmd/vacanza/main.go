package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vacanza/internal/app/engine"
	"vacanza/internal/domain/auth"
	"vacanza/internal/domain/availability"
	"vacanza/internal/domain/property"
	"vacanza/internal/infra/broker/kafka"
	"vacanza/internal/infra/config"
	mongostore "vacanza/internal/infra/db/mongo"
	ginserver "vacanza/internal/infra/http/gin"
	"vacanza/internal/infra/obs"
	"vacanza/internal/infra/remote/rest"
	"vacanza/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	stores, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("store init failed", "error", err, "mode", cfg.StoreMode)
		os.Exit(1)
	}
	defer cleanup()

	eng := engine.New(engine.Deps{
		Blocks:     stores.blocks,
		Properties: stores.properties,
		Auth:       auth.RequestContext{},
		Logger:     logger,
	})

	var publisher ginserver.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, logger)
		if err != nil {
			logger.Warn("kafka producer unavailable, events disabled", "error", err)
		} else {
			defer producer.Close()
			publisher = producer
		}
	}

	handlers := ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{
			Engine:    eng,
			Publisher: publisher,
			Logger:    logger,
		},
		Property: ginserver.PropertyHandler{
			Engine:     eng,
			Properties: stores.properties,
		},
	}
	if stores.tokens != nil {
		handlers.AuthMiddleware = ginserver.AuthMiddleware{Resolver: stores.tokens, Logger: logger}.Handle
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: stores.ready,
	}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type stores struct {
	blocks     availability.BlockStore
	properties property.Store
	tokens     ginserver.TokenResolver
	ready      func() error
}

func buildStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, func(), error) {
	noop := func() {}
	switch cfg.StoreMode {
	case config.StoreMongo:
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return stores{}, noop, err
		}
		blocks := mongostore.NewBlockRepository(client.DB)
		if err := blocks.EnsureIndexes(ctx); err != nil {
			return stores{}, noop, err
		}
		cleanup := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		}
		return stores{
			blocks:     blocks,
			properties: mongostore.NewPropertyRepository(client.DB),
			tokens:     tokenResolver(cfg),
			ready:      func() error { return client.Ping(context.Background()) },
		}, cleanup, nil
	case config.StoreREST:
		client := rest.NewClient(&http.Client{Timeout: cfg.RemoteTimeout}, cfg.RemoteAPIURL, cfg.RemoteAPIToken)
		return stores{
			blocks:     client,
			properties: client,
			tokens:     tokenResolver(cfg),
		}, noop, nil
	default:
		props := memory.NewPropertyStore()
		if cfg.PropertyFixtures != "" {
			if err := loadPropertyFixtures(ctx, props, cfg.PropertyFixtures); err != nil {
				logger.Warn("property fixtures load failed", "error", err, "path", cfg.PropertyFixtures)
			}
		}
		return stores{
			blocks:     memory.NewBlockStore(),
			properties: props,
			tokens:     tokenResolver(cfg),
		}, noop, nil
	}
}

func tokenResolver(cfg config.Config) ginserver.TokenResolver {
	if len(cfg.AuthTokens) == 0 {
		return nil
	}
	resolver := memory.NewTokenResolver()
	for token, entry := range cfg.AuthTokens {
		resolver.Register(token, entry.Email, auth.Role(entry.Role))
	}
	return resolver
}

type propertyFixture struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Location      string   `json:"location"`
	Capacity      int      `json:"capacity"`
	PricePerNight float64  `json:"price_per_night"`
	CoverImage    string   `json:"cover_image"`
	Images        []string `json:"images"`
	Amenities     []string `json:"amenities"`
	OwnerEmail    string   `json:"owner_email"`
}

func loadPropertyFixtures(ctx context.Context, store property.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fixtures []propertyFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return err
	}
	for _, f := range fixtures {
		p, err := property.New(property.CreateParams{
			ID:            f.ID,
			Title:         f.Title,
			Location:      f.Location,
			Capacity:      f.Capacity,
			PricePerNight: f.PricePerNight,
			CoverImageURL: f.CoverImage,
			GalleryURLs:   f.Images,
			Amenities:     f.Amenities,
			OwnerEmail:    f.OwnerEmail,
			Now:           time.Now(),
		})
		if err != nil {
			return err
		}
		if err := store.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
