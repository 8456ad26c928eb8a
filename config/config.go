package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/UmangSachdeva/MessMate/store/mongostore"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	Port          string
	Env           string
	MongoURI      string
	MongoDB       string
	StoreBackend  string
	SecretKey     string
	TokenTTL      time.Duration
	BookingCutoff time.Duration
	LogLevel      string
	MediaStoreURL string
	MediaStoreKey string
	CORSOrigin    string
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Could not read .env file")
	}

	cfg := Config{
		Port:          getEnv("PORT", "5001"),
		Env:           getEnv("APP_ENV", "development"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDB:       getEnv("MONGO_DB", "messmate"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		SecretKey:     os.Getenv("SECRET_KEY"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MediaStoreURL: os.Getenv("MEDIA_STORE_URL"),
		MediaStoreKey: os.Getenv("MEDIA_STORE_KEY"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil {
		return cfg, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if cfg.BookingCutoff, err = time.ParseDuration(getEnv("BOOKING_CUTOFF", "30m")); err != nil {
		return cfg, fmt.Errorf("BOOKING_CUTOFF: %w", err)
	}

	if cfg.SecretKey == "" {
		return cfg, fmt.Errorf("SECRET_KEY not set")
	}
	switch cfg.StoreBackend {
	case BackendMongo:
		if cfg.MongoURI == "" {
			return cfg, fmt.Errorf("MONGO_URI not set")
		}
	case BackendMemory:
	default:
		return cfg, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}

// ConnectToMongo connects, pings and makes sure the indexes exist.
func ConnectToMongo(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")
	return client, db, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
