package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Store modes select which block/property collaborator backs the engine.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreREST   = "rest"
)

// Config aggregates application configuration values loaded from
// environment variables.
type Config struct {
	Env       string
	HTTPAddr  string
	StoreMode string

	MongoURI string
	MongoDB  string

	RemoteAPIURL   string
	RemoteAPIToken string
	RemoteTimeout  time.Duration

	KafkaBrokers     []string
	KafkaTopicPrefix string

	PropertyFixtures string
	AuthTokens       map[string]AuthToken
}

// AuthToken maps a static bearer token to a principal, memory mode only.
type AuthToken struct {
	Email string
	Role  string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StoreMode:        strings.ToLower(getEnv("STORE_MODE", StoreMemory)),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "vacanza"),
		RemoteAPIURL:     os.Getenv("REMOTE_API_URL"),
		RemoteAPIToken:   os.Getenv("REMOTE_API_TOKEN"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		PropertyFixtures: os.Getenv("PROPERTY_FIXTURES"),
	}

	timeout, err := parseDurationEnv("REMOTE_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.RemoteTimeout = timeout

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	tokens, err := parseAuthTokens(os.Getenv("AUTH_TOKENS"))
	if err != nil {
		return Config{}, err
	}
	cfg.AuthTokens = tokens

	switch cfg.StoreMode {
	case StoreMemory:
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORE_MODE=mongo")
		}
	case StoreREST:
		if cfg.RemoteAPIURL == "" {
			return Config{}, fmt.Errorf("REMOTE_API_URL is required when STORE_MODE=rest")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_MODE %q", cfg.StoreMode)
	}
	return cfg, nil
}

// parseAuthTokens reads "token=email:role,token2=email2" pairs. Role is
// optional and defaults to owner.
func parseAuthTokens(raw string) (map[string]AuthToken, error) {
	if raw == "" {
		return nil, nil
	}
	tokens := make(map[string]AuthToken)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, principal, ok := strings.Cut(pair, "=")
		if !ok || token == "" || principal == "" {
			return nil, fmt.Errorf("invalid AUTH_TOKENS entry %q", pair)
		}
		email, role, _ := strings.Cut(principal, ":")
		tokens[token] = AuthToken{Email: email, Role: role}
	}
	return tokens, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}
