package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type App struct {
	Env          string
	ServiceName  string
	CacheBackend string
}

type HTTP struct {
	Port string
}

type DB struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type Kafka struct {
	Brokers              []string
	ProductsTopic        string
	RecommendationsTopic string
	ReviewsTopic         string
	Group                string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// Publisher holds the bounded worker pool settings for event publication.
type Publisher struct {
	PoolSize   int
	QueueDepth int
}

// Downstream holds the composite service's view of the three entity services.
type Downstream struct {
	ProductServiceURL        string
	RecommendationServiceURL string
	ReviewServiceURL         string
	Timeout                  time.Duration
}

type Config struct {
	App        App
	HTTP       HTTP
	DB         DB
	Kafka      Kafka
	Redis      Redis
	Publisher  Publisher
	Downstream Downstream
}

func Load() Config {
	return Config{
		App: App{
			Env:          getenv("APP_ENV", "dev"),
			ServiceName:  getenv("SERVICE_NAME", "product-composite"),
			CacheBackend: getenv("CACHE_BACKEND", "lru"),
		},
		HTTP: HTTP{
			Port: getenv("PORT", "8080"),
		},
		DB: DB{
			Host:     getenv("DB_HOST", "127.0.0.1"),
			Port:     getenv("DB_PORT", "5432"),
			Name:     getenv("DB_NAME", "catalog_db"),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", "postgres"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		Kafka: Kafka{
			Brokers:              splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
			ProductsTopic:        getenv("PRODUCTS_TOPIC", "products"),
			RecommendationsTopic: getenv("RECOMMENDATIONS_TOPIC", "recommendations"),
			ReviewsTopic:         getenv("REVIEWS_TOPIC", "reviews"),
			Group:                getenv("CONSUMER_GROUP", ""),
		},
		Redis: Redis{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       atoi(getenv("REDIS_DB", "0")),
			TTL:      parseDuration(getenv("REDIS_TTL", "10m")),
			Prefix:   getenv("REDIS_PREFIX", "product:"),
		},
		Publisher: Publisher{
			PoolSize:   atoi(getenv("PUBLISH_POOL_SIZE", "4")),
			QueueDepth: atoi(getenv("PUBLISH_QUEUE_DEPTH", "64")),
		},
		Downstream: Downstream{
			ProductServiceURL:        getenv("PRODUCT_SERVICE_URL", "http://localhost:7001"),
			RecommendationServiceURL: getenv("RECOMMENDATION_SERVICE_URL", "http://localhost:7002"),
			ReviewServiceURL:         getenv("REVIEW_SERVICE_URL", "http://localhost:7003"),
			Timeout:                  parseDuration(getenv("DOWNSTREAM_TIMEOUT", "2s")),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
