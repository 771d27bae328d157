package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Elastic   ElasticsearchConfig
	Inventory InventoryConfig
	Orders    OrdersConfig
	I18n      I18nConfig
}

type ServerConfig struct {
	AppEnv   string
	GRPCPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	EventsTopic   string
	InboundTopic  string
	GroupID       string
	EnableInbound bool
}

type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
}

// InventoryConfig is read once at startup. With Enforce off, reserve and commit
// still record movements but never touch quantities.
type InventoryConfig struct {
	Enforce                  bool
	DefaultLowStockThreshold int
}

type OrdersConfig struct {
	CodePrefix        string
	BalanceCodePrefix string
	Timezone          string
	PublicBaseURL     string
}

type I18nConfig struct {
	DefaultLang string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			GRPCPort: getEnv("GRPC_PORT", ":8084"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_bar"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			EventsTopic:   getEnv("KAFKA_TOPIC_BAR_EVENTS", "bar.events"),
			InboundTopic:  getEnv("KAFKA_TOPIC_STOCK_INBOUND", "stock.inbound"),
			GroupID:       getEnv("KAFKA_GROUP_INVENTORY", "bar-inventory"),
			EnableInbound: getEnvBool("KAFKA_ENABLE_INBOUND", true),
		},
		Elastic: ElasticsearchConfig{
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		Inventory: InventoryConfig{
			// Production events currently run with enforcement off.
			Enforce:                  getEnvBool("INVENTORY_ENFORCE", false),
			DefaultLowStockThreshold: getEnvInt("INVENTORY_DEFAULT_LOW_STOCK", 10),
		},
		Orders: OrdersConfig{
			CodePrefix:        getEnv("ORDER_CODE_PREFIX", "P"),
			BalanceCodePrefix: getEnv("BALANCE_CODE_PREFIX", "QRC"),
			Timezone:          getEnv("APP_TIMEZONE", "Local"),
			PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		},
		I18n: I18nConfig{
			DefaultLang: getEnv("I18N_DEFAULT_LANG", "es"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}
