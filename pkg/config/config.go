package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Reporter   ReporterConfig
	Dashboard  DashboardConfig
	Sync       SyncConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	CloudWatch CloudWatchConfig
	NATS       NATSConfig
	DynamoDB   DynamoDBConfig
	Security   SecurityConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// ReporterConfig настраивает цикл сэмплирования здоровья узла
type ReporterConfig struct {
	SampleInterval time.Duration
	SnapshotPath   string
	SyncMarkerPath string
	ProcessName    string
	LivenessURL    string
	DiskPath       string
}

// DashboardConfig настраивает цикл опроса флота
type DashboardConfig struct {
	PollInterval       time.Duration
	NodeTimeout        time.Duration
	Nodes              []NodeConfig
	HistoryMaxDuration time.Duration
}

// NodeConfig — один опрашиваемый узел
type NodeConfig struct {
	Name string
	URL  string
}

// SyncConfig настраивает зеркалирование контента из S3
type SyncConfig struct {
	Interval        time.Duration
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	DocumentRoot    string
	MarkerPath      string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
	PoolSize int
}

type CloudWatchConfig struct {
	Enabled         bool
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Namespace       string
	LogGroup        string
	LogStream       string
	FlushInterval   time.Duration
	BufferSize      int
}

type NATSConfig struct {
	Enabled bool
	URL     string
}

type DynamoDBConfig struct {
	Enabled         bool
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type SecurityConfig struct {
	AllowedOrigins []string
	AuthEnabled    bool
	AuthToken      string
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	sampleInterval, err := time.ParseDuration(getEnv("REPORTER_SAMPLE_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORTER_SAMPLE_INTERVAL: %w", err)
	}

	pollInterval, err := time.ParseDuration(getEnv("DASHBOARD_POLL_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_POLL_INTERVAL: %w", err)
	}

	nodeTimeout, err := time.ParseDuration(getEnv("DASHBOARD_NODE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_NODE_TIMEOUT: %w", err)
	}

	historyMaxDuration, err := time.ParseDuration(getEnv("DASHBOARD_HISTORY_MAX_DURATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_HISTORY_MAX_DURATION: %w", err)
	}

	syncInterval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}

	cwFlushInterval, err := time.ParseDuration(getEnv("CLOUDWATCH_FLUSH_INTERVAL", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_FLUSH_INTERVAL: %w", err)
	}

	cwBufferSize, err := strconv.Atoi(getEnv("CLOUDWATCH_BUFFER_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_BUFFER_SIZE: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnv("REDIS_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	redisPoolSize, err := strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_POOL_SIZE: %w", err)
	}

	rateLimitRPS, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	rateLimitBurst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	nodes, err := parseNodes(getEnv("DASHBOARD_NODES", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_NODES: %w", err)
	}

	markerPath := getEnv("SYNC_MARKER_PATH", "/var/www/html/.last-sync")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Reporter: ReporterConfig{
			SampleInterval: sampleInterval,
			SnapshotPath:   getEnv("REPORTER_SNAPSHOT_PATH", "/var/www/html/health.json"),
			SyncMarkerPath: markerPath,
			ProcessName:    getEnv("REPORTER_PROCESS_NAME", "nginx"),
			LivenessURL:    getEnv("REPORTER_LIVENESS_URL", "http://127.0.0.1/"),
			DiskPath:       getEnv("REPORTER_DISK_PATH", "/"),
		},
		Dashboard: DashboardConfig{
			PollInterval:       pollInterval,
			NodeTimeout:        nodeTimeout,
			Nodes:              nodes,
			HistoryMaxDuration: historyMaxDuration,
		},
		Sync: SyncConfig{
			Interval:        syncInterval,
			Bucket:          getEnv("SYNC_S3_BUCKET", ""),
			Prefix:          getEnv("SYNC_S3_PREFIX", ""),
			Region:          getEnv("SYNC_S3_REGION", "us-east-1"),
			Endpoint:        getEnv("SYNC_S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("SYNC_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("SYNC_S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnvBool("SYNC_S3_USE_PATH_STYLE", false),
			DocumentRoot:    getEnv("SYNC_DOCUMENT_ROOT", "/var/www/html"),
			MarkerPath:      markerPath,
		},
		Database: DatabaseConfig{
			Enabled:         getEnvBool("DB_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "fleet_status"),
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      redisTTL,
			PoolSize: redisPoolSize,
		},
		CloudWatch: CloudWatchConfig{
			Enabled:         getEnvBool("CLOUDWATCH_ENABLED", false),
			Region:          getEnv("CLOUDWATCH_REGION", "us-east-1"),
			Endpoint:        getEnv("CLOUDWATCH_ENDPOINT", ""),
			AccessKeyID:     getEnv("CLOUDWATCH_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("CLOUDWATCH_SECRET_ACCESS_KEY", ""),
			Namespace:       getEnv("CLOUDWATCH_NAMESPACE", "FleetStatus/Health"),
			LogGroup:        getEnv("CLOUDWATCH_LOG_GROUP", "/fleet-status/health-reporter"),
			LogStream:       getEnv("CLOUDWATCH_LOG_STREAM", ""),
			FlushInterval:   cwFlushInterval,
			BufferSize:      cwBufferSize,
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		DynamoDB: DynamoDBConfig{
			Enabled:         getEnvBool("DYNAMODB_ENABLED", false),
			TableName:       getEnv("DYNAMODB_TABLE", "fleet-health"),
			Region:          getEnv("DYNAMODB_REGION", "us-east-1"),
			Endpoint:        getEnv("DYNAMODB_ENDPOINT", ""),
			AccessKeyID:     getEnv("DYNAMODB_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("DYNAMODB_SECRET_ACCESS_KEY", ""),
		},
		Security: SecurityConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080")),
			AuthEnabled:    getEnvBool("AUTH_ENABLED", false),
			AuthToken:      getEnv("AUTH_BEARER_TOKEN", ""),
			RateLimitRPS:   rateLimitRPS,
			RateLimitBurst: rateLimitBurst,
		},
	}

	if cfg.Security.AuthEnabled && cfg.Security.AuthToken == "" {
		return nil, fmt.Errorf("AUTH_BEARER_TOKEN is required when AUTH_ENABLED=true")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

// parseNodes разбирает список узлов вида "web-1=http://10.0.1.10:8081,web-2=http://10.0.1.11:8081".
// Элемент без имени ("http://host:port") получает имя из URL.
func parseNodes(raw string) ([]NodeConfig, error) {
	items := splitCSV(raw)
	nodes := make([]NodeConfig, 0, len(items))

	for _, item := range items {
		name, url, found := strings.Cut(item, "=")
		if !found {
			url = item
			name = strings.TrimPrefix(strings.TrimPrefix(item, "https://"), "http://")
		}
		if name == "" || url == "" {
			return nil, fmt.Errorf("malformed node entry %q", item)
		}
		nodes = append(nodes, NodeConfig{Name: name, URL: url})
	}

	return nodes, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	current := ""

	for _, r := range raw {
		if r == ',' {
			if current != "" {
				items = append(items, current)
				current = ""
			}
			continue
		}
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			current += string(r)
		}
	}

	if current != "" {
		items = append(items, current)
	}

	return items
}
