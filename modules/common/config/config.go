package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Server
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Redis
	RedisHost        string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort        string `env:"REDIS_PORT" envDefault:"6379"`
	RedisUsername    string `env:"REDIS_USERNAME"`
	RedisPassword    string `env:"REDIS_PASSWORD"`
	RedisUseTLS      bool   `env:"REDIS_USE_TLS" envDefault:"true"`
	RedisTLSInsecure bool   `env:"REDIS_TLS_INSECURE" envDefault:"true"`

	// Supabase
	SupabaseURL            string `env:"SUPABASE_URL"`
	SupabaseServiceKey     string `env:"SUPABASE_SERVICE_KEY"`
	SupabaseStorageBaseURL string `env:"SUPABASE_STORAGE_BASE_URL"`
	SupabaseStorageBucket  string `env:"SUPABASE_STORAGE_BUCKET" envDefault:"attachments"`

	// Gemini API
	GeminiAPIKeys []string      `env:"GEMINI_API_KEYS" envSeparator:","`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-3-pro-image-preview"`
	GeminiTimeout time.Duration `env:"GEMINI_TIMEOUT" envDefault:"3m"`

	// Credit
	ImagePerPrice       int    `env:"IMAGE_PER_PRICE" envDefault:"2"`
	CreditBackend       string `env:"CREDIT_BACKEND" envDefault:"supabase"`
	MemoryCreditBalance int    `env:"MEMORY_CREDIT_BALANCE" envDefault:"1000"`

	// Storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"supabase"`
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"photoshoot-results"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"true"`

	// Photoshoot
	MaxBatches         int           `env:"MAX_BATCHES" envDefault:"256"`
	PlanTTL            time.Duration `env:"PLAN_TTL" envDefault:"30m"`
	LibraryCacheTTL    time.Duration `env:"LIBRARY_CACHE_TTL" envDefault:"5m"`
	DefaultAspectRatio string        `env:"DEFAULT_ASPECT_RATIO" envDefault:"3:4"`
	DefaultResolution  string        `env:"DEFAULT_RESOLUTION" envDefault:"1K"`
}

const (
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
	BackendMinio    = "minio"
)

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️  .env file not found, using environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	globalConfig = cfg

	log.Info().
		Str("redis", globalConfig.GetRedisAddr()).
		Bool("redis_tls", globalConfig.RedisUseTLS).
		Str("supabase", globalConfig.SupabaseURL).
		Str("gemini_model", globalConfig.GeminiModel).
		Dur("gemini_timeout", globalConfig.GeminiTimeout).
		Int("gemini_keys", len(globalConfig.GeminiAPIKeys)).
		Str("credit_backend", globalConfig.CreditBackend).
		Str("storage_backend", globalConfig.StorageBackend).
		Msg("✅ Configuration loaded successfully")

	return globalConfig, nil
}

// Parse - 환경변수를 Config로 파싱하고 검증 (전역 상태 변경 없음)
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal().Msg("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

func (c *Config) normalize() {
	c.CreditBackend = strings.ToLower(strings.TrimSpace(c.CreditBackend))
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	keys := c.GeminiAPIKeys[:0]
	for _, k := range c.GeminiAPIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	c.GeminiAPIKeys = keys
	if c.MaxBatches < 1 {
		c.MaxBatches = 1
	}
	if c.ImagePerPrice < 1 {
		c.ImagePerPrice = 1
	}
	if c.GeminiTimeout <= 0 {
		c.GeminiTimeout = 3 * time.Minute
	}
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEYS is required")
	}
	switch c.CreditBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for supabase credit backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown CREDIT_BACKEND: %s", c.CreditBackend)
	}
	switch c.StorageBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for supabase storage")
		}
	case BackendMinio:
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for minio storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND: %s", c.StorageBackend)
	}
	return nil
}

// HasSupabase - Supabase 연결 정보가 있는지
func (c *Config) HasSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
