package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию сервиса генерации романов.
type Config struct {
	// Настройки HTTP сервера
	Port            string        `envconfig:"PORT" default:"8080"`
	MetricsPort     string        `envconfig:"METRICS_PORT" default:"9091"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Настройки логгера
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// Настройки AI провайдера
	AIProvider string        `envconfig:"AI_PROVIDER" default:"cloud"` // cloud или local
	AIModel    string        `envconfig:"AI_MODEL" default:"gpt-4o"`
	AIBaseURL  string        `envconfig:"AI_BASE_URL" default:""` // пусто = дефолт клиента
	AIOrgID    string        `envconfig:"AI_ORG_ID" default:""`
	AITimeout  time.Duration `envconfig:"AI_TIMEOUT" default:"180s"`
	// Для локального провайдера (Ollama)
	OllamaHost  string `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
	OllamaModel string `envconfig:"OLLAMA_MODEL" default:"llama3"`
	// Секретное поле БЕЗ envconfig тега
	AIAPIKey string

	// Настройки генерации
	QualityThreshold        float64 `envconfig:"QUALITY_THRESHOLD" default:"0.7"`
	MaxRegenerationAttempts int     `envconfig:"MAX_REGENERATION_ATTEMPTS" default:"3"`
	DefaultComplexity       string  `envconfig:"DEFAULT_COMPLEXITY" default:"standard"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBName        string        `envconfig:"DB_NAME" default:"fabula_db"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Секретное поле БЕЗ envconfig тега
	DBPassword string
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig загружает конфигурацию из переменных окружения и секретов.
// Локальный .env подхватывается, если он есть (удобно для разработки).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Секреты: сначала файл (Docker Secrets), затем переменная окружения.
	cfg.AIAPIKey = readSecret("ai_api_key", "AI_API_KEY")
	cfg.DBPassword = readSecret("db_password", "DB_PASSWORD")

	if cfg.AIProvider == "cloud" && cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("AI_API_KEY обязателен для провайдера cloud")
	}

	return &cfg, nil
}

// MaskedDSN возвращает DSN с замаскированным паролем для логирования
func (c *Config) MaskedDSN() string {
	dsn := c.GetDSN()
	parts := strings.Split(dsn, "@")
	if len(parts) != 2 {
		return "[invalid dsn format]"
	}
	userInfo := strings.Split(parts[0], ":")
	if len(userInfo) >= 2 {
		userInfo[len(userInfo)-1] = "********" // Маскируем пароль
	}
	return strings.Join(userInfo, ":") + "@" + parts[1]
}

// readSecret читает секрет из /run/secrets/<name>, с fallback на переменную окружения.
func readSecret(secretName, envName string) string {
	filePath := fmt.Sprintf("/run/secrets/%s", secretName)
	if secretBytes, err := os.ReadFile(filePath); err == nil {
		if secret := strings.TrimSpace(string(secretBytes)); secret != "" {
			return secret
		}
	}
	return strings.TrimSpace(os.Getenv(envName))
}
