package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yaml"

// Config объединяет все аспекты настройки приложения.
type Config struct {
	HTTP      HTTPConfig     `yaml:"http"`
	GitHub    GitHubConfig   `yaml:"github"`
	Cache     CacheConfig    `yaml:"cache"`
	Fetch     FetchConfig    `yaml:"fetch"`
	Teams     TeamsConfig    `yaml:"teams"`
	Timeouts  TimeoutConfig  `yaml:"timeouts"`
	Logging   LoggingConfig  `yaml:"logging"`
	LoadTests LoadTestConfig `yaml:"load_tests"`
}

// HTTPConfig описывает HTTP-сервер.
type HTTPConfig struct {
	Port         string        `yaml:"port" env:"HTTP_PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT"`
}

// GitHubConfig описывает доступ к API хостинга кода.
type GitHubConfig struct {
	BaseURL      string        `yaml:"base_url" env:"GITHUB_BASE_URL"`
	Token        string        `yaml:"token" env:"GITHUB_TOKEN"`
	Organization string        `yaml:"organization" env:"GITHUB_ORGANIZATION"`
	DemoMode     bool          `yaml:"demo_mode" env:"DEMO_MODE"`
	PerPage      int           `yaml:"per_page" env:"GITHUB_PER_PAGE"`
	MaxPages     int           `yaml:"max_pages" env:"GITHUB_MAX_PAGES"`
	MaxRetries   int           `yaml:"max_retries" env:"GITHUB_MAX_RETRIES"`
	RetryDelay   time.Duration `yaml:"retry_delay" env:"GITHUB_RETRY_DELAY"`
	HTTPTimeout  time.Duration `yaml:"http_timeout" env:"GITHUB_HTTP_TIMEOUT"`
}

// CacheConfig задаёт времена жизни записей кэша.
type CacheConfig struct {
	TTL      time.Duration `yaml:"ttl" env:"CACHE_TTL"`
	ErrorTTL time.Duration `yaml:"error_ttl" env:"CACHE_ERROR_TTL"`
}

// FetchConfig задаёт параметры параллельной загрузки метрик.
type FetchConfig struct {
	MaxConcurrent int           `yaml:"max_concurrent" env:"FETCH_MAX_CONCURRENT"`
	RequestDelay  time.Duration `yaml:"request_delay" env:"FETCH_REQUEST_DELAY"`
	WindowDays    int           `yaml:"window_days" env:"FETCH_WINDOW_DAYS"`
}

// TeamsConfig задаёт путь до файла соответствия команд и репозиториев.
type TeamsConfig struct {
	Path string `yaml:"path" env:"TEAMS_PATH"`
}

// TimeoutConfig содержит таймауты разного уровня.
type TimeoutConfig struct {
	Operation     time.Duration `yaml:"operation" env:"OPERATION_TIMEOUT"`
	LongOperation time.Duration `yaml:"long_operation" env:"LONG_OPERATION_TIMEOUT"`
	Shutdown      time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig описывает формат и место логов.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Output string `yaml:"output" env:"LOG_OUTPUT"`
}

// LoadTestConfig хранит параметры нагрузочного тестирования.
type LoadTestConfig struct {
	TargetsPath string `yaml:"targets_path" env:"LOAD_TEST_TARGETS"`
}

// MustLoad загружает конфигурацию из YAML + ENV и паникует при ошибке.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию, отдавая предпочтение пути из CONFIG_PATH.
func Load() (Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg := Config{}
	if err := readYAML(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env vars: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config yaml: %w", err)
	}
	return nil
}

// normalize устанавливает значения по умолчанию для всех полей конфигурации, если они не заданы.
func (c *Config) normalize() {
	// HTTP настройки
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = 5 * time.Second
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.HTTP.IdleTimeout <= 0 {
		c.HTTP.IdleTimeout = 5 * time.Minute
	}

	// Доступ к API хостинга
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = "https://api.github.com"
	}
	if c.GitHub.PerPage <= 0 {
		c.GitHub.PerPage = 20
	}
	if c.GitHub.MaxPages <= 0 {
		c.GitHub.MaxPages = 2
	}
	if c.GitHub.MaxRetries <= 0 {
		c.GitHub.MaxRetries = 3
	}
	if c.GitHub.RetryDelay <= 0 {
		c.GitHub.RetryDelay = time.Second
	}
	if c.GitHub.HTTPTimeout <= 0 {
		c.GitHub.HTTPTimeout = 30 * time.Second
	}

	// Кэш
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 12 * time.Hour
	}
	if c.Cache.ErrorTTL <= 0 {
		c.Cache.ErrorTTL = 5 * time.Minute
	}

	// Параллельная загрузка
	if c.Fetch.MaxConcurrent <= 0 {
		c.Fetch.MaxConcurrent = 8
	}
	if c.Fetch.RequestDelay <= 0 {
		c.Fetch.RequestDelay = 100 * time.Millisecond
	}
	if c.Fetch.WindowDays <= 0 {
		c.Fetch.WindowDays = 30
	}

	// Команды
	if c.Teams.Path == "" {
		c.Teams.Path = "data/teams.json"
	}

	// Таймауты операций
	if c.Timeouts.Operation <= 0 {
		c.Timeouts.Operation = 30 * time.Second
	}
	if c.Timeouts.LongOperation <= 0 {
		c.Timeouts.LongOperation = 120 * time.Second
	}
	if c.Timeouts.Shutdown <= 0 {
		c.Timeouts.Shutdown = 10 * time.Second
	}
	// Логирование
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}
