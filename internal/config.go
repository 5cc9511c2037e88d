package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Budget        BudgetConfig        `mapstructure:"budget"`
	Messaging     MessagingConfig     `mapstructure:"messaging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
}

// BudgetConfig seeds the ledger when no approved budget exists yet.
type BudgetConfig struct {
	DefaultTotalAmount string `mapstructure:"default_total_amount"`
	FiscalYear         string `mapstructure:"fiscal_year"`
}

type MessagingConfig struct {
	DefaultCountryCode string `mapstructure:"default_country_code"`
	LinkBaseURL        string `mapstructure:"link_base_url"`
	MaxWorkers         int    `mapstructure:"max_workers"`
	JobQueueSize       int    `mapstructure:"job_queue_size"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a Config from environment variables for container
// deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:           getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: SecurityConfig{
			AccessTokenSecret:    getEnv("ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret:   getEnv("REFRESH_TOKEN_SECRET", ""),
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 10),
		},
		Budget: BudgetConfig{
			DefaultTotalAmount: getEnv("BUDGET_DEFAULT_TOTAL", "100000.00"),
			FiscalYear:         getEnv("BUDGET_FISCAL_YEAR", ""),
		},
		Messaging: MessagingConfig{
			DefaultCountryCode: getEnv("MESSAGING_COUNTRY_CODE", "27"),
			LinkBaseURL:        getEnv("MESSAGING_LINK_BASE_URL", "https://wa.me"),
			MaxWorkers:         getEnvAsInt("MESSAGING_MAX_WORKERS", 4),
			JobQueueSize:       getEnvAsInt("MESSAGING_JOB_QUEUE_SIZE", 64),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Budget.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("budget config: %v", err))
	}

	if err := c.Messaging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("messaging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if c.AccessTokenSecret == "" {
		return errors.New("access_token_secret is required")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("refresh_token_secret is required")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 31 {
		return errors.New("bcrypt_cost must be between 4 and 31")
	}
	return nil
}

func (c *BudgetConfig) Validate() error {
	total, err := c.DefaultTotal()
	if err != nil {
		return fmt.Errorf("invalid default_total_amount: %w", err)
	}
	if total.IsNegative() {
		return errors.New("default_total_amount cannot be negative")
	}
	return nil
}

// DefaultTotal parses the configured amount, falling back to 100000.00 when unset.
func (c *BudgetConfig) DefaultTotal() (decimal.Decimal, error) {
	if c.DefaultTotalAmount == "" {
		return decimal.NewFromInt(100000), nil
	}
	return decimal.NewFromString(c.DefaultTotalAmount)
}

func (c *MessagingConfig) Validate() error {
	if c.DefaultCountryCode != "" {
		for _, r := range c.DefaultCountryCode {
			if r < '0' || r > '9' {
				return errors.New("default_country_code must be digits only")
			}
		}
	}
	if c.LinkBaseURL != "" {
		if _, err := url.Parse(c.LinkBaseURL); err != nil {
			return fmt.Errorf("invalid link_base_url: %w", err)
		}
	}
	return nil
}
