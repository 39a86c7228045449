package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Square scheduling account.
	SquareEnv                string        `mapstructure:"SQUARE_ENV"`
	SquareAccessToken        string        `mapstructure:"SQUARE_ACCESS_TOKEN"`
	SquareLocationID         string        `mapstructure:"SQUARE_LOCATION_ID"`
	SquareTeamMemberID       string        `mapstructure:"SQUARE_TEAM_MEMBER_ID"`
	SquareServiceVariationID string        `mapstructure:"SQUARE_SERVICE_VARIATION_ID"`
	SquareVersion            string        `mapstructure:"SQUARE_VERSION"`
	SchedulerTimeout         time.Duration `mapstructure:"SCHEDULER_TIMEOUT"`

	// Booking behaviour.
	BookingTimezone string `mapstructure:"BOOKING_TIMEZONE"`
	ServiceName     string `mapstructure:"SERVICE_NAME"`

	// Twilio webhook verification. Left empty, signatures are not checked.
	TwilioAuthToken string `mapstructure:"TWILIO_AUTH_TOKEN"`
	PublicBaseURL   string `mapstructure:"PUBLIC_BASE_URL"`
}

// ErrMissingSetting is wrapped by Validate when a required key is empty.
var ErrMissingSetting = errors.New("missing required setting")

// Load reads configuration from a .env file (if present), config.yaml (if
// present) and the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	// AutomaticEnv only resolves keys viper already knows about, so every key
	// without a default has to be bound explicitly.
	for _, key := range []string{
		"SQUARE_ACCESS_TOKEN",
		"SQUARE_LOCATION_ID",
		"SQUARE_TEAM_MEMBER_ID",
		"SQUARE_SERVICE_VARIATION_ID",
		"TWILIO_AUTH_TOKEN",
		"PUBLIC_BASE_URL",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 20)
	v.SetDefault("SQUARE_ENV", "sandbox")
	v.SetDefault("SQUARE_VERSION", "2024-10-17")
	v.SetDefault("SCHEDULER_TIMEOUT", 10*time.Second)
	v.SetDefault("BOOKING_TIMEZONE", "UTC")
	v.SetDefault("SERVICE_NAME", "haircut")
}

// Validate reports the first problem that would stop the booking flow from
// working. It is run at startup so a bad deployment fails fast instead of
// replying to customers with errors.
func (c *Config) Validate() error {
	required := []struct {
		key, value string
	}{
		{"SQUARE_ACCESS_TOKEN", c.SquareAccessToken},
		{"SQUARE_LOCATION_ID", c.SquareLocationID},
		{"SQUARE_TEAM_MEMBER_ID", c.SquareTeamMemberID},
		{"SQUARE_SERVICE_VARIATION_ID", c.SquareServiceVariationID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, r.key)
		}
	}

	switch c.SquareEnv {
	case "sandbox", "production":
	default:
		return fmt.Errorf("invalid SQUARE_ENV %q: want sandbox or production", c.SquareEnv)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", c.BookingTimezone, err)
	}
	if c.SchedulerTimeout <= 0 {
		return fmt.Errorf("invalid SCHEDULER_TIMEOUT %s: must be positive", c.SchedulerTimeout)
	}
	if c.TwilioAuthToken != "" && c.PublicBaseURL == "" {
		return fmt.Errorf("%w: PUBLIC_BASE_URL is needed to verify Twilio signatures", ErrMissingSetting)
	}
	return nil
}

// Location returns the timezone appointment times are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	if c.BookingTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.BookingTimezone)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
