package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/jotajotaz/bcn-flights/internal/filter"
)

// Config is the process-wide configuration, read once from the environment
// at startup and passed down explicitly. Static tables (routes, day pairs)
// live in routes.go.
type Config struct {
	Amadeus  Amadeus
	Telegram Telegram
	Search   Search
	Retry    Retry
	Redis    Redis
	LogDir   string `env:"LOG_DIR" env-default:"logs"`
}

type Amadeus struct {
	APIKey    string `env:"AMADEUS_API_KEY"`
	APISecret string `env:"AMADEUS_API_SECRET"`
	BaseURL   string `env:"AMADEUS_BASE_URL" env-default:"https://test.api.amadeus.com"`
}

type Telegram struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `env:"TELEGRAM_CHAT_ID"`
}

type Search struct {
	MaxArrivalTime       string        `env:"MAX_ARRIVAL_TIME" env-default:"10:00"`
	MinDepartureTime     string        `env:"MIN_DEPARTURE_TIME" env-default:"17:00"`
	RelaxedMarginMinutes int           `env:"RELAXED_MARGIN_MINUTES" env-default:"60"`
	MinPrice             float64       `env:"MIN_PRICE" env-default:"20"`
	MaxPrice             float64       `env:"MAX_PRICE" env-default:"500"`
	MaxResultsPerSearch  int           `env:"MAX_RESULTS_PER_SEARCH" env-default:"10"`
	WeeksAhead           int           `env:"WEEKS_AHEAD" env-default:"2"`
	SingleLegThreshold   float64       `env:"SINGLE_LEG_THRESHOLD" env-default:"45"`
	Workers              int           `env:"SEARCH_WORKERS" env-default:"4"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
	TopOptionsToShow     int           `env:"TOP_OPTIONS_TO_SHOW" env-default:"3"`
}

type Retry struct {
	MaxAttempts int           `env:"MAX_RETRIES" env-default:"3"`
	Delay       time.Duration `env:"RETRY_DELAY" env-default:"5s"`
}

type Redis struct {
	Enabled  bool          `env:"REDIS_ENABLED" env-default:"false"`
	Addr     string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `env:"REDIS_TTL" env-default:"30m"`
}

// Load reads the environment and validates time-window bounds eagerly so a
// bad clock string fails at startup, not mid-search.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if _, err := cfg.Windows(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Windows holds the strict time windows for both legs of a trip.
type Windows struct {
	Outbound filter.Window // arrival-bounded
	Return   filter.Window // departure-bounded
}

func (c *Config) Windows() (Windows, error) {
	maxArrival, err := filter.ParseClockTime(c.Search.MaxArrivalTime)
	if err != nil {
		return Windows{}, fmt.Errorf("MAX_ARRIVAL_TIME: %w", err)
	}
	minDeparture, err := filter.ParseClockTime(c.Search.MinDepartureTime)
	if err != nil {
		return Windows{}, fmt.Errorf("MIN_DEPARTURE_TIME: %w", err)
	}

	return Windows{
		Outbound: filter.Window{MaxArrival: &maxArrival},
		Return:   filter.Window{MinDeparture: &minDeparture},
	}, nil
}
