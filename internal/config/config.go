package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"helmsman/internal/rules"
)

type Config struct {
	Server struct {
		Port   int    `yaml:"port"`
		APIKey string `yaml:"api_key"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Telegram struct {
		BotToken string  `yaml:"bot_token"`
		ChatIDs  []int64 `yaml:"chat_ids"`
	} `yaml:"telegram"`

	Booking struct {
		MinBookingHours       float64            `yaml:"min_booking_hours"`
		MinHoursByYacht       map[string]float64 `yaml:"min_hours_by_yacht"`
		MaxBookingDays        int                `yaml:"max_booking_days"`
		MinAdvanceNoticeHours float64            `yaml:"min_advance_notice_hours"`
		MaxAdvanceBookingDays int                `yaml:"max_advance_booking_days"`
		MinDepositPercent     float64            `yaml:"min_deposit_percent"`
		MaxDepositPercent     float64            `yaml:"max_deposit_percent"`
		MinTotalValue         float64            `yaml:"min_total_value"`
		DefaultMaxGuests      int                `yaml:"default_max_guests"`
		Blackouts             []BlackoutConfig   `yaml:"blackout_periods"`
	} `yaml:"booking"`
}

// BlackoutConfig is a blackout period as written in YAML, dates as
// YYYY-MM-DD.
type BlackoutConfig struct {
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Reason string `yaml:"reason"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/helmsman.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// BookingRules materialises the policy section, falling back to the stock
// defaults for anything left unset.
func (c *Config) BookingRules() (rules.Rules, error) {
	r := rules.Default()

	if c.Booking.MinBookingHours > 0 {
		r.MinBookingHours = c.Booking.MinBookingHours
	}
	if len(c.Booking.MinHoursByYacht) > 0 {
		r.MinHoursByYacht = c.Booking.MinHoursByYacht
	}
	if c.Booking.MaxBookingDays > 0 {
		r.MaxBookingDays = c.Booking.MaxBookingDays
	}
	if c.Booking.MinAdvanceNoticeHours > 0 {
		r.MinAdvanceNoticeHours = c.Booking.MinAdvanceNoticeHours
	}
	if c.Booking.MaxAdvanceBookingDays > 0 {
		r.MaxAdvanceBookingDays = c.Booking.MaxAdvanceBookingDays
	}
	if c.Booking.MinDepositPercent > 0 {
		r.MinDepositPercent = c.Booking.MinDepositPercent
	}
	if c.Booking.MaxDepositPercent > 0 {
		r.MaxDepositPercent = c.Booking.MaxDepositPercent
	}
	if c.Booking.MinTotalValue > 0 {
		r.MinTotalValue = c.Booking.MinTotalValue
	}
	if c.Booking.DefaultMaxGuests > 0 {
		r.DefaultMaxGuests = c.Booking.DefaultMaxGuests
	}

	for _, b := range c.Booking.Blackouts {
		start, err := time.Parse("2006-01-02", b.Start)
		if err != nil {
			return rules.Rules{}, fmt.Errorf("blackout %q: invalid start date %q", b.Reason, b.Start)
		}
		end, err := time.Parse("2006-01-02", b.End)
		if err != nil {
			return rules.Rules{}, fmt.Errorf("blackout %q: invalid end date %q", b.Reason, b.End)
		}
		// The configured end day is inclusive; store as half-open.
		r.Blackouts = append(r.Blackouts, rules.Blackout{
			Start:  start,
			End:    end.AddDate(0, 0, 1),
			Reason: b.Reason,
		})
	}

	return r, nil
}

func (c *Config) RedisCacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}
