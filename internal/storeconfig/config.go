// Package storeconfig persists the per-store booking configuration: weekly
// slots, timezone, booking horizon and page customization.
package storeconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/booksite-platform/internal/availability"
	"github.com/wolfman30/booksite-platform/internal/customization"
)

var (
	// ErrInvalidTimezone is returned when a store names an unknown IANA zone.
	ErrInvalidTimezone = errors.New("storeconfig: unknown timezone")
	// ErrInvalidContactEmail is returned for a malformed store contact address.
	ErrInvalidContactEmail = errors.New("storeconfig: invalid contact email")
)

// Config is the booking configuration of one store.
type Config struct {
	StoreID            string                           `json:"store_id"`
	Name               string                           `json:"name"`
	ContactEmail       string                           `json:"contact_email,omitempty"`
	Timezone           string                           `json:"timezone"` // e.g., "America/New_York"
	WeeklySlots        availability.WeeklySlotMap       `json:"weekly_slots"`
	BookingHorizonDays int                              `json:"booking_horizon_days"`
	Customization      customization.StoreCustomization `json:"customization"`
	UpdatedAt          time.Time                        `json:"updated_at,omitempty"`
}

// DefaultConfig returns the configuration of a store that has not been set
// up yet: no slots on any weekday.
func DefaultConfig(storeID, timezone string) *Config {
	if timezone == "" {
		timezone = "UTC"
	}
	return &Config{
		StoreID:            storeID,
		Timezone:           timezone,
		WeeklySlots:        availability.NewWeeklySlotMap(),
		BookingHorizonDays: availability.DefaultHorizonDays,
		Customization:      customization.Default(),
	}
}

// Location loads the store's zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Timezone)
	}
	return loc, nil
}

// HorizonDays returns the configured horizon or the default.
func (c *Config) HorizonDays() int {
	if c.BookingHorizonDays <= 0 {
		return availability.DefaultHorizonDays
	}
	return c.BookingHorizonDays
}

// Validate checks the zone, the contact address, the slot map and the
// customization colors.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.ContactEmail != "" {
		if _, err := mail.ParseAddress(c.ContactEmail); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidContactEmail, c.ContactEmail)
		}
	}
	if err := c.WeeklySlots.Validate(); err != nil {
		return err
	}
	return c.Customization.Validate()
}

// Provider resolves a store's configuration.
type Provider interface {
	Get(ctx context.Context, storeID string) (*Config, error)
}

// Store provides persistence for store configurations.
type Store struct {
	redis           *redis.Client
	defaultTimezone string
	defaultHorizon  int
}

// NewStore creates a store config store. defaultTimezone is used for stores
// that have never been configured.
func NewStore(redisClient *redis.Client, defaultTimezone string) *Store {
	return &Store{redis: redisClient, defaultTimezone: defaultTimezone}
}

// WithDefaultHorizon sets the booking horizon given to unconfigured stores.
func (s *Store) WithDefaultHorizon(days int) *Store {
	s.defaultHorizon = days
	return s
}

func (s *Store) key(storeID string) string {
	return fmt.Sprintf("store:config:%s", storeID)
}

// Get retrieves the store config, returning the default if not found.
func (s *Store) Get(ctx context.Context, storeID string) (*Config, error) {
	data, err := s.redis.Get(ctx, s.key(storeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		cfg := DefaultConfig(storeID, s.defaultTimezone)
		if s.defaultHorizon > 0 {
			cfg.BookingHorizonDays = s.defaultHorizon
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storeconfig: get config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("storeconfig: unmarshal config: %w", err)
	}
	cfg.WeeklySlots = cfg.WeeklySlots.Normalize()
	if cfg.Timezone == "" {
		cfg.Timezone = s.defaultTimezone
	}
	return &cfg, nil
}

// Set validates and saves a store config. The slot map is normalized first
// so every weekday key is present and stray keys are dropped.
func (s *Store) Set(ctx context.Context, cfg *Config) error {
	cfg.WeeklySlots = cfg.WeeklySlots.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("storeconfig: marshal config: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(cfg.StoreID), data, 0).Err(); err != nil {
		return fmt.Errorf("storeconfig: set config: %w", err)
	}
	return nil
}

// StaticProvider serves fixed configurations, for development and tests.
type StaticProvider map[string]*Config

func (p StaticProvider) Get(_ context.Context, storeID string) (*Config, error) {
	if cfg, ok := p[storeID]; ok {
		return cfg, nil
	}
	return DefaultConfig(storeID, ""), nil
}
