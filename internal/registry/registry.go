// Пакет registry — список отслеживаемых ресторанов и их настройки (YAML через viper).
package registry

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
)

var _ ports.RestaurantRegistry = (*Registry)(nil)

// ErrInvalidRegistry — файл реестра не прошёл проверку.
var ErrInvalidRegistry = errors.New("invalid restaurant registry")

type restaurantConfig struct {
	ID               string        `mapstructure:"id"`
	SpreadsheetID    string        `mapstructure:"spreadsheet_id"`
	Timezone         string        `mapstructure:"timezone"`
	OccupationWindow time.Duration `mapstructure:"occupation_window"`
	ReservationHold  time.Duration `mapstructure:"reservation_hold"`
	MinSyncInterval  time.Duration `mapstructure:"min_sync_interval"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

type fileConfig struct {
	Defaults    restaurantConfig   `mapstructure:"defaults"`
	Restaurants []restaurantConfig `mapstructure:"restaurants"`
}

// Registry — неизменяемый после загрузки реестр ресторанов.
type Registry struct {
	byID map[string]domain.RestaurantSettings
	ids  []string
}

// Load — прочитать реестр из файла (yaml/json/toml по расширению).
func Load(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	return decode(v)
}

// Read — прочитать реестр из потока в формате format ("yaml", "json", ...).
func Read(r io.Reader, format string) (*Registry, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return decode(v)
}

// New — реестр из готовых настроек (CLI, тесты).
func New(settings ...domain.RestaurantSettings) (*Registry, error) {
	reg := &Registry{byID: make(map[string]domain.RestaurantSettings, len(settings))}
	for _, s := range settings {
		if err := reg.add(s); err != nil {
			return nil, err
		}
	}
	sort.Strings(reg.ids)
	return reg, nil
}

func decode(v *viper.Viper) (*Registry, error) {
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	if len(fc.Restaurants) == 0 {
		return nil, fmt.Errorf("%w: no restaurants", ErrInvalidRegistry)
	}

	settings := make([]domain.RestaurantSettings, 0, len(fc.Restaurants))
	for _, rc := range fc.Restaurants {
		s, err := rc.withDefaults(fc.Defaults).settings()
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return New(settings...)
}

func (rc restaurantConfig) withDefaults(d restaurantConfig) restaurantConfig {
	if rc.Timezone == "" {
		rc.Timezone = d.Timezone
	}
	if rc.OccupationWindow == 0 {
		rc.OccupationWindow = d.OccupationWindow
	}
	if rc.ReservationHold == 0 {
		rc.ReservationHold = d.ReservationHold
	}
	if rc.MinSyncInterval == 0 {
		rc.MinSyncInterval = d.MinSyncInterval
	}
	if rc.CacheTTL == 0 {
		rc.CacheTTL = d.CacheTTL
	}
	return rc
}

func (rc restaurantConfig) settings() (domain.RestaurantSettings, error) {
	loc := time.UTC
	if rc.Timezone != "" {
		l, err := time.LoadLocation(rc.Timezone)
		if err != nil {
			return domain.RestaurantSettings{}, fmt.Errorf("%w: restaurant %s: timezone %q: %v",
				ErrInvalidRegistry, rc.ID, rc.Timezone, err)
		}
		loc = l
	}
	return domain.RestaurantSettings{
		ID:               strings.TrimSpace(rc.ID),
		SpreadsheetID:    strings.TrimSpace(rc.SpreadsheetID),
		Location:         loc,
		OccupationWindow: rc.OccupationWindow,
		ReservationHold:  rc.ReservationHold,
		MinSyncInterval:  rc.MinSyncInterval,
		CacheTTL:         rc.CacheTTL,
	}, nil
}

func (r *Registry) add(s domain.RestaurantSettings) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("%w: restaurant without id", ErrInvalidRegistry)
	case s.SpreadsheetID == "":
		return fmt.Errorf("%w: restaurant %s: spreadsheet_id is required", ErrInvalidRegistry, s.ID)
	}
	if _, dup := r.byID[s.ID]; dup {
		return fmt.Errorf("%w: duplicate restaurant %s", ErrInvalidRegistry, s.ID)
	}
	r.byID[s.ID] = s.WithDefaults()
	r.ids = append(r.ids, s.ID)
	return nil
}

// Settings — настройки ресторана с подставленными значениями по умолчанию.
func (r *Registry) Settings(restaurantID string) (domain.RestaurantSettings, bool) {
	s, ok := r.byID[restaurantID]
	return s, ok
}

// IDs — отсортированные id ресторанов.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}
