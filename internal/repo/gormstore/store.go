// Пакет gormstore — LocalStore на gorm (SQLite для одиночной установки, MySQL).
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
)

var _ ports.LocalStore = (*Store)(nil)

// Open — подключение по имени драйвера ("sqlite" | "mysql").
// SQLite пишет из одного соединения.
func Open(driver, dsn string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Store — реализация LocalStore поверх *gorm.DB.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Migrate — создать/обновить схему.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&tableModel{}, &reservationModel{})
}

func (s *Store) GetTableStates(ctx context.Context, restaurantID string) ([]domain.TableRecord, error) {
	var models []tableModel
	if err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("select tables: %w", err)
	}
	out := make([]domain.TableRecord, 0, len(models))
	for _, m := range models {
		t, err := m.toDomain()
		if err != nil {
			return nil, fmt.Errorf("table %s client_data: %w", m.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) UpsertTable(ctx context.Context, t domain.TableRecord) error {
	if t.RestaurantID == "" || t.ID == "" {
		return errors.New("restaurant_id and table id are required")
	}
	m, err := fromTable(t)
	if err != nil {
		return fmt.Errorf("client_data: %w", err)
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&m).Error; err != nil {
		return fmt.Errorf("upsert table: %w", err)
	}
	return nil
}

func (s *Store) GetReservations(ctx context.Context, restaurantID, date string) ([]domain.ReservationRecord, error) {
	q := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if date != "" {
		q = q.Where("reservation_date = ?", date)
	}
	var models []reservationModel
	if err := q.Order("reservation_date, reservation_time, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("select reservations: %w", err)
	}
	out := make([]domain.ReservationRecord, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

// UpsertReservation — created_at при обновлении не меняется.
func (s *Store) UpsertReservation(ctx context.Context, r domain.ReservationRecord) error {
	if r.RestaurantID == "" || r.ID == "" {
		return errors.New("restaurant_id and reservation id are required")
	}
	m := fromReservation(r)
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "restaurant_id"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"reservation_date", "reservation_time", "party_size", "customer_name",
				"phone", "zone", "table_id", "status", "updated_at",
			}),
		}).
		Create(&m).Error; err != nil {
		return fmt.Errorf("upsert reservation: %w", err)
	}
	return nil
}

func (s *Store) ReleaseTable(
	ctx context.Context,
	restaurantID, tableID string,
	from domain.TableStatus,
	at time.Time,
) (ports.ReleaseOutcome, error) {
	var out ports.ReleaseOutcome

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&tableModel{}).
			Where("restaurant_id = ? AND id = ? AND status = ?", restaurantID, tableID, string(from)).
			Updates(map[string]any{
				"status":         string(domain.TableFree),
				"occupied_since": nil,
				"reserved_until": nil,
				"client_data":    "",
				"updated_at":     at,
			})
		if res.Error != nil {
			return fmt.Errorf("release table: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var m tableModel
		if err := tx.Where("restaurant_id = ? AND id = ?", restaurantID, tableID).Take(&m).Error; err != nil {
			return fmt.Errorf("reload table: %w", err)
		}
		table, err := m.toDomain()
		if err != nil {
			return err
		}

		seated := tx.Model(&reservationModel{}).
			Where("restaurant_id = ? AND table_id = ? AND status = ?", restaurantID, tableID, string(domain.ReservationOccupied))
		var reservations []reservationModel
		if err := seated.Session(&gorm.Session{}).Find(&reservations).Error; err != nil {
			return fmt.Errorf("select seated: %w", err)
		}
		if len(reservations) > 0 {
			if err := seated.Session(&gorm.Session{}).Updates(map[string]any{
				"status":     string(domain.ReservationCompleted),
				"updated_at": at,
			}).Error; err != nil {
				return fmt.Errorf("complete reservations: %w", err)
			}
		}

		out.Released = true
		out.Table = table
		for _, r := range reservations {
			rec := r.toDomain()
			rec.Status = domain.ReservationCompleted
			rec.UpdatedAt = at
			out.Completed = append(out.Completed, rec)
		}
		return nil
	})
	if err != nil {
		return ports.ReleaseOutcome{}, err
	}
	return out, nil
}
