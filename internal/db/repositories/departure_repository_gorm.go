package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"transportsystem/avganger/internal/models/entities"
	"transportsystem/avganger/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// DepartureRepositoryGORM handles departures table operations
type DepartureRepositoryGORM struct {
	db *gormlib.DB
}

// NewDepartureRepositoryGORM creates a new departures repository
func NewDepartureRepositoryGORM(db *gormlib.DB) *DepartureRepositoryGORM {
	return &DepartureRepositoryGORM{db: db}
}

// List returns the stored collection in its written order.
func (r *DepartureRepositoryGORM) List(ctx context.Context) ([]entities.Departure, error) {
	var rows []gorm.Departure

	err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]entities.Departure, 0, len(rows))
	for _, row := range rows {
		d, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, d)
	}
	return records, nil
}

// ReplaceAll deletes every row and inserts the given collection in one transaction.
func (r *DepartureRepositoryGORM) ReplaceAll(ctx context.Context, records []entities.Departure) error {
	rows := make([]gorm.Departure, 0, len(records))
	for i, d := range records {
		row, err := toRow(d, i)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		if err := tx.Where("1 = 1").Delete(&gorm.Departure{}).Error; err != nil {
			return fmt.Errorf("delete departures: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("insert departures: %w", err)
		}
		return nil
	})
}

// Count returns total number of stored departures
func (r *DepartureRepositoryGORM) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Departure{}).Count(&count).Error
	return count, err
}

func toRow(d entities.Departure, position int) (gorm.Departure, error) {
	row := gorm.Departure{
		ID:          d.ID,
		Position:    position,
		UnitNumber:  d.UnitNumber,
		Destination: d.Destination,
		Time:        d.Time,
		Gate:        d.Gate,
		Type:        d.Type,
		Status:      d.Status,
		Comment:     d.Comment,
	}
	if len(d.Extra) > 0 {
		extra, err := json.Marshal(d.Extra)
		if err != nil {
			return row, fmt.Errorf("encode extra fields of departure %d: %w", d.ID, err)
		}
		row.Extra = string(extra)
	}
	return row, nil
}

func fromRow(row gorm.Departure) (entities.Departure, error) {
	d := entities.Departure{
		ID:          row.ID,
		UnitNumber:  row.UnitNumber,
		Destination: row.Destination,
		Time:        row.Time,
		Gate:        row.Gate,
		Type:        row.Type,
		Status:      row.Status,
		Comment:     row.Comment,
	}
	if row.Extra != "" {
		if err := json.Unmarshal([]byte(row.Extra), &d.Extra); err != nil {
			return d, fmt.Errorf("decode extra fields of departure %d: %w", row.ID, err)
		}
	}
	return d, nil
}

// Ping checks the underlying connection.
func (r *DepartureRepositoryGORM) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
