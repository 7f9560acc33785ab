package gorm

import "time"

// Departure is one row of the departures table. Position keeps the order of
// the collection as it was written.
type Departure struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Position    int       `gorm:"column:position;not null;index"`
	UnitNumber  string    `gorm:"column:unit_number;type:text;not null"`
	Destination string    `gorm:"column:destination;type:text;not null"`
	Time        string    `gorm:"column:time;type:text"`
	Gate        string    `gorm:"column:gate;type:text"`
	Type        string    `gorm:"column:type;type:text"`
	Status      string    `gorm:"column:status;type:text"`
	Comment     *string   `gorm:"column:comment;type:text"`
	Extra       string    `gorm:"column:extra;type:text"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Departure) TableName() string {
	return "departures"
}

// DepartureWrite is a write journal row. Rows are inserted and read through sqlx.
type DepartureWrite struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Backend     string    `gorm:"column:backend;type:varchar(16);not null"`
	RecordCount int       `gorm:"column:record_count;not null"`
	WrittenAt   time.Time `gorm:"column:written_at;not null;index"`
}

// TableName specifies the table name for GORM
func (DepartureWrite) TableName() string {
	return "departure_writes"
}
