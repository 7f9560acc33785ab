package entities

import "time"

// WriteJournalEntry records one full-collection write made through the SQL store.
type WriteJournalEntry struct {
	ID          int64     `db:"id" json:"id"`
	Backend     string    `db:"backend" json:"backend"`
	RecordCount int       `db:"record_count" json:"record_count"`
	WrittenAt   time.Time `db:"written_at" json:"written_at"`
}
