// ABOUTME: JSON export/import of the full record store
// ABOUTME: Implements the version-1 backup format with upsert-by-id import
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/prm/models"
)

const ExportVersion = 1

type ExportData struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	Data       ExportRecords `json:"data"`
}

type ExportRecords struct {
	Contacts     []models.Contact     `json:"contacts"`
	Interactions []models.Interaction `json:"interactions"`
	Reminders    []models.Reminder    `json:"reminders"`
}

type ImportCounts struct {
	Contacts     int
	Interactions int
	Reminders    int
}

// Export snapshots all three record kinds into the stable backup format.
func Export(db *sql.DB) (*ExportData, error) {
	contacts, err := GetAllContacts(db)
	if err != nil {
		return nil, fmt.Errorf("failed to export contacts: %w", err)
	}
	interactions, err := GetAllInteractions(db)
	if err != nil {
		return nil, fmt.Errorf("failed to export interactions: %w", err)
	}
	reminders, err := GetAllReminders(db)
	if err != nil {
		return nil, fmt.Errorf("failed to export reminders: %w", err)
	}

	if contacts == nil {
		contacts = []models.Contact{}
	}
	if interactions == nil {
		interactions = []models.Interaction{}
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Data: ExportRecords{
			Contacts:     contacts,
			Interactions: interactions,
			Reminders:    reminders,
		},
	}, nil
}

// ExportJSON renders the backup as indented JSON.
func ExportJSON(db *sql.DB) ([]byte, error) {
	data, err := Export(db)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// Import upserts every record by id. Referential integrity between records
// is not validated; orphaned interactions or reminders import as-is.
// Contacts import first so that foreign keys resolve for records that do
// reference an imported contact. On failure the records already written
// stay applied; the returned counts and error say how far the import got.
func Import(db *sql.DB, blob []byte) (*ImportCounts, error) {
	var data ExportData
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("invalid import file: %w", err)
	}
	if data.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %d (expected %d)", data.Version, ExportVersion)
	}

	counts := &ImportCounts{}

	// Import does not validate contact references, but the schema enforces
	// them. Relax enforcement for the duration of the import so orphaned
	// records from older backups still load.
	if _, err := db.Exec(`PRAGMA foreign_keys = OFF`); err != nil {
		return counts, fmt.Errorf("failed to relax foreign keys for import: %w", err)
	}
	defer func() {
		_, _ = db.Exec(`PRAGMA foreign_keys = ON`)
	}()

	for i := range data.Data.Contacts {
		if err := UpsertContact(db, &data.Data.Contacts[i]); err != nil {
			return counts, fmt.Errorf("import stopped after %d contacts (partial import applied): %w",
				counts.Contacts, err)
		}
		counts.Contacts++
	}

	for i := range data.Data.Interactions {
		if err := UpsertInteraction(db, &data.Data.Interactions[i]); err != nil {
			return counts, fmt.Errorf("import stopped after %d interactions (partial import applied): %w",
				counts.Interactions, err)
		}
		counts.Interactions++
	}

	for i := range data.Data.Reminders {
		if err := UpsertReminder(db, &data.Data.Reminders[i]); err != nil {
			return counts, fmt.Errorf("import stopped after %d reminders (partial import applied): %w",
				counts.Reminders, err)
		}
		counts.Reminders++
	}

	return counts, nil
}
