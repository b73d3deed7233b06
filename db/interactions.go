// ABOUTME: Interaction log database operations
// ABOUTME: Handles logging, history queries, and days-since-contact derivation
package db

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/models"
)

func LogInteraction(db *sql.DB, interaction *models.Interaction) error {
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = time.Now()
	}
	if interaction.Source == "" {
		interaction.Source = models.SourceManual
	}

	_, err := db.Exec(`
		INSERT INTO interactions (id, contact_id, type, direction, timestamp, duration, notes, sentiment, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, interaction.ID.String(), interaction.ContactID.String(), interaction.Type, interaction.Direction,
		interaction.Timestamp, interaction.Duration, interaction.Notes,
		nullIfEmpty(interaction.Sentiment), interaction.Source)

	return err
}

// UpsertInteraction writes an interaction preserving its id, for the import path.
func UpsertInteraction(db *sql.DB, interaction *models.Interaction) error {
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	if interaction.Source == "" {
		interaction.Source = models.SourceManual
	}

	_, err := db.Exec(`
		INSERT INTO interactions (id, contact_id, type, direction, timestamp, duration, notes, sentiment, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			contact_id = excluded.contact_id,
			type = excluded.type,
			direction = excluded.direction,
			timestamp = excluded.timestamp,
			duration = excluded.duration,
			notes = excluded.notes,
			sentiment = excluded.sentiment,
			source = excluded.source
	`, interaction.ID.String(), interaction.ContactID.String(), interaction.Type, interaction.Direction,
		interaction.Timestamp, interaction.Duration, interaction.Notes,
		nullIfEmpty(interaction.Sentiment), interaction.Source)

	return err
}

func GetInteraction(db *sql.DB, id uuid.UUID) (*models.Interaction, error) {
	row := db.QueryRow(interactionSelect+` WHERE id = ?`, id.String())

	interaction, err := scanInteraction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return interaction, nil
}

func GetAllInteractions(db *sql.DB) ([]models.Interaction, error) {
	return queryInteractions(db, interactionSelect+` ORDER BY timestamp DESC, id DESC`)
}

func GetInteractionsByContact(db *sql.DB, contactID uuid.UUID) ([]models.Interaction, error) {
	return queryInteractions(db,
		interactionSelect+` WHERE contact_id = ? ORDER BY timestamp DESC, id DESC`,
		contactID.String())
}

func GetInteractionsByType(db *sql.DB, interactionType string) ([]models.Interaction, error) {
	return queryInteractions(db,
		interactionSelect+` WHERE type = ? ORDER BY timestamp DESC, id DESC`,
		interactionType)
}

// GetLastInteraction returns the most recent interaction for a contact, or nil
// when none has been logged. Equal timestamps tie-break on id so the result
// is deterministic.
func GetLastInteraction(db *sql.DB, contactID uuid.UUID) (*models.Interaction, error) {
	row := db.QueryRow(
		interactionSelect+` WHERE contact_id = ? ORDER BY timestamp DESC, id DESC LIMIT 1`,
		contactID.String())

	interaction, err := scanInteraction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return interaction, nil
}

// DaysSinceLastInteraction returns the ceiling of elapsed whole days since
// the contact was last touched, or nil when no interaction exists. Ceiling
// keeps the overdue check conservative: just over N days counts as N+1.
func DaysSinceLastInteraction(db *sql.DB, contactID uuid.UUID, now time.Time) (*int, error) {
	last, err := GetLastInteraction(db, contactID)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, nil
	}

	days := int(math.Ceil(now.Sub(last.Timestamp).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return &days, nil
}

// UpdateInteraction overwrites the stored interaction.
// Returns false when no interaction with that id exists.
func UpdateInteraction(db *sql.DB, interaction *models.Interaction) (bool, error) {
	result, err := db.Exec(`
		UPDATE interactions SET contact_id = ?, type = ?, direction = ?, timestamp = ?,
			duration = ?, notes = ?, sentiment = ?, source = ?
		WHERE id = ?
	`, interaction.ContactID.String(), interaction.Type, interaction.Direction, interaction.Timestamp,
		interaction.Duration, interaction.Notes, nullIfEmpty(interaction.Sentiment), interaction.Source,
		interaction.ID.String())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func DeleteInteraction(db *sql.DB, id uuid.UUID) (bool, error) {
	result, err := db.Exec(`DELETE FROM interactions WHERE id = ?`, id.String())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

const interactionSelect = `
	SELECT id, contact_id, type, direction, timestamp, duration, notes, sentiment, source
	FROM interactions`

func scanInteraction(row rowScanner) (*models.Interaction, error) {
	interaction := &models.Interaction{}
	var idStr, contactIDStr string
	var duration sql.NullInt64
	var notes, sentiment sql.NullString

	err := row.Scan(
		&idStr,
		&contactIDStr,
		&interaction.Type,
		&interaction.Direction,
		&interaction.Timestamp,
		&duration,
		&notes,
		&sentiment,
		&interaction.Source,
	)
	if err != nil {
		return nil, err
	}

	interaction.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse interaction ID: %w", err)
	}
	interaction.ContactID, err = uuid.Parse(contactIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}

	interaction.Duration = int(duration.Int64)
	interaction.Notes = notes.String
	interaction.Sentiment = sentiment.String

	return interaction, nil
}

func queryInteractions(db *sql.DB, query string, args ...any) ([]models.Interaction, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var interactions []models.Interaction
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, *interaction)
	}

	return interactions, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
