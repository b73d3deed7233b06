// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD, lookups by category/relationship, and search
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/prm/models"
)

func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	contact.Reminders.Normalize()

	phones, emails, addresses, err := marshalContactLists(contact)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO contacts (id, name, nickname, relationship, category, phones, emails, addresses,
			birthday, anniversary, reminder_enabled, reminder_interval_days, reminder_preferred_time,
			notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.Name, contact.Nickname, contact.Relationship, contact.Category,
		phones, emails, addresses, contact.Birthday, contact.Anniversary,
		contact.Reminders.Enabled, contact.Reminders.IntervalDays, contact.Reminders.PreferredTime,
		contact.Notes, contact.CreatedAt, contact.UpdatedAt)

	return err
}

// UpsertContact writes a contact preserving its existing id and timestamps.
// Used by the import path, which must not regenerate ids.
func UpsertContact(db *sql.DB, contact *models.Contact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	contact.Reminders.Normalize()

	phones, emails, addresses, err := marshalContactLists(contact)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO contacts (id, name, nickname, relationship, category, phones, emails, addresses,
			birthday, anniversary, reminder_enabled, reminder_interval_days, reminder_preferred_time,
			notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			nickname = excluded.nickname,
			relationship = excluded.relationship,
			category = excluded.category,
			phones = excluded.phones,
			emails = excluded.emails,
			addresses = excluded.addresses,
			birthday = excluded.birthday,
			anniversary = excluded.anniversary,
			reminder_enabled = excluded.reminder_enabled,
			reminder_interval_days = excluded.reminder_interval_days,
			reminder_preferred_time = excluded.reminder_preferred_time,
			notes = excluded.notes,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, contact.ID.String(), contact.Name, contact.Nickname, contact.Relationship, contact.Category,
		phones, emails, addresses, contact.Birthday, contact.Anniversary,
		contact.Reminders.Enabled, contact.Reminders.IntervalDays, contact.Reminders.PreferredTime,
		contact.Notes, contact.CreatedAt, contact.UpdatedAt)

	return err
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	row := db.QueryRow(contactSelect+` WHERE id = ?`, id.String())

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func GetAllContacts(db *sql.DB) ([]models.Contact, error) {
	return queryContacts(db, contactSelect+` ORDER BY name`)
}

func GetContactsByCategory(db *sql.DB, category string) ([]models.Contact, error) {
	return queryContacts(db, contactSelect+` WHERE category = ? ORDER BY name`, category)
}

func GetContactsByRelationship(db *sql.DB, relationship string) ([]models.Contact, error) {
	return queryContacts(db, contactSelect+` WHERE relationship = ? ORDER BY name`, relationship)
}

// SearchContacts matches name, nickname, or category case-insensitively.
func SearchContacts(db *sql.DB, query string) ([]models.Contact, error) {
	pattern := "%" + query + "%"
	return queryContacts(db,
		contactSelect+` WHERE name LIKE ? OR nickname LIKE ? OR category LIKE ? ORDER BY name`,
		pattern, pattern, pattern)
}

// UpdateContact overwrites the stored contact with the given record.
// Returns false when no contact with that id exists.
func UpdateContact(db *sql.DB, contact *models.Contact) (bool, error) {
	contact.UpdatedAt = time.Now()
	contact.Reminders.Normalize()

	phones, emails, addresses, err := marshalContactLists(contact)
	if err != nil {
		return false, err
	}

	result, err := db.Exec(`
		UPDATE contacts SET name = ?, nickname = ?, relationship = ?, category = ?,
			phones = ?, emails = ?, addresses = ?, birthday = ?, anniversary = ?,
			reminder_enabled = ?, reminder_interval_days = ?, reminder_preferred_time = ?,
			notes = ?, updated_at = ?
		WHERE id = ?
	`, contact.Name, contact.Nickname, contact.Relationship, contact.Category,
		phones, emails, addresses, contact.Birthday, contact.Anniversary,
		contact.Reminders.Enabled, contact.Reminders.IntervalDays, contact.Reminders.PreferredTime,
		contact.Notes, contact.UpdatedAt, contact.ID.String())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// DeleteContact removes the contact. Interactions and reminders referencing it
// are removed by the schema's ON DELETE CASCADE, so no orphans survive.
func DeleteContact(db *sql.DB, id uuid.UUID) (bool, error) {
	result, err := db.Exec(`DELETE FROM contacts WHERE id = ?`, id.String())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

const contactSelect = `
	SELECT id, name, nickname, relationship, category, phones, emails, addresses,
		birthday, anniversary, reminder_enabled, reminder_interval_days, reminder_preferred_time,
		notes, created_at, updated_at
	FROM contacts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	contact := &models.Contact{}
	var idStr string
	var nickname, relationship, category, birthday, anniversary, preferredTime, notes sql.NullString
	var phonesJSON, emailsJSON, addressesJSON string

	err := row.Scan(
		&idStr,
		&contact.Name,
		&nickname,
		&relationship,
		&category,
		&phonesJSON,
		&emailsJSON,
		&addressesJSON,
		&birthday,
		&anniversary,
		&contact.Reminders.Enabled,
		&contact.Reminders.IntervalDays,
		&preferredTime,
		&notes,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	contact.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}

	contact.Nickname = nickname.String
	contact.Relationship = relationship.String
	contact.Category = category.String
	contact.Birthday = birthday.String
	contact.Anniversary = anniversary.String
	contact.Reminders.PreferredTime = preferredTime.String
	contact.Notes = notes.String

	if err := json.Unmarshal([]byte(phonesJSON), &contact.Phones); err != nil {
		return nil, fmt.Errorf("failed to decode phones: %w", err)
	}
	if err := json.Unmarshal([]byte(emailsJSON), &contact.Emails); err != nil {
		return nil, fmt.Errorf("failed to decode emails: %w", err)
	}
	if err := json.Unmarshal([]byte(addressesJSON), &contact.Addresses); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}

	return contact, nil
}

func queryContacts(db *sql.DB, query string, args ...any) ([]models.Contact, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var contacts []models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}

	return contacts, rows.Err()
}

func marshalContactLists(contact *models.Contact) (phones, emails, addresses string, err error) {
	p, err := json.Marshal(orEmptyPhones(contact.Phones))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode phones: %w", err)
	}
	e, err := json.Marshal(orEmptyStrings(contact.Emails))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode emails: %w", err)
	}
	a, err := json.Marshal(orEmptyAddresses(contact.Addresses))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode addresses: %w", err)
	}
	return string(p), string(e), string(a), nil
}

// JSON columns store [] rather than null for empty lists.
func orEmptyPhones(v []models.PhoneNumber) []models.PhoneNumber {
	if v == nil {
		return []models.PhoneNumber{}
	}
	return v
}

func orEmptyStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func orEmptyAddresses(v []models.Address) []models.Address {
	if v == nil {
		return []models.Address{}
	}
	return v
}
