package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AnswersJSON maps question_id to a normalized answer value and is stored in
// a JSONB column. The type handles marshalling in both directions so
// repositories can bind submission rows with named queries.
type AnswersJSON map[string]interface{}

// Value implements the driver.Valuer interface.
func (a AnswersJSON) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface.
func (a *AnswersJSON) Scan(value interface{}) error {
	if value == nil {
		*a = AnswersJSON{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("AnswersJSON Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*a = AnswersJSON{}
		return nil
	}
	return json.Unmarshal(bytesToParse, a)
}

// Project is one row of the projects table.
type Project struct {
	ID         string    `db:"id"`
	Acronym    string    `db:"acronym"`
	Title      string    `db:"title"`
	Workstream int       `db:"workstream"`
	OwnerID    string    `db:"owner_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// Submission is one row of a tracking_wsN table.
type Submission struct {
	ID          string         `db:"id"`
	ProjectID   string         `db:"project_id"`
	Workstream  string         `db:"workstream"`
	FormTitle   sql.NullString `db:"form_title"`
	Answers     AnswersJSON    `db:"answers"`
	UserID      sql.NullString `db:"user_id"`
	SubmittedAt time.Time      `db:"submitted_at"`
}

// User is one row of the users table. Provider tokens are stored encrypted.
type User struct {
	ID                    string         `db:"id"`
	Email                 string         `db:"email"`
	Name                  sql.NullString `db:"name"`
	PasswordHash          sql.NullString `db:"password_hash"`
	GoogleID              sql.NullString `db:"google_id"`
	ProfilePictureURL     sql.NullString `db:"profile_picture_url"`
	IsAdmin               bool           `db:"is_admin"`
	EncryptedAccessToken  sql.NullString `db:"encrypted_access_token"`
	EncryptedRefreshToken sql.NullString `db:"encrypted_refresh_token"`
	TokenExpiresAt        sql.NullTime   `db:"token_expires_at"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
	DeletedAt             sql.NullTime   `db:"deleted_at"`
}
