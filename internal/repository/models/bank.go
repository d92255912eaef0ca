package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-forge/internal/domain"
)

// QuestionList is stored as a JSON array in a CLOB column
type QuestionList []*domain.Question

// Value implements the driver.Valuer interface
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (q *QuestionList) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("QuestionList Scan: %w", err)
	}
	if data == nil {
		*q = QuestionList{}
		return nil
	}
	return json.Unmarshal(data, q)
}

// StringMap is stored as a JSON object in a CLOB column
type StringMap map[string]string

// Value implements the driver.Valuer interface
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (m *StringMap) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("StringMap Scan: %w", err)
	}
	if data == nil {
		*m = StringMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// jsonBytes returns nil for NULL, empty and "null" values
func jsonBytes(value interface{}) ([]byte, error) {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, errors.New("unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return data, nil
}

// QuestionBank maps the question_banks table
type QuestionBank struct {
	ID            string       `db:"id"`
	OwnerID       string       `db:"owner_id"`
	Title         string       `db:"title"`
	Questions     QuestionList `db:"questions"`
	Metadata      StringMap    `db:"metadata"`
	QuestionCount int          `db:"question_count"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
	DeletedAt     sql.NullTime `db:"deleted_at"`
}

// QuestionBankSummary is the listing projection of question_banks
type QuestionBankSummary struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	QuestionCount int       `db:"question_count"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
