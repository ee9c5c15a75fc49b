package models

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const tagDelimiter = "|"

// StringSlice stores a list of strings as one delimited column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	for _, v := range s {
		if strings.Contains(v, tagDelimiter) {
			return nil, fmt.Errorf("StringSlice Value: %q contains the %q delimiter", v, tagDelimiter)
		}
	}
	return strings.Join(s, tagDelimiter), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*s = StringSlice{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if raw == "" {
		*s = StringSlice{}
		return nil
	}
	*s = strings.Split(raw, tagDelimiter)
	return nil
}

// Question is the row model of the questions table.
type Question struct {
	ID         string         `db:"id"`
	CourseID   string         `db:"course_id"`
	Subject    string         `db:"subject"`
	Topic      sql.NullString `db:"topic"`
	Difficulty int            `db:"difficulty"`
	Tags       StringSlice    `db:"tags"`
	Content    sql.NullString `db:"content"`
	CreatedAt  time.Time      `db:"created_at"`
	DeletedAt  sql.NullTime   `db:"deleted_at"`
}
