package util

import (
	"database/sql"
	"time"
)

// Oracle stores '' as NULL, so optional text columns are written as NULL
// when empty and read back as "".

func StringToNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func NullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// TimeToNullTime maps the zero time to NULL.
func TimeToNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
