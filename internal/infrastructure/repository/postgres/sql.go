package postgres

import (
	"database/sql"
	"errors"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func nullInt64ToInt64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

// encodeJSON renders value as a JSONB literal. Nil slices become empty arrays.
func encodeJSON(value any, empty string) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	if string(raw) == "null" {
		return empty, nil
	}
	return string(raw), nil
}

func decodeJSON(raw string, target any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	return json.UnmarshalFromString(raw, target)
}
