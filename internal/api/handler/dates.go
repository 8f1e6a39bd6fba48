package handler

import (
	"time"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// parseDate accepts the formats the front-end sends. Empty input yields
// the zero time.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError(field + " must be a date (YYYY-MM-DD or RFC 3339)")
}

// parseOptionalDate is parseDate for fields that stay unset when empty.
func parseOptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
