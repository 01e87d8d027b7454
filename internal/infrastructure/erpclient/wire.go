package erpclient

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erp/requisition/internal/domain/requisition"
)

// The upstream is loose about JSON types: ids arrive as numbers or strings,
// flags as booleans, "Y"/"N" or 0/1. These types accept every variant seen.

// flexString decodes a JSON string, number or null into a trimmed string
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
		return nil
	}
	*s = flexString(string(b))
	return nil
}

func (s flexString) String() string {
	return string(s)
}

// flexBool decodes true/false, "Y"/"N", "true"/"false" and 1/0
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	switch strings.ToLower(s.String()) {
	case "true", "y", "yes", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// flexInt decodes an integer sent as a number or a string. Junk decodes to 0.
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*i = 0
		return nil
	}
	if n, err := strconv.Atoi(s.String()); err == nil {
		*i = flexInt(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s.String(), 64); err == nil {
		*i = flexInt(int(f))
		return nil
	}
	*i = 0
	return nil
}

// flexDecimal decodes a number or numeric string. Junk decodes to zero.
type flexDecimal decimal.Decimal

func (d *flexDecimal) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := decimal.NewFromString(s.String())
	if err != nil {
		v = decimal.Zero
	}
	*d = flexDecimal(v)
	return nil
}

func (d flexDecimal) Decimal() decimal.Decimal {
	return decimal.Decimal(d)
}

var timestampLayouts = []string{
	requisition.TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	requisition.DateLayout,
}

// parseTimestamp reads an upstream audit timestamp, or returns the zero time
func parseTimestamp(s flexString) time.Time {
	v := s.String()
	if v == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// parseDate reads the calendar date at the start of an upstream date value
func parseDate(s flexString) time.Time {
	v := s.String()
	if len(v) > len(requisition.DateLayout) {
		v = v[:len(requisition.DateLayout)]
	}
	t, err := time.Parse(requisition.DateLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// decodeRows decodes a data array. A null or empty payload is no rows.
func decodeRows[T any](data json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}
	var rows []T
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
