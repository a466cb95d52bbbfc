package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Date is a calendar timestamp that accepts "2006-01-02" as well as RFC 3339 on
// input. It is stored as a BSON datetime so range queries work server-side.
type Date struct {
	time.Time
}

// NewDate returns t truncated to milliseconds (the BSON datetime resolution) in UTC.
func NewDate(t time.Time) Date {
	return Date{t.UTC().Truncate(time.Millisecond)}
}

// ParseDate parses "2006-01-02" or RFC 3339.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return NewDate(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return NewDate(t), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(time.RFC3339Nano))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.UTC())
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var tt time.Time
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&tt); err != nil {
		return err
	}
	*d = NewDate(tt)
	return nil
}
