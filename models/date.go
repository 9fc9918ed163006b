package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Date is a metadata timestamp. Date fields set from the dashboard hold a
// bare calendar date, so both RFC 3339 and YYYY-MM-DD are accepted. An empty
// string decodes to the zero time.
type Date struct {
	time.Time
}

// ParseDate reads an RFC 3339 timestamp or a YYYY-MM-DD date (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	return t, nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	return d.set(s)
}

func (d *Date) set(s string) error {
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = Date{Time: t}
	return nil
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.Time)
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		*d = Date{Time: raw.Time().UTC()}
		return nil
	case bsontype.String:
		return d.set(raw.StringValue())
	case bsontype.Null, bsontype.Undefined:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("decode date: unexpected bson type %s", t)
}
