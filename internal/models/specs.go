package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SpecKind tags the value type of a product specification entry.
type SpecKind int

const (
	SpecString SpecKind = iota
	SpecNumber
	SpecBool
)

// SpecValue is a tagged string/number/bool union. Product specifications
// in the catalog are free-form but never nested.
type SpecValue struct {
	Kind SpecKind
	Str  string
	Num  float64
	Bool bool
}

func StringSpec(s string) SpecValue  { return SpecValue{Kind: SpecString, Str: s} }
func NumberSpec(n float64) SpecValue { return SpecValue{Kind: SpecNumber, Num: n} }
func BoolSpec(b bool) SpecValue      { return SpecValue{Kind: SpecBool, Bool: b} }

// MarshalJSON emits the bare underlying value.
func (v SpecValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case SpecNumber:
		return json.Marshal(v.Num)
	case SpecBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON accepts a string, number or bool token.
func (v *SpecValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = StringSpec(t)
	case float64:
		*v = NumberSpec(t)
	case bool:
		*v = BoolSpec(t)
	default:
		return fmt.Errorf("specification value must be string, number or bool, got %T", raw)
	}
	return nil
}

// SpecEntry is one key/value pair of a product specification.
type SpecEntry struct {
	Key   string
	Value SpecValue
}

// Specifications is an ordered string-to-value mapping. JSON round-trips
// preserve the key order the catalog was written with.
type Specifications []SpecEntry

// Get returns the value for key and whether it was present.
func (s Specifications) Get(key string) (SpecValue, bool) {
	for _, e := range s {
		if e.Key == key {
			return e.Value, true
		}
	}
	return SpecValue{}, false
}

// MarshalJSON renders a JSON object with entries in slice order.
func (s Specifications) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the key order of the document.
func (s *Specifications) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("specifications must be a JSON object")
	}

	out := Specifications{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("specification key must be a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var val SpecValue
		if err := val.UnmarshalJSON(raw); err != nil {
			return err
		}
		out = append(out, SpecEntry{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Value implements driver.Valuer, storing specifications as JSONB.
func (s Specifications) Value() (driver.Value, error) {
	return s.MarshalJSON()
}

// Scan implements sql.Scanner.
func (s *Specifications) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return s.UnmarshalJSON(v)
	case string:
		return s.UnmarshalJSON([]byte(v))
	case nil:
		*s = Specifications{}
		return nil
	default:
		return fmt.Errorf("unsupported specifications type %T", src)
	}
}
