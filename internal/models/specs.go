package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SpecMap holds free-form product specifications as a JSON object.
// It is persisted as a text column and validated only for
// well-formedness, not against a fixed schema.
type SpecMap map[string]any

func (m SpecMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *SpecMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("specs: cannot scan %T", src)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}
