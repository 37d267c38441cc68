package models

import (
	"bytes"
	"encoding/json"
)

// NullableString tells "absent" apart from "null" in a PATCH body:
//
//	absent: Set=false
//	null:   Set=true, Valid=false
//	value:  Set=true, Valid=true
type NullableString struct {
	Value string
	Valid bool
	Set   bool
}

// UnmarshalJSON records presence before decoding.
func (ns *NullableString) UnmarshalJSON(data []byte) error {
	ns.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		ns.Value, ns.Valid = "", false
		return nil
	}
	if err := json.Unmarshal(data, &ns.Value); err != nil {
		return err
	}
	ns.Valid = true
	return nil
}

// MarshalJSON writes null when the value is not valid.
func (ns NullableString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ns.Value)
}

// ToPtr returns nil for null, otherwise a pointer to Value.
func (ns NullableString) ToPtr() *string {
	if !ns.Valid {
		return nil
	}
	v := ns.Value
	return &v
}
