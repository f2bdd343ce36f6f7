// Package domain defines the connection records that carry database credentials,
// and the result types of the credential migration.
package domain

import (
	"bytes"
	"encoding/json"
)

// PasswordField is the record field holding the credential.
const PasswordField = "password"

// Record is one element of the stored connections collection.
//
// Objects are kept as their raw JSON fields so that fields this package does
// not know about survive a load and save unchanged. Any other element (null,
// a string, a number) is kept verbatim as an opaque record: it has no fields,
// no password, and marshals back exactly as it was read.
type Record struct {
	fields map[string]json.RawMessage
	opaque json.RawMessage
}

// NewRecord returns an object record holding fields. fields may be nil.
func NewRecord(fields map[string]json.RawMessage) Record {
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	return Record{fields: fields}
}

// IsObject reports whether the record is a JSON object.
func (r Record) IsObject() bool {
	return r.opaque == nil
}

// Field returns the raw value of a field.
func (r Record) Field(name string) (json.RawMessage, bool) {
	raw, ok := r.fields[name]
	return raw, ok
}

// SetField stores a raw field value. It is a no-op on an opaque record.
func (r *Record) SetField(name string, value json.RawMessage) {
	if !r.IsObject() {
		return
	}
	if r.fields == nil {
		r.fields = make(map[string]json.RawMessage)
	}
	r.fields[name] = value
}

// DeleteField removes a field.
func (r *Record) DeleteField(name string) {
	delete(r.fields, name)
}

// Password returns the password field when it is present and a JSON string.
func (r Record) Password() (string, bool) {
	raw, ok := r.fields[PasswordField]
	if !ok {
		return "", false
	}
	var password string
	if err := json.Unmarshal(raw, &password); err != nil {
		return "", false
	}
	return password, true
}

// SetPassword stores password as a JSON string. An empty password removes the field.
func (r *Record) SetPassword(password string) {
	if password == "" {
		r.DeleteField(PasswordField)
		return
	}
	raw, _ := json.Marshal(password)
	r.SetField(PasswordField, raw)
}

// StringField returns a string field, or "" when absent or not a string.
func (r Record) StringField(name string) string {
	var s string
	if raw, ok := r.fields[name]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// Clone returns a copy of the record that shares no buffers with r.
func (r Record) Clone() Record {
	if !r.IsObject() {
		return Record{opaque: bytes.Clone(r.opaque)}
	}
	out := make(map[string]json.RawMessage, len(r.fields))
	for k, v := range r.fields {
		out[k] = bytes.Clone(v)
	}
	return Record{fields: out}
}

// MarshalJSON writes the fields of an object record, or an opaque record as read.
func (r Record) MarshalJSON() ([]byte, error) {
	if !r.IsObject() {
		return r.opaque, nil
	}
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.fields)
}

// UnmarshalJSON reads an object into fields and keeps anything else opaque.
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}
		*r = NewRecord(fields)
		return nil
	}
	*r = Record{opaque: bytes.Clone(trimmed)}
	return nil
}
