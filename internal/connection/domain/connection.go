package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Connection is the typed view of a stored database connection.
//
// Password holds whatever is stored: an encoded envelope for protected
// records, legacy plaintext for records that predate encryption, or "".
type Connection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Driver    string    `json:"driver"`
	Host      string    `json:"host,omitempty"`
	Port      int       `json:"port,omitempty"`
	Database  string    `json:"database,omitempty"`
	Username  string    `json:"username,omitempty"`
	Password  string    `json:"password,omitempty"`
	SSLMode   string    `json:"ssl_mode,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPassword reports whether a credential is stored.
func (c *Connection) HasPassword() bool {
	return c.Password != ""
}

// ConnectionInput carries the user-editable fields of a connection.
// A nil Password on update keeps the stored one; an empty one clears it.
type ConnectionInput struct {
	Name     string
	Driver   string
	Host     string
	Port     int
	Database string
	Username string
	Password *string
	SSLMode  string
}

// ConnectionFromRecord decodes the known fields of a record. Opaque records
// return ErrInvalidRecord.
func ConnectionFromRecord(r Record) (*Connection, error) {
	if !r.IsObject() {
		return nil, fmt.Errorf("%w: element is not an object", ErrInvalidRecord)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	var c Connection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return &c, nil
}

// ToRecord writes the known fields of c over base and returns the result.
// Unknown fields of base are kept. base may be the zero Record.
func (c *Connection) ToRecord(base Record) (Record, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return Record{}, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Record{}, err
	}

	out := NewRecord(nil)
	if base.IsObject() {
		out = base.Clone()
	}
	for _, name := range []string{"host", "port", "database", "username", "ssl_mode"} {
		out.DeleteField(name)
	}
	for name, value := range fields {
		out.SetField(name, value)
	}
	out.SetPassword(c.Password)
	return out, nil
}
