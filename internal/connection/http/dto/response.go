package dto

import (
	"time"

	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
)

// ConnectionResponse represents a connection in API responses.
// The stored password is never included; HasPassword reports whether one exists.
type ConnectionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Driver      string    `json:"driver"`
	Host        string    `json:"host,omitempty"`
	Port        int       `json:"port,omitempty"`
	Database    string    `json:"database,omitempty"`
	Username    string    `json:"username,omitempty"`
	SSLMode     string    `json:"ssl_mode,omitempty"`
	HasPassword bool      `json:"has_password"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapConnectionToResponse converts a domain connection to an API response.
func MapConnectionToResponse(c *connectionDomain.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:          c.ID,
		Name:        c.Name,
		Driver:      c.Driver,
		Host:        c.Host,
		Port:        c.Port,
		Database:    c.Database,
		Username:    c.Username,
		SSLMode:     c.SSLMode,
		HasPassword: c.HasPassword(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ListConnectionsResponse wraps a list of connections.
type ListConnectionsResponse struct {
	Data []ConnectionResponse `json:"data"`
}

// MapConnectionsToListResponse converts domain connections to a list response.
func MapConnectionsToListResponse(conns []*connectionDomain.Connection) ListConnectionsResponse {
	data := make([]ConnectionResponse, 0, len(conns))
	for _, c := range conns {
		data = append(data, MapConnectionToResponse(c))
	}
	return ListConnectionsResponse{Data: data}
}

// CredentialsResponse carries the decrypted credentials of a connection.
// SECURITY: Password is plaintext. Must be transmitted over HTTPS or loopback only.
type CredentialsResponse struct {
	ID       string `json:"id"`
	Driver   string `json:"driver"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode,omitempty"`
}

// MapConnectionToCredentialsResponse converts a decrypted connection to a credentials response.
func MapConnectionToCredentialsResponse(c *connectionDomain.Connection) CredentialsResponse {
	return CredentialsResponse{
		ID:       c.ID,
		Driver:   c.Driver,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.Username,
		Password: c.Password,
		SSLMode:  c.SSLMode,
	}
}

// ClassifyResponse reports whether a value looks like an encoded envelope.
type ClassifyResponse struct {
	Encrypted bool `json:"encrypted"`
}

// MigrationResponse reports the outcome of a migration run.
type MigrationResponse struct {
	Total    int `json:"total"`
	Migrated int `json:"migrated"`
	Failed   int `json:"failed"`
}

// MapMigrationResultToResponse converts a migration result to an API response.
func MapMigrationResultToResponse(r *connectionDomain.MigrationResult) MigrationResponse {
	return MigrationResponse{
		Total:    r.Total,
		Migrated: r.Migrated,
		Failed:   r.Failed,
	}
}
