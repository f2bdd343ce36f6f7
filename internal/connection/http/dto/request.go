// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
	customValidation "github.com/allisson/queryowl/internal/validation"
)

// Drivers accepted for a connection.
var supportedDrivers = []interface{}{"postgres", "mysql", "mariadb", "sqlite", "sqlserver"}

// ConnectionRequest contains the parameters for creating or updating a connection.
// A missing password keeps the stored one on update; an empty string clears it.
type ConnectionRequest struct {
	Name     string  `json:"name"`
	Driver   string  `json:"driver"`
	Host     string  `json:"host"`
	Port     int     `json:"port"`
	Database string  `json:"database"`
	Username string  `json:"username"`
	Password *string `json:"password"`
	SSLMode  string  `json:"ssl_mode"`
}

// Validate checks if the connection request is valid.
func (r *ConnectionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&r.Driver,
			validation.Required,
			validation.In(supportedDrivers...),
		),
		validation.Field(&r.Host, validation.Length(0, 255), customValidation.HostName),
		validation.Field(&r.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&r.Database, validation.Length(0, 255)),
		validation.Field(&r.Username, validation.Length(0, 255)),
		validation.Field(&r.SSLMode,
			validation.In("disable", "allow", "prefer", "require", "verify-ca", "verify-full"),
		),
	)
}

// ToInput maps the request to the use case input.
func (r *ConnectionRequest) ToInput() *connectionDomain.ConnectionInput {
	return &connectionDomain.ConnectionInput{
		Name:     r.Name,
		Driver:   r.Driver,
		Host:     r.Host,
		Port:     r.Port,
		Database: r.Database,
		Username: r.Username,
		Password: r.Password,
		SSLMode:  r.SSLMode,
	}
}

// ClassifyRequest contains a stored value to classify.
type ClassifyRequest struct {
	Value string `json:"value"`
}

// Validate checks if the classify request is valid.
func (r *ClassifyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value, validation.Required),
	)
}
