// Package models - project.go defines the Project grouping for assets.
package models

import "time"

// Project represents a logical grouping of assets (e.g. a customer or an initiative)
type Project struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
