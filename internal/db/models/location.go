// Package models - location.go defines the physical Location grouping for assets.
package models

import "time"

// Location represents a physical place where assets live (office, rack, site)
type Location struct {
	ID        string
	Name      string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
