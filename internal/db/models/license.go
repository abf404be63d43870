// Package models - license.go defines the License detail row.
package models

import "time"

// License represents the detail row of a LICENSE asset
type License struct {
	ID         string
	AssetID    string
	LicenseKey *string
	Vendor     *string
	Seats      *int
	// ExpiryDate is date-only; the time portion is always midnight UTC
	ExpiryDate *time.Time
}
