// Package models - certificate.go defines the Certificate detail row.
package models

import "time"

// Certificate represents the detail row of a CERTIFICATE asset
type Certificate struct {
	ID         string
	AssetID    string
	CommonName *string
	Issuer     *string
	// ExpiryDate is date-only; the time portion is always midnight UTC
	ExpiryDate *time.Time
}
