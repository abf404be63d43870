// Package models - asset.go defines the Asset model, the asset type constants,
// and the numeric lifecycle status codes shared by all asset types.
package models

import "time"

// Asset types. Each type has a companion detail row (Device, License, Certificate).
const (
	TypeDevice      = "DEVICE"
	TypeLicense     = "LICENSE"
	TypeCertificate = "CERTIFICATE"
)

// ValidAssetType reports whether s is one of the known asset types.
func ValidAssetType(s string) bool {
	return s == TypeDevice || s == TypeLicense || s == TypeCertificate
}

// Lifecycle status codes. Stored as integers; the names are for display.
const (
	StatusActive         = 1
	StatusInactive       = 2
	StatusExpired        = 3
	StatusPending        = 4
	StatusMaintenance    = 5
	StatusDecommissioned = 6
)

var statusNames = map[int]string{
	StatusActive:         "ACTIVE",
	StatusInactive:       "INACTIVE",
	StatusExpired:        "EXPIRED",
	StatusPending:        "PENDING",
	StatusMaintenance:    "MAINTENANCE",
	StatusDecommissioned: "DECOMMISSIONED",
}

// StatusName returns the display name for a status code, or "UNKNOWN" if the
// code is out of range.
func StatusName(status int) string {
	if name, ok := statusNames[status]; ok {
		return name
	}
	return "UNKNOWN"
}

// ValidStatus reports whether status is one of the defined lifecycle codes.
func ValidStatus(status int) bool {
	_, ok := statusNames[status]
	return ok
}

// Asset represents an inventory asset. Type-specific fields live in the
// companion Device, License, or Certificate row keyed by AssetID.
type Asset struct {
	ID          string
	Name        string
	Type        string
	Status      int
	ProjectID   *string
	LocationID  *string
	// Responsible is the username of the responsible party, matched against
	// the users table by name when monitoring notifications are routed.
	Responsible *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined display fields, populated by list queries
	ProjectName  *string
	LocationName *string
}

// AssetDetail bundles an asset with whichever detail row matches its type.
// Exactly one of Device, License, Certificate is non-nil.
type AssetDetail struct {
	Asset
	Device      *Device
	License     *License
	Certificate *Certificate
}

// ExpiryDate returns the expiry date of the detail row, or nil when the asset
// type has no expiry or none is set.
func (a *AssetDetail) ExpiryDate() *time.Time {
	switch {
	case a.License != nil:
		return a.License.ExpiryDate
	case a.Certificate != nil:
		return a.Certificate.ExpiryDate
	}
	return nil
}

// ExpiringAsset is a row produced by the expiration scan query: an asset of an
// expirable type together with its expiry date.
type ExpiringAsset struct {
	AssetID     string
	AssetName   string
	AssetType   string
	Status      int
	Responsible *string
	ExpiryDate  time.Time
}
