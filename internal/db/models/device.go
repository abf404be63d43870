// Package models - device.go defines the Device detail row and the tri-state
// reachability value derived from its nullable online column.
package models

import "time"

// OnlineState is the reachability state of a device as seen by the prober.
type OnlineState int

const (
	// OnlineUnknown means the device has never been probed.
	OnlineUnknown OnlineState = iota
	// OnlineUp means the last probe succeeded.
	OnlineUp
	// OnlineDown means the last probe failed.
	OnlineDown
)

// String returns the lowercase display name of the state.
func (s OnlineState) String() string {
	switch s {
	case OnlineUp:
		return "up"
	case OnlineDown:
		return "down"
	}
	return "unknown"
}

// Device represents the network detail row of a DEVICE asset
type Device struct {
	ID         string
	AssetID    string
	IPAddress  *string
	MACAddress *string
	Hostname   *string
	// Online is NULL until the first probe completes
	Online   *bool
	LastSeen *time.Time
}

// OnlineState maps the nullable online column to the tri-state value.
func (d *Device) OnlineState() OnlineState {
	if d.Online == nil {
		return OnlineUnknown
	}
	if *d.Online {
		return OnlineUp
	}
	return OnlineDown
}

// DeviceWithAsset pairs a device row with identifying fields of its asset,
// as produced by the reachability scan query.
type DeviceWithAsset struct {
	Device
	AssetName   string
	AssetStatus int
	Responsible *string
}
