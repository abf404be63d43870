package monitor

import (
	"context"
	"sync"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
)

// ---------------------------------------------------------------------------
// Shared fakes for the scanner and prober tests
// ---------------------------------------------------------------------------

type onlineUpdate struct {
	deviceID string
	online   bool
}

type fakeStore struct {
	mu sync.Mutex

	expiring    []*models.ExpiringAsset
	expiringErr error
	targets     []*models.DeviceWithAsset
	targetsErr  error

	onlineUpdates []onlineUpdate
	onlineErr     error
}

func (f *fakeStore) ListExpiringAssets(ctx context.Context) ([]*models.ExpiringAsset, error) {
	return f.expiring, f.expiringErr
}

func (f *fakeStore) ListProbeTargets(ctx context.Context) ([]*models.DeviceWithAsset, error) {
	return f.targets, f.targetsErr
}

func (f *fakeStore) SetDeviceOnline(ctx context.Context, deviceID string, online bool) error {
	if f.onlineErr != nil {
		return f.onlineErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onlineUpdates = append(f.onlineUpdates, onlineUpdate{deviceID, online})
	return nil
}

// fakeDirectory resolves usernames from a fixed map; unknown users have no email.
type fakeDirectory struct {
	emails map[string]string
	err    error
}

func (f *fakeDirectory) FindEmailByUsername(ctx context.Context, username string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.emails[username], nil
}

type recordedEvent struct {
	action     string
	entityType string
	entityID   *string
	details    map[string]interface{}
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeRecorder) RecordSystem(action, entityType string, entityID *string, details map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{action, entityType, entityID, details})
}

func (f *fakeRecorder) byAction(action string) []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedEvent
	for _, e := range f.events {
		if e.action == action {
			out = append(out, e)
		}
	}
	return out
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

type fakeDispatcher struct {
	mu         sync.Mutex
	emails     []sentEmail
	broadcasts []string
}

func (f *fakeDispatcher) SendEmail(ctx context.Context, to, subject, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, sentEmail{to, subject, body})
}

func (f *fakeDispatcher) SendBroadcast(ctx context.Context, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, body)
}

// fakePinger answers from a fixed reachability map; unknown IPs are down.
type fakePinger struct {
	up map[string]bool
}

func (f *fakePinger) Ping(ctx context.Context, ip string) bool {
	return f.up[ip]
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
