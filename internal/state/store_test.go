package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/kiosk/internal/api"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	health := &api.Health{Status: "ok", Version: "1.4.2"}
	overview := &api.Overview{DevicesOnline: 12, OrdersToday: 3}

	before := time.Now()
	s.Update(health, overview, nil)

	snap := s.Snapshot()
	if !snap.HasHealth || snap.Health.Version != "1.4.2" {
		t.Fatalf("snapshot health = %#v, want version=1.4.2 HasHealth=true", snap.Health)
	}
	if !snap.HasOverview || snap.Overview.DevicesOnline != 12 {
		t.Fatalf("snapshot overview = %#v, want 12 devices online", snap.Overview)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Overview.DevicesOnline = 999
	snap2 := s.Snapshot()
	if snap2.Overview.DevicesOnline != 12 {
		t.Fatalf("Snapshot should copy overview; got %d want 12", snap2.Overview.DevicesOnline)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(&api.Health{Status: "ok"}, &api.Overview{OrdersToday: 7}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, nil, origErr)

	snap := s.Snapshot()
	if snap.HasHealth != prev.HasHealth || snap.Health != prev.Health {
		t.Fatalf("health changed on error: got %#v want %#v", snap.Health, prev.Health)
	}
	if snap.Overview.OrdersToday != 7 {
		t.Fatalf("overview changed on error: got %#v want %#v", snap.Overview, prev.Overview)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store = %d failures offline=%v, want 0 and online", snap.ConsecutiveFailures, snap.IsOffline())
	}

	steps := []struct {
		fail         bool
		wantFailures int
		wantOffline  bool
	}{
		{fail: true, wantFailures: 1, wantOffline: false},
		{fail: true, wantFailures: 2, wantOffline: true},
		{fail: true, wantFailures: 3, wantOffline: true},
		{fail: false, wantFailures: 0, wantOffline: false},
	}
	for i, step := range steps {
		if step.fail {
			s.Update(nil, nil, errors.New("poll failed"))
		} else {
			s.Update(&api.Health{Status: "ok"}, nil, nil)
		}
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != step.wantFailures {
			t.Fatalf("step %d: ConsecutiveFailures = %d, want %d", i, snap.ConsecutiveFailures, step.wantFailures)
		}
		if snap.IsOffline() != step.wantOffline {
			t.Fatalf("step %d: IsOffline() = %v, want %v", i, snap.IsOffline(), step.wantOffline)
		}
	}
}

func TestStore_NilOverviewKeepsPrevious(t *testing.T) {
	var s Store

	s.Update(&api.Health{Status: "ok"}, &api.Overview{DevicesFault: 2}, nil)
	s.Update(&api.Health{Status: "ok"}, nil, nil)

	snap := s.Snapshot()
	if !snap.HasOverview || snap.Overview.DevicesFault != 2 {
		t.Fatalf("overview = %#v, want previous overview kept", snap.Overview)
	}
}
