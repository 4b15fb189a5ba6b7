package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestMetricsInit verifies that Init() is idempotent and registers metrics
func TestMetricsInit(t *testing.T) {
	// Call Init multiple times - should be idempotent via sync.Once
	Init()
	Init()
	Init()

	if EntriesRemovedTotal == nil {
		t.Error("EntriesRemovedTotal should be initialized")
	}
	if PermissionFixesTotal == nil {
		t.Error("PermissionFixesTotal should be initialized")
	}
	if ErrorsTotal == nil {
		t.Error("ErrorsTotal should be initialized")
	}
	if RootsTotal == nil {
		t.Error("RootsTotal should be initialized")
	}
	if RemoveDuration == nil {
		t.Error("RemoveDuration should be initialized")
	}

	// A labeled counter only shows up in a gather once a child exists
	RootsTotal.WithLabelValues("removed").Inc()

	// Test metrics are registered by gathering from default registry
	found := make(map[string]bool)
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}

	for _, name := range []string{
		"obliterate_entries_removed_total",
		"obliterate_permission_fixes_total",
		"obliterate_errors_total",
		"obliterate_roots_total",
		"obliterate_remove_duration_seconds",
	} {
		if !found[name] {
			t.Errorf("Metric %s not registered", name)
		}
	}
}
