package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Removal subsystem metrics
var (
	// EntriesRemovedTotal tracks files, symlinks and directories removed
	EntriesRemovedTotal prometheus.Counter

	// PermissionFixesTotal tracks write-bit fixes applied before a retry
	PermissionFixesTotal prometheus.Counter

	// ErrorsTotal tracks entries that could not be removed
	ErrorsTotal prometheus.Counter

	// RootsTotal tracks root paths processed, by outcome (removed/failed)
	RootsTotal *prometheus.CounterVec

	// RemoveDuration tracks how long removing a whole root path takes
	RemoveDuration prometheus.Histogram
)

// initRemovalMetrics initializes all removal subsystem metrics
func initRemovalMetrics() {
	EntriesRemovedTotal = NewCounter(
		"obliterate_entries_removed_total",
		"Total number of files, symlinks and directories removed.",
	)

	PermissionFixesTotal = NewCounter(
		"obliterate_permission_fixes_total",
		"Total number of write-permission fixes applied to unblock a removal.",
	)

	ErrorsTotal = NewCounter(
		"obliterate_errors_total",
		"Total number of entries that could not be removed.",
	)

	RootsTotal = NewCounterVec(
		"obliterate_roots_total",
		"Total number of root paths processed, labeled by outcome.",
		[]string{"outcome"},
	)

	RemoveDuration = NewDurationHistogram(
		"obliterate_remove_duration_seconds",
		"Duration of removing one root path in seconds.",
	)
}

// registerRemovalMetrics registers all removal metrics with Prometheus
func registerRemovalMetrics() {
	prometheus.MustRegister(EntriesRemovedTotal)
	prometheus.MustRegister(PermissionFixesTotal)
	prometheus.MustRegister(ErrorsTotal)
	prometheus.MustRegister(RootsTotal)
	prometheus.MustRegister(RemoveDuration)
}
