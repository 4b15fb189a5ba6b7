// Package obliterate drives the walker and the remover over whole root
// paths, collecting per-entry failures without stopping the walk.
package obliterate

import (
	"fmt"
	"log"
	"time"

	"github.com/Timmmm/obliterate/internal/database"
	"github.com/Timmmm/obliterate/internal/fsops"
	"github.com/Timmmm/obliterate/internal/metrics"
	"github.com/Timmmm/obliterate/internal/remover"
	"github.com/Timmmm/obliterate/internal/safety"
	"github.com/Timmmm/obliterate/internal/walk"

	"github.com/prometheus/client_golang/prometheus"
)

// Logger interface for structured logging
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// stdLogger wraps standard log.Logger to implement Logger interface
type stdLogger struct {
	*log.Logger
	debug bool
}

func (l *stdLogger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *stdLogger) Error(msg string, args ...interface{}) {
	l.logWithLevel("ERROR", msg, args...)
}

func (l *stdLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		l.logWithLevel("DEBUG", msg, args...)
	}
}

func (l *stdLogger) logWithLevel(level, msg string, args ...interface{}) {
	// Format key-value pairs
	var parts []interface{}
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	parts = append(parts, args...)
	l.Logger.Println(parts...)
}

// Metrics interface for removal metrics
type Metrics interface {
	EntriesRemovedTotal() prometheus.Counter
	PermissionFixesTotal() prometheus.Counter
	ErrorsTotal() prometheus.Counter
}

// removalMetrics wraps global metrics to implement Metrics interface
type removalMetrics struct{}

func (m *removalMetrics) EntriesRemovedTotal() prometheus.Counter {
	return metrics.EntriesRemovedTotal
}

func (m *removalMetrics) PermissionFixesTotal() prometheus.Counter {
	return metrics.PermissionFixesTotal
}

func (m *removalMetrics) ErrorsTotal() prometheus.Counter {
	return metrics.ErrorsTotal
}

// Obliterator removes whole directory trees, fixing permissions as it goes
type Obliterator struct {
	logger    *stdLogger
	metrics   Metrics
	remover   *remover.Remover
	validator *safety.Validator // nil disables safety checks
	db        *database.RemovalDB
}

// New creates an Obliterator. validator and db may be nil; a nil fs means
// the real filesystem.
func New(logger *log.Logger, validator *safety.Validator, db *database.RemovalDB, fs fsops.FS) *Obliterator {
	if logger == nil {
		logger = log.Default()
	}
	return &Obliterator{
		logger:    &stdLogger{Logger: logger},
		metrics:   &removalMetrics{},
		remover:   remover.New(fs),
		validator: validator,
		db:        db,
	}
}

// SetDebug enables per-entry success logging. A fully successful run stays
// silent otherwise.
func (o *Obliterator) SetDebug(debug bool) {
	o.logger.debug = debug
}

// SetMetrics overrides the metrics sink, for tests
func (o *Obliterator) SetMetrics(m Metrics) {
	o.metrics = m
}

// RemovePath removes the tree rooted at root. Individual entry failures are
// logged and collected; the walk is never cut short by them. The returned
// error is non-nil if the root was refused, could not be enumerated, or if
// any entry under it was left behind.
func (o *Obliterator) RemovePath(root string) error {
	if o.validator != nil {
		if err := o.validator.ValidateDeleteTarget(root); err != nil {
			o.logger.Error("Refusing to remove", "path", root, "reason", err)
			o.record(database.RemovalRecord{
				Action:       database.ActionSkip,
				Path:         root,
				ObjectType:   "root",
				Root:         root,
				ErrorMessage: err.Error(),
			})
			metrics.RootsTotal.WithLabelValues("refused").Inc()
			return fmt.Errorf("refusing to remove %s: %w", root, err)
		}
	}

	start := time.Now()
	failures := 0
	removed := 0

	walkErr := walk.PostOrder(root, func(entry walk.Entry, err error) error {
		if err != nil {
			// The path could not be inspected or listed. Nothing below it
			// was produced, but siblings still get their chance.
			o.logger.Error("Access error", "path", entry.Path, "error", err)
			o.record(database.RemovalRecord{
				Action:       database.ActionError,
				Path:         entry.Path,
				ObjectType:   entry.Kind.Label(),
				Root:         root,
				ErrorMessage: err.Error(),
			})
			o.metrics.ErrorsTotal().Inc()
			failures++
			return nil
		}

		res, rerr := o.remover.Remove(entry)
		if res.PermissionFixed {
			o.metrics.PermissionFixesTotal().Inc()
			o.logger.Debug("Made writable", "path", res.FixedTarget, "for", entry.Path)
		}
		if rerr != nil {
			o.logger.Error("Error removing", "path", entry.Path, "kind", entry.Kind.Label(), "error", rerr)
			o.record(database.RemovalRecord{
				Action:          database.ActionError,
				Path:            entry.Path,
				ObjectType:      entry.Kind.Label(),
				Root:            root,
				PermissionFixed: res.PermissionFixed,
				FixedTarget:     res.FixedTarget,
				ErrorMessage:    rerr.Error(),
			})
			o.metrics.ErrorsTotal().Inc()
			failures++
			return nil
		}

		o.logger.Debug("Removed", "path", entry.Path, "kind", entry.Kind.Label())
		o.record(database.RemovalRecord{
			Action:          database.ActionRemove,
			Path:            entry.Path,
			ObjectType:      entry.Kind.Label(),
			Root:            root,
			PermissionFixed: res.PermissionFixed,
			FixedTarget:     res.FixedTarget,
		})
		o.metrics.EntriesRemovedTotal().Inc()
		removed++
		return nil
	})

	metrics.RemoveDuration.Observe(time.Since(start).Seconds())

	if walkErr != nil {
		// The walk callback never returns an error, so this is unexpected,
		// but treat it as a failure of the root all the same.
		o.logger.Error("Walk failed", "path", root, "error", walkErr)
		failures++
	}

	if failures > 0 {
		o.logger.Error("Removal incomplete",
			"path", root,
			"removed", removed,
			"failed", failures,
		)
		metrics.RootsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("one or more errors deleting %s", root)
	}

	o.logger.Debug("Removal complete", "path", root, "removed", removed)
	metrics.RootsTotal.WithLabelValues("removed").Inc()
	return nil
}

// record writes an audit row, if a history database is attached
func (o *Obliterator) record(rec database.RemovalRecord) {
	if o.db == nil {
		return
	}
	if err := o.db.RecordRemoval(rec); err != nil {
		// A failed audit write never fails the removal
		o.logger.Error("Failed to record to database", "error", err)
	}
}
