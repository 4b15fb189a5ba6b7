package database

import (
	"database/sql"
	"time"
)

const recordColumns = `id, timestamp, action, path, file_name, object_type, root,
       permission_fixed, fixed_target, error_message`

// GetRecentRemovals returns the N most recent removal events
func (d *RemovalDB) GetRecentRemovals(limit int) ([]RemovalRecord, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM removals
	ORDER BY timestamp DESC
	LIMIT ?
	`

	return d.queryRemovals(query, limit)
}

// GetRemovalsByAction returns events filtered by action (REMOVE, ERROR, SKIP)
func (d *RemovalDB) GetRemovalsByAction(action string) ([]RemovalRecord, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM removals
	WHERE action = ?
	ORDER BY timestamp DESC
	`

	return d.queryRemovals(query, action)
}

// GetRemovalsByPath returns events matching a path pattern (SQL LIKE syntax)
func (d *RemovalDB) GetRemovalsByPath(pathPattern string) ([]RemovalRecord, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM removals
	WHERE path LIKE ?
	ORDER BY timestamp DESC
	`

	return d.queryRemovals(query, pathPattern)
}

// GetPermissionFixes returns events where a write bit had to be set
func (d *RemovalDB) GetPermissionFixes(limit int) ([]RemovalRecord, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM removals
	WHERE permission_fixed = 1
	ORDER BY timestamp DESC
	LIMIT ?
	`

	return d.queryRemovals(query, limit)
}

// RemovalStats summarizes removal activity over a period
type RemovalStats struct {
	StartDate       time.Time
	EndDate         time.Time
	TotalRemoved    int64
	TotalErrors     int64
	TotalSkipped    int64
	PermissionFixes int64
	ByObjectType    map[string]int64
}

// GetRemovalStats returns statistics for the last N days
func (d *RemovalDB) GetRemovalStats(days int) (*RemovalStats, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	stats := &RemovalStats{
		StartDate:    start,
		EndDate:      end,
		ByObjectType: make(map[string]int64),
	}

	row := d.db.QueryRow(`
	SELECT
		COUNT(CASE WHEN action = 'REMOVE' THEN 1 END),
		COUNT(CASE WHEN action = 'ERROR' THEN 1 END),
		COUNT(CASE WHEN action = 'SKIP' THEN 1 END),
		COUNT(CASE WHEN permission_fixed = 1 THEN 1 END)
	FROM removals
	WHERE timestamp BETWEEN ? AND ?
	`, start, end)
	if err := row.Scan(&stats.TotalRemoved, &stats.TotalErrors, &stats.TotalSkipped, &stats.PermissionFixes); err != nil {
		return nil, err
	}

	rows, err := d.db.Query(`
	SELECT object_type, COUNT(*)
	FROM removals
	WHERE action = 'REMOVE' AND timestamp BETWEEN ? AND ?
	GROUP BY object_type
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var objectType string
		var count int64
		if err := rows.Scan(&objectType, &count); err != nil {
			return nil, err
		}
		stats.ByObjectType[objectType] = count
	}

	return stats, rows.Err()
}

// queryRemovals executes a query and scans results into RemovalRecords
func (d *RemovalDB) queryRemovals(query string, args ...interface{}) ([]RemovalRecord, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RemovalRecord
	for rows.Next() {
		var rec RemovalRecord
		var fileName, fixedTarget, errorMessage sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.Timestamp,
			&rec.Action,
			&rec.Path,
			&fileName,
			&rec.ObjectType,
			&rec.Root,
			&rec.PermissionFixed,
			&fixedTarget,
			&errorMessage,
		); err != nil {
			return nil, err
		}
		rec.FileName = fileName.String
		rec.FixedTarget = fixedTarget.String
		rec.ErrorMessage = errorMessage.String
		records = append(records, rec)
	}

	return records, rows.Err()
}
