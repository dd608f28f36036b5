package log

import (
	"database/sql"
	"fmt"
	"time"
)

// DefaultLimit caps GetLogsSince when no positive limit is given.
const DefaultLimit = 100

// LogEntry is one stored event; LogData is the raw JSON written by zerolog.
type LogEntry struct {
	ID         int64
	InsertedAt time.Time
	LogData    string
}

func handle() (*sql.DB, error) {
	mu.RLock()
	defer mu.RUnlock()
	if sink == nil {
		return nil, ErrNotInitialized
	}
	return sink.db, nil
}

var dbTimeFormats = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

func parseDBTimestamp(ts string) time.Time {
	for _, layout := range dbTimeFormats {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

func scanEntries(rows *sql.Rows) ([]LogEntry, error) {
	defer rows.Close()
	var logs []LogEntry
	for rows.Next() {
		var e LogEntry
		var insertedAt string
		if err := rows.Scan(&e.ID, &insertedAt, &e.LogData); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		e.InsertedAt = parseDBTimestamp(insertedAt)
		logs = append(logs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}
	return logs, nil
}

// GetLastNLogs returns the n most recent entries, oldest first.
func GetLastNLogs(n int) ([]LogEntry, error) {
	db, err := handle()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []LogEntry{}, nil
	}
	rows, err := db.Query(`SELECT id, inserted_at, log_data FROM logs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query last %d logs: %w", n, err)
	}
	logs, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

// GetLogsSince returns entries whose event time is at or after start, in
// event time order. A limit <= 0 means DefaultLimit.
func GetLogsSince(start time.Time, limit int) ([]LogEntry, error) {
	db, err := handle()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	const query = `
        SELECT id, inserted_at, log_data
        FROM logs
        WHERE json_extract(log_data, '$.time') >= ?
        ORDER BY json_extract(log_data, '$.time') ASC, id ASC
        LIMIT ?`
	startStr := start.UTC().Format(zerologTimeFieldFormat)
	rows, err := db.Query(query, startStr, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs since %s: %w", startStr, err)
	}
	return scanEntries(rows)
}
