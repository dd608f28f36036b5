// Package log provides the process-wide zerolog logger used by the
// blockmodes tooling, with an optional SQLite sink that keeps one JSON row
// per event so past runs can be inspected with the logs command.
package log

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var (
	mu        sync.RWMutex
	pkgLogger = zerolog.Nop()
	console   io.Writer
	sink      *sqliteWriter

	zerologTimeFieldFormat = time.RFC3339Nano

	ErrNotInitialized = errors.New("log: sqlite sink not initialized, call log.Init() first")
)

type sqliteWriter struct {
	db   *sql.DB
	stmt *sql.Stmt
	mu   sync.Mutex
}

func openSQLite(path string) (*sqliteWriter, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db %s: %w", path, err)
	}

	const createTable = `
    CREATE TABLE IF NOT EXISTS logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        log_data TEXT NOT NULL
    );`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}
	const createIndex = `CREATE INDEX IF NOT EXISTS idx_logs_json_time ON logs (json_extract(log_data, '$.time'));`
	if _, err := db.Exec(createIndex); err != nil {
		stdlog.Printf("Warning: failed to create JSON time index: %v", err)
	}

	stmt, err := db.Prepare(`INSERT INTO logs (log_data) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	return &sqliteWriter{db: db, stmt: stmt}, nil
}

func (w *sqliteWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.stmt.Exec(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *sqliteWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Join(w.stmt.Close(), w.db.Close())
}

// rebuild must be called with mu held.
func rebuild() {
	var writers []io.Writer
	if console != nil {
		writers = append(writers, console)
	}
	if sink != nil {
		writers = append(writers, sink)
	}
	switch len(writers) {
	case 0:
		pkgLogger = zerolog.Nop()
	case 1:
		pkgLogger = zerolog.New(writers[0]).With().Timestamp().Logger()
	default:
		pkgLogger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	}
}

// SetStd sends events to stderr through a human readable console writer.
func SetStd() {
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// SetOutput replaces the console destination. A nil writer disables it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = w
	rebuild()
}

// SetLevel sets the global minimum level.
func SetLevel(l zerolog.Level) {
	zerolog.SetGlobalLevel(l)
}

// Init opens (or creates) the SQLite sink at path and tees events into it.
func Init(path string) error {
	if path == "" {
		return errors.New("log: Init needs an explicit database path")
	}
	mu.Lock()
	defer mu.Unlock()
	if sink != nil {
		return errors.New("log: sqlite sink already initialized")
	}
	w, err := openSQLite(path)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	// stored times are compared as strings, keep them all in UTC
	zerolog.TimeFieldFormat = zerologTimeFieldFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	sink = w
	rebuild()
	return nil
}

// Close detaches and closes the SQLite sink, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if sink == nil {
		return nil
	}
	w := sink
	sink = nil
	rebuild()
	if err := w.close(); err != nil {
		return fmt.Errorf("log: closing sqlite sink: %w", err)
	}
	return nil
}

func logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := pkgLogger
	return &l
}

func Debug() *zerolog.Event { return logger().Debug() }
func Info() *zerolog.Event  { return logger().Info() }
func Warn() *zerolog.Event  { return logger().Warn() }
func Error() *zerolog.Event { return logger().Error() }

// Printf sends an info event. Arguments are handled in the manner of fmt.Printf.
func Printf(format string, v ...any) {
	logger().Info().Msgf(format, v...)
}
