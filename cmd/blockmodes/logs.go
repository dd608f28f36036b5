package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"blockmodes/pkg/appdir"
	"blockmodes/pkg/config"
	"blockmodes/pkg/log"
)

// timeFormats are tried in order when --since is not a duration.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeSpec accepts a duration back from now ("1h", "30m") or an
// absolute timestamp.
func parseTimeSpec(spec string) (time.Time, error) {
	if d, err := time.ParseDuration(spec); err == nil {
		return time.Now().Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.Parse(layout, spec); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification %q: use a duration (1h, 30m) or a timestamp (2023-10-27T15:04:05Z)", spec)
}

func logsCommand() *cli.Command {
	return &cli.Command{
		Name:        "logs",
		Usage:       "print JSON log entries recorded by previous runs",
		UsageText:   "blockmodes logs [--last N | --since TIME_SPEC] [options]",
		Description: "Reads the SQLite log database configured with log_db (or --log-db).",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file `PATH`"},
			&cli.StringFlag{Name: "log-db", Usage: "SQLite log database `PATH`"},
			&cli.IntFlag{Name: "last", Aliases: []string{"n"}, Usage: "print the most recent `NUMBER` entries", Value: 20},
			&cli.StringFlag{Name: "since", Aliases: []string{"s"}, Usage: "print entries since `TIME_SPEC` (e.g. '1h', '2023-10-27T10:00:00Z')"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "max entries for --since `NUMBER`", Value: log.DefaultLimit},
		},
		Action: logsCmd,
	}
}

func logsCmd(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error loading configuration: %v", err), 1)
	}
	if c.IsSet("log-db") {
		cfg.LogDB = c.String("log-db")
	}
	if cfg.LogDB == "" {
		return cli.Exit("Error: no log database configured.", 1)
	}
	if c.IsSet("last") && c.IsSet("since") {
		return cli.Exit("Error: --last and --since are mutually exclusive.", 1)
	}

	if err := log.Init(appdir.Path(cfg.LogDB)); err != nil {
		return cli.Exit(fmt.Sprintf("Error opening log database: %v", err), 1)
	}
	defer log.Close()

	var entries []log.LogEntry
	if c.IsSet("since") {
		var start time.Time
		if start, err = parseTimeSpec(c.String("since")); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		entries, err = log.GetLogsSince(start, c.Int("limit"))
	} else {
		n := c.Int("last")
		if n <= 0 {
			return cli.Exit("Error: --last must be a positive number.", 1)
		}
		entries, err = log.GetLastNLogs(n)
	}
	if err != nil {
		if errors.Is(err, log.ErrNotInitialized) {
			return cli.Exit("Internal Error: log database handle became unavailable.", 2)
		}
		return cli.Exit(fmt.Sprintf("Error retrieving logs: %v", err), 1)
	}

	for _, e := range entries {
		fmt.Fprintln(c.App.Writer, e.LogData)
	}
	return nil
}
