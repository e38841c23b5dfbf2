package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/urlrevive/internal/api"
	"github.com/thesavant42/urlrevive/internal/config"
	"github.com/thesavant42/urlrevive/internal/db"
	"github.com/thesavant42/urlrevive/internal/input"
	"github.com/thesavant42/urlrevive/internal/revive"
	"github.com/thesavant42/urlrevive/internal/ui"
)

// cliFlags holds the parsed command line
type cliFlags struct {
	url        string
	file       string
	limit      int
	json       bool
	dump       bool
	memento    bool
	matchCodes string
	rendered   bool
	hosts      bool
	dbPath     string
	envFile    string
}

func main() {
	var f cliFlags

	// Every option has a short and a long spelling
	flag.StringVar(&f.url, "u", "", "Fetch snapshot(s) for single URL")
	flag.StringVar(&f.url, "url", "", "Fetch snapshot(s) for single URL")
	flag.StringVar(&f.file, "f", "-", "Fetch snapshots for multiple URLs in file (- for stdin)")
	flag.StringVar(&f.file, "file", "-", "Fetch snapshots for multiple URLs in file (- for stdin)")
	flag.IntVar(&f.limit, "l", 0, "Limit number of snapshots fetched per URL (default from config)")
	flag.IntVar(&f.limit, "limit", 0, "Limit number of snapshots fetched per URL (default from config)")
	flag.BoolVar(&f.json, "j", false, "Return as JSON (not implemented)")
	flag.BoolVar(&f.json, "json", false, "Return as JSON (not implemented)")
	flag.BoolVar(&f.dump, "d", false, "Include dump of source code from responses")
	flag.BoolVar(&f.dump, "dump", false, "Include dump of source code from responses")
	flag.BoolVar(&f.memento, "m", false, "Find archives holding the URL(s) with the Memento API")
	flag.BoolVar(&f.memento, "memento", false, "Find archives holding the URL(s) with the Memento API")
	flag.StringVar(&f.matchCodes, "mc", "", "Status codes to match -> -mc 200,302,404")
	flag.StringVar(&f.matchCodes, "match-codes", "", "Status codes to match -> -mc 200,302,404")
	flag.BoolVar(&f.rendered, "rendered", false, "Use link-rewritten playback URLs instead of raw content")
	flag.BoolVar(&f.hosts, "hosts", false, "With -m, print archive domains instead of timemap identifiers")
	flag.StringVar(&f.dbPath, "db", "", "Save results to this SQLite database")
	flag.StringVar(&f.envFile, "env", ".env", "Load configuration from this .env file")
	flag.Parse()

	cfg, err := config.Load(f.envFile)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.LogLevel,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	in, closeIn, err := openInput(f.url, f.file)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	defer closeIn()

	urls, err := input.Resolve(f.url, in)
	if err != nil {
		logger.Error("Failed to read URLs", "err", err)
	}

	limit := f.limit
	if limit <= 0 {
		limit = cfg.DefaultFetchLimit
	}

	runner := revive.NewRunner(api.NewWaybackClient(cfg, logger), api.NewMementoClient(cfg, logger), os.Stdout, logger)

	if f.dbPath != "" {
		database, err := db.New(f.dbPath)
		if err != nil {
			logger.Error("Failed to open database, results will not be saved", "path", f.dbPath, "err", err)
		} else {
			defer database.Close()
			runner.Store = database
		}
	}

	opts := revive.Options{
		Limit:      limit,
		MatchCodes: splitCodes(f.matchCodes),
		Dump:       f.dump,
		Rendered:   f.rendered,
		Memento:    f.memento,
		Hosts:      f.hosts,
		JSON:       f.json,
	}

	if err := runner.Run(context.Background(), urls, opts); err != nil {
		logger.Error("Run failed", "err", err)
	}
}

// openInput picks the URL stream. A single URL needs no stream, and an
// interactive stdin with nothing piped is skipped.
func openInput(single, file string) (io.Reader, func(), error) {
	noop := func() {}
	if single != "" {
		return nil, noop, nil
	}
	if file == "" || file == "-" {
		if input.Interactive(os.Stdin) {
			return nil, noop, nil
		}
		return os.Stdin, noop, nil
	}

	fh, err := os.Open(file)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open input file: %w", err)
	}
	return fh, func() { fh.Close() }, nil
}

// splitCodes turns "200, 302,404" into ["200" "302" "404"]
func splitCodes(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var codes []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
