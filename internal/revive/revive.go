// Package revive drives a single invocation: snapshot listing, raw dumps, or
// Memento archive discovery over a batch of URLs.
package revive

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/urlrevive/internal/api"
	"github.com/thesavant42/urlrevive/internal/models"
	"github.com/thesavant42/urlrevive/internal/ui"
)

// Options selects the mode and shapes the output of Run
type Options struct {
	Limit      int
	MatchCodes []string
	Dump       bool // print archived content instead of summary lines
	Rendered   bool // link-rewritten playback URLs instead of raw (id_) ones
	Memento    bool
	Hosts      bool // memento mode: print archive domains instead of identifiers
	JSON       bool // accepted for compatibility; has no effect on output
}

// Store persists results. Optional; a nil Store disables persistence.
type Store interface {
	InsertSnapshots(records []models.SnapshotRecord) (int, error)
	InsertArchives(archives []string) (int, error)
}

// Runner wires the clients to an output stream
type Runner struct {
	Wayback *api.WaybackClient
	Memento *api.MementoClient
	Store   Store
	Logger  *log.Logger

	printer *ui.Printer
}

// NewRunner creates a Runner printing results to out
func NewRunner(wayback *api.WaybackClient, memento *api.MementoClient, out io.Writer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Wayback: wayback,
		Memento: memento,
		Logger:  logger,
		printer: ui.NewPrinter(out),
	}
}

// Run processes urls in the mode selected by opts. Request failures are
// handled per URL inside the clients; Run itself only fails on a nil client.
func (r *Runner) Run(ctx context.Context, urls []string, opts Options) error {
	if opts.JSON {
		r.Logger.Warn("JSON output is not implemented; printing plain output")
	}

	if opts.Memento {
		return r.runMemento(ctx, urls, opts)
	}
	return r.runSnapshots(ctx, urls, opts)
}

func (r *Runner) runMemento(ctx context.Context, urls []string, opts Options) error {
	if r.Memento == nil {
		return fmt.Errorf("no memento client configured")
	}

	archives := r.Memento.FindActiveArchives(ctx, urls)
	r.save(func(s Store) (int, error) { return s.InsertArchives(archives) })

	if opts.Hosts {
		for _, h := range api.ArchiveHosts(archives) {
			r.printer.Line(h)
		}
		return nil
	}
	for _, a := range archives {
		r.printer.Archive(a)
	}
	return nil
}

func (r *Runner) runSnapshots(ctx context.Context, urls []string, opts Options) error {
	if r.Wayback == nil {
		return fmt.Errorf("no wayback client configured")
	}

	raw := !opts.Rendered
	for inputURL, snapshots := range r.Wayback.QueryBatch(ctx, urls, opts.Limit, opts.MatchCodes) {
		stored := make([]models.SnapshotRecord, 0, len(snapshots))

		for _, snap := range snapshots {
			playbackURL := r.Wayback.SnapshotURL(snap, raw)
			stored = append(stored, models.SnapshotRecord{
				InputURL:    inputURL,
				Original:    snap.Original(),
				Timestamp:   snap.Timestamp(),
				StatusCode:  snap.StatusCode(),
				MimeType:    snap.MimeType(),
				PlaybackURL: playbackURL,
			})

			if !opts.Dump {
				r.printer.Snapshot(playbackURL, snap.StatusCode())
				continue
			}
			if res := r.Wayback.Dump(ctx, playbackURL); res.OK() {
				r.printer.Line(res.Value)
			}
		}

		r.save(func(s Store) (int, error) { return s.InsertSnapshots(stored) })
	}

	return nil
}

// save runs fn against the store, if any. Failures are logged, never returned.
func (r *Runner) save(fn func(Store) (int, error)) {
	if r.Store == nil {
		return
	}
	n, err := fn(r.Store)
	if err != nil {
		r.Logger.Error("Failed to save results", "err", err)
		return
	}
	r.Logger.Debug("Saved results", "inserted", n)
}
