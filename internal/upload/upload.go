package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/repcoach/internal/ingest"
)

// LastTCPSyncKey is the sync_state key of the last completed TCP sync date.
const LastTCPSyncKey = "tcp_last_workouts_sync"

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	// TCP mode
	TCPChunks    int
	TCPBytesSent int64

	// Server-side outcome summed over every accepted upload.
	Ingest ingest.Result
}

// Uploader sends Health Auto Export JSON files and Alpha Progression CSV
// exports from a directory to the RepCoach server, skipping files already
// sent unchanged.
type Uploader struct {
	client   *Client
	state    *StateDB
	dir      string
	dryRun   bool
	log      *slog.Logger
	progress io.Writer
	stats    Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client:   client,
		state:    state,
		dir:      dir,
		dryRun:   dryRun,
		log:      log,
		progress: os.Stderr,
	}
}

// kind classifies an export file by extension.
func kind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "hae"
	case ".csv":
		return "alpha"
	default:
		return ""
	}
}

// Run walks the directory and uploads every new or changed export.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	err := filepath.WalkDir(u.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || kind(path) == "" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		u.stats.FilesTotal++
		if err := u.uploadFile(ctx, path); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			u.stats.FilesErrored++
			u.log.Warn("upload failed", "file", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return &u.stats, fmt.Errorf("walking %s: %w", u.dir, err)
	}
	return &u.stats, nil
}

func (u *Uploader) uploadFile(ctx context.Context, path string) error {
	rel, err := filepath.Rel(u.dir, path)
	if err != nil {
		rel = path
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	done, err := u.state.IsUploaded(rel, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if done {
		u.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	k := kind(path)
	if u.dryRun {
		if k == "hae" && !json.Valid(data) {
			return fmt.Errorf("invalid JSON")
		}
		u.log.Info("dry-run: would upload", "file", rel, "kind", k, "bytes", len(data))
		u.stats.FilesUploaded++
		return nil
	}

	var result *ingest.Result
	if k == "hae" {
		result, err = u.client.SendHAE(ctx, data)
	} else {
		result, err = u.client.SendAlpha(ctx, data)
	}
	if err != nil {
		return err
	}
	u.stats.Ingest.Add(result)
	u.stats.FilesUploaded++

	if err := u.state.MarkUploaded(rel, info.Size(), hash); err != nil {
		u.log.Warn("failed to record upload", "file", rel, "error", err)
	}
	u.log.Info("uploaded", "file", rel, "events", result.EventsInserted, "sets", result.SetsInserted)
	return nil
}

// TCPStart returns the end date of the last completed TCP sync, or fallback
// when no sync has been recorded. Overlapping chunks are deduplicated by the
// server.
func (u *Uploader) TCPStart(fallback time.Time) time.Time {
	v, err := u.state.GetSyncState(LastTCPSyncKey)
	if err != nil || v == "" {
		return fallback
	}
	t, err := time.ParseInLocation("2006-01-02", v, fallback.Location())
	if err != nil {
		return fallback
	}
	return t
}

// RunTCP pulls workouts from the Health Auto Export TCP server in chunks of
// chunkDays and forwards each chunk to the ingest endpoint.
func (u *Uploader) RunTCP(ctx context.Context, hae *HAEClient, start, end time.Time, chunkDays int) (*Stats, error) {
	if chunkDays <= 0 {
		chunkDays = 7
	}
	chunk := time.Duration(chunkDays) * 24 * time.Hour

	total := 0
	for cs := start; cs.Before(end); cs = cs.Add(chunk) {
		total++
	}

	step := 0
	for cs := start; cs.Before(end); cs = cs.Add(chunk) {
		ce := cs.Add(chunk)
		if ce.After(end) {
			ce = end
		}
		step++
		fmt.Fprintf(u.progress, "\r[%d/%d] workouts %s → %s    ",
			step, total, cs.Format("2006-01-02"), ce.Format("2006-01-02"))

		result, err := hae.QueryWorkoutsWithRetry(ctx, cs, ce, u.log)
		if err != nil {
			if ctx.Err() != nil {
				return &u.stats, ctx.Err()
			}
			u.log.Warn("failed to query workouts, skipping",
				"from", cs.Format("2006-01-02"),
				"to", ce.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		if len(result) == 0 || string(result) == "null" {
			continue
		}

		if u.dryRun {
			u.log.Info("dry-run: would forward workouts", "bytes", len(result))
		} else {
			res, err := u.client.SendHAE(ctx, result)
			if err != nil {
				return &u.stats, fmt.Errorf("forwarding workouts: %w", err)
			}
			u.stats.Ingest.Add(res)
		}
		u.stats.TCPChunks++
		u.stats.TCPBytesSent += int64(len(result))
	}
	fmt.Fprintln(u.progress)

	if !u.dryRun {
		if err := u.state.SetSyncState(LastTCPSyncKey, end.Format("2006-01-02")); err != nil {
			u.log.Warn("failed to save sync state", "error", err)
		}
	}
	return &u.stats, nil
}
