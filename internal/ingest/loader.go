package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

const (
	userAgent           = "Mozilla/5.0"
	defaultPollInterval = 30 * time.Second
	// downloadParallelism bounds concurrent bulk download pipelines. COPY
	// inserts to the same table are safe to interleave.
	downloadParallelism = 2
)

// Loader drives the bulk download pipeline: request generation, status
// polling, zip download, and CSV COPY into Postgres.
type Loader struct {
	db           *sql.DB
	client       *http.Client
	endpoint     string
	logger       *slog.Logger
	events       EventPublisher
	pollInterval time.Duration
}

// NewLoader constructs a loader. events may be nil; run events are then
// discarded.
func NewLoader(db *sql.DB, endpoint string, logger *slog.Logger, events EventPublisher) (*Loader, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &Loader{
		db:           db,
		client:       &http.Client{Timeout: 5 * time.Minute},
		endpoint:     endpoint,
		logger:       logger,
		events:       events,
		pollInterval: defaultPollInterval,
	}, nil
}

// downloadResponse is the subset of the bulk download response the loader
// consumes.
type downloadResponse struct {
	FileURL   string `json:"file_url"`
	StatusURL string `json:"status_url"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Run requests, downloads, and loads all award files covering the window
// ending at (year, month). Payload pipelines run concurrently, bounded by
// downloadParallelism.
func (l *Loader) Run(ctx context.Context, year, month, months, periodMonths int) error {
	payloads, err := AwardsPayloads(year, month, months, periodMonths)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	l.emit(ctx, Event{RunID: runID, Action: EventRunStarted, Timestamp: time.Now()})
	l.logger.InfoContext(ctx, "starting ingest run",
		"run_id", runID,
		"payloads", len(payloads),
		"year", year,
		"month", month,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadParallelism)
	for _, payload := range payloads {
		payload := payload
		g.Go(func() error {
			return l.runPayload(gctx, runID, payload)
		})
	}
	if err := g.Wait(); err != nil {
		l.emit(ctx, Event{RunID: runID, Action: EventRunFailed, Error: err.Error(), Timestamp: time.Now()})
		return err
	}

	l.emit(ctx, Event{RunID: runID, Action: EventRunFinished, Timestamp: time.Now()})
	l.logger.InfoContext(ctx, "ingest run complete", "run_id", runID)
	return nil
}

func (l *Loader) runPayload(ctx context.Context, runID string, payload AwardsPayload) error {
	resp, err := l.requestDownload(ctx, payload)
	if err != nil {
		return err
	}

	l.logger.InfoContext(ctx, "download requested",
		"run_id", runID,
		"date_range", payload.Filters.DateRange,
		"status_url", resp.StatusURL,
	)

	if err := l.awaitFinished(ctx, resp.StatusURL); err != nil {
		return err
	}

	archive, err := l.fetchZip(ctx, resp.FileURL)
	if err != nil {
		return err
	}
	defer func() {
		_ = archive.Close()
		_ = os.Remove(archive.Name())
	}()

	return l.loadArchive(ctx, runID, archive.Name())
}

func (l *Loader) requestDownload(ctx context.Context, payload AwardsPayload) (*downloadResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal download payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request bulk download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bulk download request returned %s", resp.Status)
	}

	var out downloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode download response: %w", err)
	}
	if out.FileURL == "" || out.StatusURL == "" {
		return nil, fmt.Errorf("download response missing file_url or status_url")
	}
	return &out, nil
}

// awaitFinished polls the status endpoint until the download is ready.
func (l *Loader) awaitFinished(ctx context.Context, statusURL string) error {
	for {
		status, err := l.fetchStatus(ctx, statusURL)
		if err != nil {
			return err
		}
		switch status {
		case "finished":
			return nil
		case "failed":
			return fmt.Errorf("bulk download failed upstream")
		}

		l.logger.DebugContext(ctx, "download not ready", "status", status)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

func (l *Loader) fetchStatus(ctx context.Context, statusURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch download status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("status request returned %s", resp.Status)
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}
	return out.Status, nil
}

// fetchZip streams the archive to a temp file; archives run to gigabytes so
// they never go through memory.
func (l *Loader) fetchZip(ctx context.Context, fileURL string) (*os.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download archive: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("archive download returned %s", resp.Status)
	}

	tmp, err := os.CreateTemp("", "awards-*.zip")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("write archive: %w", err)
	}
	return tmp, nil
}

func (l *Loader) loadArchive(ctx context.Context, runID, path string) error {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()

	for _, member := range archive.File {
		if !strings.HasSuffix(member.Name, ".csv") {
			continue
		}
		f, err := member.Open()
		if err != nil {
			return fmt.Errorf("open archive member %s: %w", member.Name, err)
		}
		rows, err := l.loadCSV(ctx, member.Name, f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("load %s: %w", member.Name, err)
		}

		l.emit(ctx, Event{RunID: runID, Action: EventFileLoaded, FileName: member.Name, Rows: rows, Timestamp: time.Now()})
		l.logger.InfoContext(ctx, "file loaded", "run_id", runID, "file", member.Name, "rows", rows)
	}
	return nil
}

// loadCSV bulk-inserts one CSV member via COPY. Columns are matched by
// header name against the destination table's raw column set; unrecognized
// columns in the extract are skipped, and empty strings load as NULL.
func (l *Loader) loadCSV(ctx context.Context, fname string, r io.Reader) (int64, error) {
	table, rawColumns, err := TableForFile(fname)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(rawColumns))
	for _, c := range rawColumns {
		known[c] = true
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}

	var columns []string
	var indexes []int
	for i, name := range header {
		if known[name] {
			columns = append(columns, name)
			indexes = append(indexes, i)
		}
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("no recognized columns in %s", fname)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin copy tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return 0, fmt.Errorf("prepare copy: %w", err)
	}

	var rows int64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv record: %w", err)
		}

		args := make([]any, len(indexes))
		for i, idx := range indexes {
			if idx >= len(record) || record[idx] == "" {
				args[i] = nil
				continue
			}
			args[i] = record[idx]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("copy record: %w", err)
		}
		rows++
	}

	// final Exec flushes the copy buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("close copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit copy tx: %w", err)
	}
	return rows, nil
}

// emit publishes a run event, logging but never failing on publish errors.
func (l *Loader) emit(ctx context.Context, event Event) {
	if err := l.events.Emit(ctx, event); err != nil {
		l.logger.WarnContext(ctx, "ingest event publish failed",
			"run_id", event.RunID,
			"action", event.Action,
			"error", err,
		)
	}
}
