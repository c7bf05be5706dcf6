package ingest

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/Veraticus/partflow/internal/model"
	"github.com/Veraticus/partflow/internal/storage"
)

// BatchReport is the serializable form of a storage.BatchResult.
type BatchReport struct {
	Error    string `json:"error,omitempty"`
	Index    int    `json:"index"`
	Size     int    `json:"size"`
	Affected int64  `json:"affected"`
}

// Report is the end-of-run audit.
type Report struct {
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Stats      *Stats            `json:"stats"`
	ID         string            `json:"run_id"`
	Source     string            `json:"source"`
	Batches    []BatchReport     `json:"batches"`
	Components []model.Component `json:"-"`
	DryRun     bool              `json:"dry_run"`
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// JSON encodes the report.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// Record converts the report into the persisted audit row.
func (r *Report) Record() (storage.RunRecord, error) {
	stats, err := json.Marshal(r.Stats)
	if err != nil {
		return storage.RunRecord{}, fmt.Errorf("failed to encode stats: %w", err)
	}

	return storage.RunRecord{
		ID:            r.ID,
		Source:        r.Source,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		Processed:     r.Stats.Processed,
		Accepted:      r.Stats.Accepted,
		Rejected:      r.Stats.Rejected,
		Persisted:     r.Stats.Persisted,
		FailedBatches: r.Stats.FailedBatches,
		DryRun:        r.DryRun,
		Stats:         stats,
	}, nil
}

func batchReports(results []storage.BatchResult) []BatchReport {
	out := make([]BatchReport, len(results))
	for i, br := range results {
		out[i] = BatchReport{Index: br.Index, Size: br.Size, Affected: br.Affected}
		if br.Err != nil {
			out[i].Error = br.Err.Error()
		}
	}
	return out
}
