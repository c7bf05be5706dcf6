package ingest

import (
	"github.com/Veraticus/partflow/internal/model"
)

// FileStats counts the outcome of one source file.
type FileStats struct {
	Name      string         `json:"name"`
	Hint      model.Category `json:"hint,omitempty"`
	Records   int            `json:"records"`
	Accepted  int            `json:"accepted"`
	Rejected  int            `json:"rejected"`
	Malformed int            `json:"malformed"`
}

// SkippedFile is a source file that could not be used at all.
type SkippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Stats holds the counters of one run. Every well-formed record is either
// accepted or rejected, so Processed == Accepted + Rejected.
type Stats struct {
	RejectedBy       map[model.RejectReason]int `json:"rejected_by"`
	AcceptedBy       map[model.Category]int     `json:"accepted_by"`
	Files            []FileStats                `json:"files"`
	SkippedFiles     []SkippedFile              `json:"skipped_files"`
	Processed        int                        `json:"processed"`
	Accepted         int                        `json:"accepted"`
	Rejected         int                        `json:"rejected"`
	MalformedRecords int                        `json:"malformed_records"`
	Collapsed        int                        `json:"collapsed"`
	FailedBatches    int                        `json:"failed_batches"`
	Persisted        int64                      `json:"persisted"`
}

// NewStats returns empty stats with every rejection reason present.
func NewStats() *Stats {
	s := &Stats{
		RejectedBy:   make(map[model.RejectReason]int),
		AcceptedBy:   make(map[model.Category]int),
		Files:        []FileStats{},
		SkippedFiles: []SkippedFile{},
	}
	for _, reason := range model.AllRejectReasons() {
		s.RejectedBy[reason] = 0
	}
	return s
}

func (s *Stats) accept(category model.Category) {
	s.Processed++
	s.Accepted++
	s.AcceptedBy[category]++
}

func (s *Stats) reject(reason model.RejectReason) {
	s.Processed++
	s.Rejected++
	s.RejectedBy[reason]++
}

// Merge folds other into s. Only the run coordinator calls it.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	s.Processed += other.Processed
	s.Accepted += other.Accepted
	s.Rejected += other.Rejected
	s.MalformedRecords += other.MalformedRecords
	s.Collapsed += other.Collapsed
	s.FailedBatches += other.FailedBatches
	s.Persisted += other.Persisted
	for reason, n := range other.RejectedBy {
		s.RejectedBy[reason] += n
	}
	for category, n := range other.AcceptedBy {
		s.AcceptedBy[category] += n
	}
	s.Files = append(s.Files, other.Files...)
	s.SkippedFiles = append(s.SkippedFiles, other.SkippedFiles...)
}
