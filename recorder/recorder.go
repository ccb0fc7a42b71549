// Package recorder turns one poll sample into one stored activity record.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"activitymonitor/classify"
	"activitymonitor/entity"
	"activitymonitor/rules"
)

// ErrStorage wraps every failure to append a record.
var ErrStorage = errors.New("recorder: storage write failed")

// Appender persists one record and returns its id.
type Appender interface {
	AppendActivity(ctx context.Context, rec entity.ActivityRecord) (int64, error)
}

// RuleSource hands out the current rule set.
type RuleSource interface {
	Rules() *rules.RuleSet
}

// Recorder classifies, remaps and tags a sample, then appends exactly one
// record. It never merges samples.
type Recorder struct {
	store  Appender
	rules  RuleSource
	logger *slog.Logger

	mu         sync.RWMutex
	quantum    int
	classifier classify.Classifier
}

// New returns a Recorder writing quantumSeconds per record.
func New(store Appender, rs RuleSource, quantumSeconds int, ideDetection bool, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if quantumSeconds <= 0 {
		quantumSeconds = entity.DefaultQuantum
	}
	return &Recorder{
		store:      store,
		rules:      rs,
		logger:     logger,
		quantum:    quantumSeconds,
		classifier: classify.Classifier{IDEDetection: ideDetection},
	}
}

// Configure applies a new polling interval and IDE detection toggle.
func (r *Recorder) Configure(quantumSeconds int, ideDetection bool) {
	if quantumSeconds <= 0 {
		quantumSeconds = entity.DefaultQuantum
	}
	r.mu.Lock()
	r.quantum = quantumSeconds
	r.classifier = classify.Classifier{IDEDetection: ideDetection}
	r.mu.Unlock()
}

// Preview builds the record Record would store, without storing it.
func (r *Recorder) Preview(s entity.Sample) entity.ActivityRecord {
	r.mu.RLock()
	quantum, classifier := r.quantum, r.classifier
	r.mu.RUnlock()

	var rs *rules.RuleSet
	if r.rules != nil {
		rs = r.rules.Rules()
	}

	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res := classifier.Classify(s.ProcessName, s.WindowTitle, rs)
	rec := entity.ActivityRecord{
		Timestamp:       ts.Truncate(time.Second),
		WindowTitle:     classify.CleanTitle(s.WindowTitle),
		ProcessName:     s.ProcessName,
		Label:           rules.Remap(res.Label, s.ProcessName, s.WindowTitle, rs),
		Category:        res.Category,
		IsActive:        !s.IsIdle && !s.CameraAway,
		DurationSeconds: quantum,
	}
	if tag, ok := rules.MatchTag(s.ProcessName, s.WindowTitle, rs); ok {
		rec.ProjectTag = tag.Name
	}
	return rec
}

// Record stores one record for the sample and returns it with its row ID.
// A storage failure is logged and returned wrapped in ErrStorage; nothing
// is retried.
func (r *Recorder) Record(ctx context.Context, s entity.Sample) (entity.ActivityRecord, error) {
	rec := r.Preview(s)
	id, err := r.store.AppendActivity(ctx, rec)
	if err != nil {
		r.logger.Error("failed to record activity", "label", rec.Label, "process", rec.ProcessName, "error", err)
		return entity.ActivityRecord{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	rec.ID = id
	r.logger.Debug("recorded activity", "id", id, "label", rec.Label, "active", rec.IsActive)
	return rec, nil
}
