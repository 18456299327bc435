// Package syncer drives the ArcGIS-to-database reconciliation pipeline.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/gridwatch/gridwatch/internal/alerting"
	"github.com/gridwatch/gridwatch/internal/arcgis"
	"github.com/gridwatch/gridwatch/internal/metrics"
	"github.com/gridwatch/gridwatch/internal/models"
	"github.com/gridwatch/gridwatch/internal/storage"
)

// ErrSyncInProgress is returned when a pass is requested while another is
// still running. Passes are serialized; the pipeline does not support
// concurrent writers.
var ErrSyncInProgress = errors.New("sync already in progress")

// FeatureSource fetches the full external feature set.
type FeatureSource interface {
	FetchAllFeatures(ctx context.Context) ([]arcgis.Feature, error)
}

// Result holds the counters accumulated over one sync pass.
type Result struct {
	Processed     int `json:"processed"`
	Created       int `json:"created"`
	Updated       int `json:"updated"`
	Skipped       int `json:"skipped"`
	AlertsCreated int `json:"alerts_created"`
}

// Syncer runs full synchronization passes: fetch, map, upsert by object id,
// derive alerts, suppress duplicates, persist.
type Syncer struct {
	source  FeatureSource
	store   storage.Storage
	running atomic.Bool
}

// New creates a syncer over the given source and store.
func New(source FeatureSource, store storage.Storage) *Syncer {
	return &Syncer{source: source, store: store}
}

// Run executes one full sync pass. Per-feature failures (mapping or
// persistence) are logged, counted as skipped and never abort the pass; only
// source unavailability does. A second concurrent call returns
// ErrSyncInProgress.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer s.running.Store(false)

	start := time.Now()
	result, err := s.run(ctx)
	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.SyncRunsTotal.WithLabelValues("ok").Inc()

	log.Printf("sync completed in %v: %d processed, %d created, %d updated, %d skipped, %d alerts",
		time.Since(start).Round(time.Millisecond),
		result.Processed, result.Created, result.Updated, result.Skipped, result.AlertsCreated)
	return result, nil
}

func (s *Syncer) run(ctx context.Context) (*Result, error) {
	features, err := s.source.FetchAllFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch features: %w", err)
	}
	log.Printf("sync started: %d features fetched", len(features))

	result := &Result{}
	for _, feature := range features {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.Processed++
		metrics.SyncFeaturesProcessed.Inc()

		if err := s.reconcile(ctx, feature, result); err != nil {
			result.Skipped++
			metrics.SyncFeaturesSkipped.Inc()
			log.Printf("sync: skipping feature: %v", err)
		}
	}

	return result, nil
}

// reconcile upserts one feature and raises its alerts.
func (s *Syncer) reconcile(ctx context.Context, feature arcgis.Feature, result *Result) error {
	record, err := arcgis.MapFeature(feature)
	if err != nil {
		return err
	}

	existing, err := s.store.Transformers().GetByObjectID(ctx, record.ObjectID)
	if err != nil {
		return fmt.Errorf("lookup object id %d: %w", record.ObjectID, err)
	}

	var stored *models.Transformer
	if existing != nil {
		stored, err = s.store.Transformers().Update(ctx, existing.ID, record)
		if err != nil {
			return fmt.Errorf("update object id %d: %w", record.ObjectID, err)
		}
		if stored == nil {
			return fmt.Errorf("update object id %d: record vanished", record.ObjectID)
		}
		result.Updated++
		metrics.TransformersUpdated.Inc()
	} else {
		stored = record
		if err := s.store.Transformers().Create(ctx, stored); err != nil {
			return fmt.Errorf("create object id %d: %w", record.ObjectID, err)
		}
		result.Created++
		metrics.TransformersCreated.Inc()
	}

	// Alerts are re-evaluated on every pass, not just on create, so a
	// transformer that degrades after first observation still raises them.
	raised, err := s.raiseAlerts(ctx, stored)
	if err != nil {
		return err
	}
	result.AlertsCreated += raised
	return nil
}

// raiseAlerts persists derived candidates, suppressing any whose type
// already has an unresolved alert on the transformer.
func (s *Syncer) raiseAlerts(ctx context.Context, t *models.Transformer) (int, error) {
	candidates := alerting.Derive(t)
	if len(candidates) == 0 {
		return 0, nil
	}

	existing, err := s.store.Alerts().ListByTransformer(ctx, t.ID)
	if err != nil {
		return 0, fmt.Errorf("list alerts for transformer %d: %w", t.ID, err)
	}

	unresolved := make(map[models.AlertType]bool)
	for _, a := range existing {
		if !a.Resolved {
			unresolved[a.Type] = true
		}
	}

	raised := 0
	for _, candidate := range candidates {
		if unresolved[candidate.Type] {
			continue
		}
		candidate.CreatedAt = time.Now()
		if err := s.store.Alerts().Create(ctx, candidate); err != nil {
			return raised, fmt.Errorf("create %s alert for transformer %d: %w", candidate.Type, t.ID, err)
		}
		unresolved[candidate.Type] = true
		raised++
		metrics.AlertsRaised.WithLabelValues(string(candidate.Type)).Inc()
	}
	return raised, nil
}
