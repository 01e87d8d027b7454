package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Submission outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// RequisitionMetrics records material request submissions, barcode scans and
// catalog index rebuilds.
type RequisitionMetrics struct {
	submissions        *Counter
	submissionDuration *Histogram
	scans              *Counter
	catalogRebuilds    *Counter
	catalogEntries     metric.Int64Gauge
	catalogBuildTime   *Histogram
}

// NewRequisitionMetrics registers the requisition instruments on meter.
func NewRequisitionMetrics(meter metric.Meter) (*RequisitionMetrics, error) {
	m := &RequisitionMetrics{}
	var err error

	if m.submissions, err = NewCounter(meter,
		"requisition_submissions_total",
		"Material request writes sent upstream, by operation and outcome",
		"{submission}",
	); err != nil {
		return nil, err
	}
	if m.submissionDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "requisition_submission_duration_seconds",
		Description: "Time from submit to upstream reply",
		Unit:        "s",
		Boundaries:  UpstreamDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.scans, err = NewCounter(meter,
		"requisition_scans_total",
		"Barcode scans, by whether the code resolved",
		"{scan}",
	); err != nil {
		return nil, err
	}
	if m.catalogRebuilds, err = NewCounter(meter,
		"catalog_index_rebuilds_total",
		"Catalog index rebuilds",
		"{rebuild}",
	); err != nil {
		return nil, err
	}
	if m.catalogEntries, err = meter.Int64Gauge(
		"catalog_index_entries",
		metric.WithDescription("Entries in the most recent catalog index"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}
	if m.catalogBuildTime, err = NewHistogram(meter, HistogramOpts{
		Name:        "catalog_index_build_duration_seconds",
		Description: "Time to fetch and index the catalog",
		Unit:        "s",
		Boundaries:  UpstreamDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordSubmission records one create, update or delete sent upstream.
func (m *RequisitionMetrics) RecordSubmission(ctx context.Context, clientID, operation, outcome string, d time.Duration) {
	attrs := []attribute.KeyValue{AttrClientID.String(clientID), AttrOperation.String(operation), AttrOutcome.String(outcome)}
	m.submissions.Inc(ctx, attrs...)
	m.submissionDuration.RecordDuration(ctx, d, attrs...)
}

// RecordScan records a barcode lookup.
func (m *RequisitionMetrics) RecordScan(ctx context.Context, clientID string, found bool) {
	m.scans.Inc(ctx, AttrClientID.String(clientID), AttrFound.Bool(found))
}

// RecordCatalogRebuild records a freshly built index.
func (m *RequisitionMetrics) RecordCatalogRebuild(ctx context.Context, clientID string, entries int, d time.Duration) {
	attr := AttrClientID.String(clientID)
	m.catalogRebuilds.Inc(ctx, attr)
	m.catalogEntries.Record(ctx, int64(entries), metric.WithAttributes(attr))
	m.catalogBuildTime.RecordDuration(ctx, d, attr)
}
