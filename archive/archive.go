// Package archive exports run telemetry to a Hive-partitioned lode dataset.
//
// Partition keys: chain/day/run_id/event_type. The archive is an optional
// secondary sink alongside the journal; a run never fails because its
// archive write did.
package archive

import (
	"context"
	"time"

	"github.com/pithecene-io/hookchain/telemetry"
	"github.com/pithecene-io/hookchain/types"
)

// DatasetID is the fixed lode dataset name for hookchain telemetry.
const DatasetID = "hookchain"

// DeriveDay computes the partition day from run start time.
// Format: YYYY-MM-DD in UTC.
func DeriveDay(startTime time.Time) string {
	return startTime.UTC().Format("2006-01-02")
}

// Config holds archive partition configuration. All keys are required.
type Config struct {
	// Dataset is the lode dataset ID (normally DatasetID).
	Dataset string
	// Chain is the partition key for the chain name.
	Chain string
	// Day is the partition key derived from run start time (YYYY-MM-DD UTC).
	Day string
	// RunID is the partition key for the run identifier.
	RunID string
}

// Client abstracts the lode storage client.
// Real implementations connect to lode; stubs are used for testing.
type Client interface {
	// WriteEvents writes a batch of events to the archive.
	// Must preserve ordering within the batch.
	WriteEvents(ctx context.Context, dataset, runID string, events []*types.EventEnvelope) error

	// Close releases client resources.
	Close() error
}

// Sink is a lode-backed implementation of telemetry.Sink.
type Sink struct {
	config Config
	client Client
}

// NewSink creates a new archive sink.
func NewSink(config Config, client Client) *Sink {
	return &Sink{
		config: config,
		client: client,
	}
}

// WriteEvents implements telemetry.Sink.
func (s *Sink) WriteEvents(ctx context.Context, events []*types.EventEnvelope) error {
	return s.client.WriteEvents(ctx, s.config.Dataset, s.config.RunID, events)
}

// Close implements telemetry.Sink.
func (s *Sink) Close() error {
	return s.client.Close()
}

// Verify Sink implements telemetry.Sink.
var _ telemetry.Sink = (*Sink)(nil)

// StubClient is a test client that accepts writes without persisting.
type StubClient struct {
	Writes []StubWrite
	Closed bool
}

// StubWrite is a recorded event write for testing.
type StubWrite struct {
	Dataset string
	RunID   string
	Events  []*types.EventEnvelope
}

// NewStubClient creates a new stub client.
func NewStubClient() *StubClient {
	return &StubClient{}
}

// WriteEvents implements Client.
func (c *StubClient) WriteEvents(_ context.Context, dataset, runID string, events []*types.EventEnvelope) error {
	c.Writes = append(c.Writes, StubWrite{
		Dataset: dataset,
		RunID:   runID,
		Events:  events,
	})
	return nil
}

// Close implements Client.
func (c *StubClient) Close() error {
	c.Closed = true
	return nil
}

// Verify StubClient implements Client.
var _ Client = (*StubClient)(nil)
