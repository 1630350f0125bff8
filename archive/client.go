package archive

import (
	"context"

	"github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/hookchain/types"
)

// LodeClient is a real lode-backed implementation of Client.
// Uses lode's HiveLayout with partition keys: chain/day/run_id/event_type.
type LodeClient struct {
	dataset lode.Dataset
	config  Config
}

// NewLodeClient creates a lode client with filesystem storage.
// The root parameter is the base directory for Hive-partitioned storage.
func NewLodeClient(cfg Config, root string) (*LodeClient, error) {
	return NewLodeClientWithFactory(cfg, lode.NewFSFactory(root))
}

// NewLodeClientWithFactory creates a lode client with a custom store
// factory. Use lode.NewMemoryFactory() for testing.
func NewLodeClientWithFactory(cfg Config, factory lode.StoreFactory) (*LodeClient, error) {
	ds, err := lode.NewDataset(
		lode.DatasetID(cfg.Dataset),
		factory,
		lode.WithHiveLayout("chain", "day", "run_id", "event_type"),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
	if err != nil {
		return nil, err
	}

	return &LodeClient{
		dataset: ds,
		config:  cfg,
	}, nil
}

// WriteEvents writes a batch of events to the archive, one record per
// event, partitioned by event_type.
func (c *LodeClient) WriteEvents(ctx context.Context, _, _ string, events []*types.EventEnvelope) error {
	if len(events) == 0 {
		return nil
	}

	records := make([]any, 0, len(events))
	for _, e := range events {
		records = append(records, toRecordMap(e, c.config))
	}

	_, err := c.dataset.Write(ctx, records, lode.Metadata{})
	return err
}

// Close releases client resources.
func (c *LodeClient) Close() error {
	// Dataset doesn't require explicit close in current lode API
	return nil
}

// Verify LodeClient implements Client.
var _ Client = (*LodeClient)(nil)
