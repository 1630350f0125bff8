package archive

import (
	"time"

	"github.com/pithecene-io/hookchain/types"
)

// toRecordMap converts an event envelope to the archive storage record.
// Partition keys (chain, day, run_id, event_type) are embedded in each
// record so lode's HiveLayout can route it.
func toRecordMap(e *types.EventEnvelope, cfg Config) map[string]any {
	return map[string]any{
		"contract_version": e.ContractVersion,
		"event_id":         e.EventID,
		"seq":              e.Seq,
		"ts":               e.Ts.UTC().Format(time.RFC3339Nano),
		"hook":             e.Hook,
		"position":         e.Position,
		"attempt":          e.Attempt,
		"payload":          e.Payload,

		// Partition keys (used by lode HiveLayout)
		"chain":      cfg.Chain,
		"day":        cfg.Day,
		"run_id":     e.RunID,
		"event_type": string(e.Type),
	}
}
