// audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// VerdictLog is the append-only audit document indexed for every verdict a
// reasoning run produces. One document per (run, norm, agent).
type VerdictLog struct {
	RunID      string          `json:"run_id"`
	RecordedAt time.Time       `json:"recorded_at"`
	NormID     string          `json:"norm_id"`
	AgentID    string          `json:"agent_id"`
	Status     string          `json:"status"`
	Reasoning  string          `json:"reasoning"`
	Evidence   json.RawMessage `json:"evidence,omitempty"`
}
