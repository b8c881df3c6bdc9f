// model/query.go
package model

// QueryType classifies a user question so retrieval can pick a strategy.
type QueryType string

const (
	QueryAgent      QueryType = "agent"
	QueryNorm       QueryType = "norm"
	QueryMission    QueryType = "mission"
	QueryCompliance QueryType = "compliance"
	QueryTimeline   QueryType = "timeline"
	QueryOverview   QueryType = "overview"
)

// EvidencePacket is the structured evidence set retrieved for one query.
// It contains only literal facts from the persisted artifacts; no generated
// text enters the packet.
type EvidencePacket struct {
	Query     string    `json:"query"`
	QueryType QueryType `json:"query_type"`

	RelevantAgents       []AgentProfile       `json:"relevant_agents"`
	RelevantNorms        []Norm               `json:"relevant_norms"`
	RelevantMissions     []MissionProfile     `json:"relevant_missions"`
	RelevantLogEntries   []LogEntry           `json:"relevant_log_entries"`
	RelevantCompliance   []ComplianceVerdict  `json:"relevant_compliance"`
	RelevantInteractions []InteractionProfile `json:"relevant_interactions"`

	SystemOverview map[string]any `json:"system_overview,omitempty"`

	RetrievalStrategy   string `json:"retrieval_strategy"`
	TotalItemsRetrieved int    `json:"total_items_retrieved"`
}

// CountItems recomputes and stores the total item count.
func (p *EvidencePacket) CountItems() int {
	p.TotalItemsRetrieved = len(p.RelevantAgents) +
		len(p.RelevantNorms) +
		len(p.RelevantMissions) +
		len(p.RelevantLogEntries) +
		len(p.RelevantCompliance) +
		len(p.RelevantInteractions)
	return p.TotalItemsRetrieved
}

// Explanation is the natural-language answer produced by the external
// language model for one query, together with the evidence it consumed.
type Explanation struct {
	Query        string         `json:"query"`
	Answer       string         `json:"answer"`
	EvidenceUsed map[string]int `json:"evidence_used,omitempty"`
	TokenUsage   map[string]any `json:"token_usage,omitempty"`
}

// PipelineSummary reports the outcome of one full analysis run.
type PipelineSummary struct {
	RunID            string           `json:"run_id"`
	NormCount        int              `json:"norm_count"`
	LogEntryCount    int              `json:"log_entry_count"`
	AgentCount       int              `json:"agent_count"`
	TemporalStrategy TemporalStrategy `json:"temporal_strategy"`
	StatusCounts     map[string]int   `json:"status_counts"`
	ArtifactsDir     string           `json:"artifacts_dir"`
}
