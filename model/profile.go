// model/profile.go
package model

// AgentProfile summarizes one agent's observed behavior and standing.
type AgentProfile struct {
	AgentID         string            `json:"agent_id"`
	InferredRole    string            `json:"inferred_role,omitempty"`
	RoleConfidence  Confidence        `json:"role_confidence"`
	TotalActions    int               `json:"total_actions"`
	UniqueActions   int               `json:"unique_actions"`
	ActionSummary   map[string]int    `json:"action_summary"`
	ApplicableNorms []string          `json:"applicable_norms"`
	Compliance      map[string]string `json:"compliance_status"`
	FirstAppearance any               `json:"first_appearance,omitempty"`
	LastAppearance  any               `json:"last_appearance,omitempty"`
}

// MissionProfile summarizes one mission referenced by the norm set.
type MissionProfile struct {
	MissionName       string            `json:"mission_name"`
	RequiredRoles     []string          `json:"required_roles"`
	AssociatedNorms   []string          `json:"associated_norms"`
	AgentsAssigned    []string          `json:"agents_assigned"`
	FulfillmentStatus map[string]string `json:"fulfillment_status"`
}

// InteractionProfile records an inferred agent-to-agent interaction.
type InteractionProfile struct {
	SourceAgent     string   `json:"source_agent"`
	TargetAgent     string   `json:"target_agent,omitempty"`
	InteractionType string   `json:"interaction_type"`
	Frequency       int      `json:"frequency"`
	Evidence        []string `json:"evidence"`
}

// TimelineEvent is one entry of the chronological execution timeline.
type TimelineEvent struct {
	EntryID        string         `json:"entry_id"`
	AgentID        string         `json:"agent_id"`
	Action         string         `json:"action"`
	TemporalMarker any            `json:"temporal_marker,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// SystemProfile is the aggregate view of the whole multi-agent run, built
// from the canonical records and the verdict set.
type SystemProfile struct {
	TotalAgents int                     `json:"total_agents"`
	Agents      map[string]AgentProfile `json:"agents"`

	TotalRoles int                 `json:"total_roles"`
	Roles      map[string][]string `json:"roles"`

	TotalNorms  int                 `json:"total_norms"`
	NormsByType map[string]int      `json:"norms_by_type"`
	NormsByRole map[string][]string `json:"norms_by_role"`

	TotalMissions int                       `json:"total_missions"`
	Missions      map[string]MissionProfile `json:"missions"`

	TotalEvents       int              `json:"total_events"`
	TemporalStrategy  TemporalStrategy `json:"temporal_strategy"`
	ExecutionTimeline []TimelineEvent  `json:"execution_timeline"`

	ComplianceSummary map[string]int `json:"compliance_summary"`

	Interactions []InteractionProfile `json:"interactions"`
}
