// profiler/profiler.go
package profiler

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

var registeredPattern = regexp.MustCompile(`Registered\s+(\w+)`)

// SystemProfiler aggregates the canonical records and the verdict set into
// one navigable view of the whole run. Pure aggregation: every number and
// list in the profile is derivable from its inputs.
type SystemProfiler struct {
	norms   model.ParsedNorms
	logs    model.ParsedLogs
	results *model.ComplianceResults
}

func NewSystemProfiler(norms model.ParsedNorms, logs model.ParsedLogs, results *model.ComplianceResults) *SystemProfiler {
	return &SystemProfiler{norms: norms, logs: logs, results: results}
}

// BuildProfile assembles the complete system profile.
func (p *SystemProfiler) BuildProfile() *model.SystemProfile {
	logger.Info("Building system profile",
		zap.Int("norms", p.norms.TotalCount),
		zap.Int("entries", p.logs.TotalCount))

	agents := p.buildAgentProfiles()

	roles := make(map[string][]string)
	for _, agentID := range p.logs.Agents() {
		if profile, ok := agents[agentID]; ok && profile.InferredRole != "" {
			roles[profile.InferredRole] = append(roles[profile.InferredRole], agentID)
		}
	}

	normsByType := make(map[string]int)
	normsByRole := make(map[string][]string)
	for _, norm := range p.norms.Norms {
		normsByType[string(norm.NormType)]++
		if norm.Role != "" {
			normsByRole[norm.Role] = append(normsByRole[norm.Role], norm.NormID)
		}
	}

	missions := p.buildMissionProfiles()

	complianceSummary := make(map[string]int)
	for status, count := range p.results.StatusCounts() {
		complianceSummary[string(status)] = count
	}

	return &model.SystemProfile{
		TotalAgents:       len(agents),
		Agents:            agents,
		TotalRoles:        len(roles),
		Roles:             roles,
		TotalNorms:        p.norms.TotalCount,
		NormsByType:       normsByType,
		NormsByRole:       normsByRole,
		TotalMissions:     len(missions),
		Missions:          missions,
		TotalEvents:       p.logs.TotalCount,
		TemporalStrategy:  p.logs.TemporalStrategy,
		ExecutionTimeline: p.buildTimeline(),
		ComplianceSummary: complianceSummary,
		Interactions:      p.detectInteractions(),
	}
}

func (p *SystemProfiler) buildAgentProfiles() map[string]model.AgentProfile {
	profiles := make(map[string]model.AgentProfile)
	byAgent := p.logs.ActionsByAgent()

	for _, agentID := range p.logs.Agents() {
		entries := byAgent[agentID]

		actionCounts := make(map[string]int)
		for _, e := range entries {
			actionCounts[e.Action]++
		}

		var first, last any
		if len(entries) > 0 {
			first = entries[0].TemporalMarker(p.logs.TemporalStrategy)
			last = entries[len(entries)-1].TemporalMarker(p.logs.TemporalStrategy)
		}

		mapping := p.results.RoleMapping[agentID]

		var applicableNorms []string
		compliance := make(map[string]string)
		for _, verdict := range p.results.ComplianceResults {
			if verdict.AgentID != agentID || verdict.Status == model.StatusNotApplicable {
				continue
			}
			applicableNorms = append(applicableNorms, verdict.NormID)
			compliance[verdict.NormID] = string(verdict.Status)
		}

		profiles[agentID] = model.AgentProfile{
			AgentID:         agentID,
			InferredRole:    mapping.InferredRole,
			RoleConfidence:  mapping.Confidence,
			TotalActions:    len(entries),
			UniqueActions:   len(actionCounts),
			ActionSummary:   topActions(actionCounts, 10),
			ApplicableNorms: applicableNorms,
			Compliance:      compliance,
			FirstAppearance: first,
			LastAppearance:  last,
		}
	}

	return profiles
}

// topActions keeps only the most frequent actions to bound profile size.
func topActions(counts map[string]int, limit int) map[string]int {
	if len(counts) <= limit {
		return counts
	}
	type pair struct {
		action string
		count  int
	}
	pairs := make([]pair, 0, len(counts))
	for a, c := range counts {
		pairs = append(pairs, pair{a, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].action < pairs[j].action
	})
	top := make(map[string]int, limit)
	for _, p := range pairs[:limit] {
		top[p.action] = p.count
	}
	return top
}

func (p *SystemProfiler) buildMissionProfiles() map[string]model.MissionProfile {
	missions := make(map[string]model.MissionProfile)

	for _, norm := range p.norms.Norms {
		if norm.Mission == "" {
			continue
		}
		mission, ok := missions[norm.Mission]
		if !ok {
			mission = model.MissionProfile{
				MissionName:       norm.Mission,
				FulfillmentStatus: make(map[string]string),
			}
		}
		if norm.Role != "" && !contains(mission.RequiredRoles, norm.Role) {
			mission.RequiredRoles = append(mission.RequiredRoles, norm.Role)
		}
		mission.AssociatedNorms = append(mission.AssociatedNorms, norm.NormID)
		missions[norm.Mission] = mission
	}

	for _, verdict := range p.results.ComplianceResults {
		if verdict.Status == model.StatusNotApplicable {
			continue
		}
		norm := p.norms.FindNorm(verdict.NormID)
		if norm == nil || norm.Mission == "" {
			continue
		}
		mission := missions[norm.Mission]
		if !contains(mission.AgentsAssigned, verdict.AgentID) {
			mission.AgentsAssigned = append(mission.AgentsAssigned, verdict.AgentID)
		}
		mission.FulfillmentStatus[verdict.AgentID] = string(verdict.Status)
		missions[norm.Mission] = mission
	}

	return missions
}

func (p *SystemProfiler) buildTimeline() []model.TimelineEvent {
	sorted := p.logs.SortedEntries()
	timeline := make([]model.TimelineEvent, 0, len(sorted))
	for _, entry := range sorted {
		timeline = append(timeline, model.TimelineEvent{
			EntryID:        entry.EntryID,
			AgentID:        entry.AgentID,
			Action:         entry.Action,
			TemporalMarker: entry.TemporalMarker(p.logs.TemporalStrategy),
			Metadata:       entry.Metadata,
		})
	}
	return timeline
}

// detectInteractions infers agent-to-agent interactions from the log. A
// target agent is extracted from "Registered <agent>" phrasing or from
// metadata keys that conventionally name a counterpart.
func (p *SystemProfiler) detectInteractions() []model.InteractionProfile {
	type key struct {
		source, target, interactionType string
	}
	counts := make(map[key]int)
	evidence := make(map[key][]string)
	var order []key

	for _, entry := range p.logs.Entries {
		target := extractTargetAgent(entry.Action, entry.Metadata)
		if target == "" {
			continue
		}

		k := key{entry.AgentID, target, classifyInteraction(entry.Action)}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
		if len(evidence[k]) < 5 {
			evidence[k] = append(evidence[k], entry.EntryID)
		}
	}

	interactions := make([]model.InteractionProfile, 0, len(order))
	for _, k := range order {
		interactions = append(interactions, model.InteractionProfile{
			SourceAgent:     k.source,
			TargetAgent:     k.target,
			InteractionType: k.interactionType,
			Frequency:       counts[k],
			Evidence:        evidence[k],
		})
	}
	return interactions
}

func extractTargetAgent(action string, metadata map[string]any) string {
	if m := registeredPattern.FindStringSubmatch(action); m != nil {
		return m[1]
	}
	for _, key := range []string{"target", "to", "agent", "assigned_to"} {
		if v, ok := metadata[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func classifyInteraction(action string) string {
	lower := strings.ToLower(action)
	switch {
	case strings.Contains(lower, "register"):
		return "registration"
	case strings.Contains(lower, "send"), strings.Contains(lower, "deliver"):
		return "delivery"
	case strings.Contains(lower, "request"), strings.Contains(lower, "ask"):
		return "request"
	}
	return "coordination"
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
