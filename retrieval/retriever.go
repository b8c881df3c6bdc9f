// retrieval/retriever.go
package retrieval

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

var (
	normIDPattern  = regexp.MustCompile(`\b(n\d+|norm_?\d+)\b`)
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
)

// queryEntities holds references extracted from the raw query text.
type queryEntities struct {
	agents   []string
	roles    []string
	missions []string
	norms    []string
}

// EvidenceRetriever answers ad-hoc queries by filtering the persisted
// artifacts with keyword matching and entity extraction. No generated text
// enters the packet; everything in it is a literal fact from a prior run.
type EvidenceRetriever struct {
	norms   model.ParsedNorms
	logs    model.ParsedLogs
	results *model.ComplianceResults
	profile *model.SystemProfile
}

func NewEvidenceRetriever(norms model.ParsedNorms, logs model.ParsedLogs, results *model.ComplianceResults, profile *model.SystemProfile) *EvidenceRetriever {
	return &EvidenceRetriever{norms: norms, logs: logs, results: results, profile: profile}
}

func normalizeText(s string) string {
	return strings.TrimSpace(nonWordPattern.ReplaceAllString(strings.ToLower(s), ""))
}

// Retrieve classifies the query, extracts entity references and assembles
// the evidence packet with the matching strategy.
func (r *EvidenceRetriever) Retrieve(query string) *model.EvidencePacket {
	entities := r.extractEntities(query)
	queryType := r.classifyQuery(query, entities)

	packet := &model.EvidencePacket{
		Query:     query,
		QueryType: queryType,
	}

	switch queryType {
	case model.QueryAgent:
		r.retrieveAgentEvidence(packet, entities)
		packet.RetrievalStrategy = fmt.Sprintf("Agent-focused retrieval for: %s", strings.Join(entities.agents, ", "))
	case model.QueryNorm:
		r.retrieveNormEvidence(packet, entities)
		packet.RetrievalStrategy = "Norm-focused retrieval"
	case model.QueryMission:
		r.retrieveMissionEvidence(packet, entities)
		packet.RetrievalStrategy = fmt.Sprintf("Mission-focused retrieval for: %s", strings.Join(entities.missions, ", "))
	case model.QueryCompliance:
		r.retrieveComplianceEvidence(packet, entities, query)
		packet.RetrievalStrategy = "Compliance-focused retrieval"
	case model.QueryTimeline:
		r.retrieveTimelineEvidence(packet, entities)
		packet.RetrievalStrategy = "Timeline-focused retrieval"
	default:
		r.retrieveOverviewEvidence(packet)
		packet.RetrievalStrategy = "System overview retrieval"
	}

	packet.CountItems()

	logger.Debug("Retrieved evidence",
		zap.String("queryType", string(queryType)),
		zap.Int("items", packet.TotalItemsRetrieved))

	return packet
}

func (r *EvidenceRetriever) extractEntities(query string) queryEntities {
	queryNorm := normalizeText(query)
	entities := queryEntities{}

	for agentID := range r.profile.Agents {
		if strings.Contains(queryNorm, normalizeText(agentID)) {
			entities.agents = append(entities.agents, agentID)
		}
	}
	for role := range r.profile.Roles {
		if strings.Contains(queryNorm, normalizeText(role)) {
			entities.roles = append(entities.roles, role)
		}
	}
	for mission := range r.profile.Missions {
		if strings.Contains(queryNorm, normalizeText(mission)) {
			entities.missions = append(entities.missions, mission)
		}
	}
	entities.norms = normIDPattern.FindAllString(strings.ToLower(query), -1)

	return entities
}

func (r *EvidenceRetriever) classifyQuery(query string, entities queryEntities) model.QueryType {
	lower := strings.ToLower(query)

	if containsAny(lower, "violat", "fulfill", "comply", "complian", "satisfy", "follow") {
		return model.QueryCompliance
	}
	if containsAny(lower, "when", "first", "last", "before", "after", "sequence", "order", "timeline") {
		return model.QueryTimeline
	}
	if len(entities.agents) > 0 {
		return model.QueryAgent
	}
	if len(entities.norms) > 0 || strings.Contains(lower, "norm") || strings.Contains(lower, "rule") {
		return model.QueryNorm
	}
	if len(entities.missions) > 0 || strings.Contains(lower, "mission") || strings.Contains(lower, "goal") {
		return model.QueryMission
	}
	return model.QueryOverview
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (r *EvidenceRetriever) retrieveAgentEvidence(packet *model.EvidencePacket, entities queryEntities) {
	targets := append([]string{}, entities.agents...)
	if len(targets) == 0 {
		for _, role := range entities.roles {
			targets = append(targets, r.profile.Roles[role]...)
		}
	}

	targetSet := toSet(targets)

	for _, agentID := range targets {
		if profile, ok := r.profile.Agents[agentID]; ok {
			packet.RelevantAgents = append(packet.RelevantAgents, profile)
		}
	}
	for _, entry := range r.logs.Entries {
		if _, ok := targetSet[entry.AgentID]; ok {
			packet.RelevantLogEntries = append(packet.RelevantLogEntries, entry)
		}
	}
	for _, verdict := range r.results.ComplianceResults {
		if _, ok := targetSet[verdict.AgentID]; ok && verdict.Status != model.StatusNotApplicable {
			packet.RelevantCompliance = append(packet.RelevantCompliance, verdict)
		}
	}
	for _, interaction := range r.profile.Interactions {
		_, srcHit := targetSet[interaction.SourceAgent]
		_, tgtHit := targetSet[interaction.TargetAgent]
		if srcHit || tgtHit {
			packet.RelevantInteractions = append(packet.RelevantInteractions, interaction)
		}
	}
}

func (r *EvidenceRetriever) retrieveNormEvidence(packet *model.EvidencePacket, entities queryEntities) {
	targetIDs := append([]string{}, entities.norms...)
	if len(targetIDs) == 0 {
		for _, norm := range r.norms.Norms {
			if contains(entities.roles, norm.Role) || contains(entities.missions, norm.Mission) {
				targetIDs = append(targetIDs, norm.NormID)
			}
		}
	}
	targetSet := toSet(targetIDs)
	all := len(targetIDs) == 0

	for _, norm := range r.norms.Norms {
		if _, ok := targetSet[norm.NormID]; ok || all {
			packet.RelevantNorms = append(packet.RelevantNorms, norm)
		}
	}

	seenAgents := map[string]struct{}{}
	for _, verdict := range r.results.ComplianceResults {
		_, targeted := targetSet[verdict.NormID]
		if (!targeted && !all) || verdict.Status == model.StatusNotApplicable {
			continue
		}
		packet.RelevantCompliance = append(packet.RelevantCompliance, verdict)
		if _, seen := seenAgents[verdict.AgentID]; !seen {
			if profile, ok := r.profile.Agents[verdict.AgentID]; ok {
				packet.RelevantAgents = append(packet.RelevantAgents, profile)
				seenAgents[verdict.AgentID] = struct{}{}
			}
		}
	}
}

func (r *EvidenceRetriever) retrieveMissionEvidence(packet *model.EvidencePacket, entities queryEntities) {
	targets := entities.missions
	if len(targets) == 0 {
		for mission := range r.profile.Missions {
			targets = append(targets, mission)
		}
	}
	targetSet := toSet(targets)

	for _, mission := range targets {
		if profile, ok := r.profile.Missions[mission]; ok {
			packet.RelevantMissions = append(packet.RelevantMissions, profile)
		}
	}

	missionNormIDs := map[string]struct{}{}
	for _, norm := range r.norms.Norms {
		if _, ok := targetSet[norm.Mission]; ok {
			packet.RelevantNorms = append(packet.RelevantNorms, norm)
			missionNormIDs[norm.NormID] = struct{}{}
		}
	}

	seenAgents := map[string]struct{}{}
	for _, mission := range targets {
		profile, ok := r.profile.Missions[mission]
		if !ok {
			continue
		}
		for _, agentID := range profile.AgentsAssigned {
			if _, seen := seenAgents[agentID]; seen {
				continue
			}
			if agentProfile, ok := r.profile.Agents[agentID]; ok {
				packet.RelevantAgents = append(packet.RelevantAgents, agentProfile)
				seenAgents[agentID] = struct{}{}
			}
		}
	}

	for _, verdict := range r.results.ComplianceResults {
		if _, ok := missionNormIDs[verdict.NormID]; ok && verdict.Status != model.StatusNotApplicable {
			packet.RelevantCompliance = append(packet.RelevantCompliance, verdict)
		}
	}
}

func (r *EvidenceRetriever) retrieveComplianceEvidence(packet *model.EvidencePacket, entities queryEntities, query string) {
	lower := strings.ToLower(query)

	var targetStatus model.ComplianceStatus
	if strings.Contains(lower, "violat") {
		targetStatus = model.StatusViolated
	} else if containsAny(lower, "fulfill", "satisfy", "comply") {
		targetStatus = model.StatusFulfilled
	}

	agentSet := toSet(entities.agents)
	normSet := toSet(entities.norms)
	seenNorms := map[string]struct{}{}
	seenAgents := map[string]struct{}{}
	seenEntries := map[string]struct{}{}

	for _, verdict := range r.results.ComplianceResults {
		if verdict.Status == model.StatusNotApplicable {
			continue
		}
		if targetStatus != "" && verdict.Status != targetStatus {
			continue
		}
		if len(agentSet) > 0 {
			if _, ok := agentSet[verdict.AgentID]; !ok {
				continue
			}
		}
		if len(normSet) > 0 {
			if _, ok := normSet[verdict.NormID]; !ok {
				continue
			}
		}

		packet.RelevantCompliance = append(packet.RelevantCompliance, verdict)

		if _, seen := seenNorms[verdict.NormID]; !seen {
			if norm := r.norms.FindNorm(verdict.NormID); norm != nil {
				packet.RelevantNorms = append(packet.RelevantNorms, *norm)
			}
			seenNorms[verdict.NormID] = struct{}{}
		}
		if _, seen := seenAgents[verdict.AgentID]; !seen {
			if profile, ok := r.profile.Agents[verdict.AgentID]; ok {
				packet.RelevantAgents = append(packet.RelevantAgents, profile)
			}
			seenAgents[verdict.AgentID] = struct{}{}
		}
		for _, ev := range verdict.Evidence {
			if _, seen := seenEntries[ev.EntryID]; seen {
				continue
			}
			seenEntries[ev.EntryID] = struct{}{}
			for _, entry := range r.logs.Entries {
				if entry.EntryID == ev.EntryID {
					packet.RelevantLogEntries = append(packet.RelevantLogEntries, entry)
					break
				}
			}
		}
	}
}

func (r *EvidenceRetriever) retrieveTimelineEvidence(packet *model.EvidencePacket, entities queryEntities) {
	agentSet := toSet(entities.agents)

	if len(agentSet) > 0 {
		for _, entry := range r.logs.SortedEntries() {
			if _, ok := agentSet[entry.AgentID]; ok {
				packet.RelevantLogEntries = append(packet.RelevantLogEntries, entry)
			}
		}
	} else {
		sorted := r.logs.SortedEntries()
		if len(sorted) > 100 {
			sorted = sorted[:100]
		}
		packet.RelevantLogEntries = sorted
	}

	seenAgents := map[string]struct{}{}
	for _, entry := range packet.RelevantLogEntries {
		if _, seen := seenAgents[entry.AgentID]; seen {
			continue
		}
		seenAgents[entry.AgentID] = struct{}{}
		if profile, ok := r.profile.Agents[entry.AgentID]; ok {
			packet.RelevantAgents = append(packet.RelevantAgents, profile)
		}
	}
}

func (r *EvidenceRetriever) retrieveOverviewEvidence(packet *model.EvidencePacket) {
	packet.SystemOverview = map[string]any{
		"total_agents":       r.profile.TotalAgents,
		"total_norms":        r.profile.TotalNorms,
		"total_missions":     r.profile.TotalMissions,
		"total_events":       r.profile.TotalEvents,
		"roles":              r.profile.Roles,
		"norms_by_type":      r.profile.NormsByType,
		"compliance_summary": r.profile.ComplianceSummary,
	}

	count := 0
	for _, agentID := range r.logs.Agents() {
		if count >= 10 {
			break
		}
		if profile, ok := r.profile.Agents[agentID]; ok {
			packet.RelevantAgents = append(packet.RelevantAgents, profile)
			count++
		}
	}
	packet.RelevantNorms = r.norms.Norms
	for _, mission := range r.profile.Missions {
		packet.RelevantMissions = append(packet.RelevantMissions, mission)
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
