// model/log.go
package model

import (
	"fmt"
	"sort"
	"time"
)

// TemporalStrategy selects the single authoritative temporal marker for a
// log set. It is fixed once at parse time and never changes afterwards.
type TemporalStrategy string

const (
	TemporalTimestamp TemporalStrategy = "timestamp"
	TemporalSequence  TemporalStrategy = "sequence"
)

// LogEntry is one observed event from the execution log.
type LogEntry struct {
	EntryID        string         `json:"entry_id"`
	AgentID        string         `json:"agent_id"`
	Action         string         `json:"action"`
	Timestamp      *time.Time     `json:"timestamp,omitempty"`
	SequenceNumber *int           `json:"sequence_number,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// TemporalMarker returns the entry's ordering marker under the given
// strategy. The parsed log set guarantees the marker is present.
func (e LogEntry) TemporalMarker(strategy TemporalStrategy) any {
	if strategy == TemporalTimestamp && e.Timestamp != nil {
		return e.Timestamp.Format(time.RFC3339)
	}
	if e.SequenceNumber != nil {
		return *e.SequenceNumber
	}
	return nil
}

// ParsedLogs is the validated log set handed to the reasoning engine.
type ParsedLogs struct {
	Entries          []LogEntry       `json:"entries"`
	TemporalStrategy TemporalStrategy `json:"temporal_strategy"`
	TotalCount       int              `json:"total_count"`
}

// NewParsedLogs builds a ParsedLogs and enforces temporal consistency:
// under the timestamp strategy every entry must carry a timestamp, under the
// sequence strategy every entry must carry a sequence number. A violation is
// fatal here, at construction time; the reasoning engine never re-validates.
func NewParsedLogs(entries []LogEntry, strategy TemporalStrategy) (ParsedLogs, error) {
	for _, e := range entries {
		switch strategy {
		case TemporalTimestamp:
			if e.Timestamp == nil {
				return ParsedLogs{}, fmt.Errorf("temporal strategy is timestamp but entry %s lacks one", e.EntryID)
			}
		case TemporalSequence:
			if e.SequenceNumber == nil {
				return ParsedLogs{}, fmt.Errorf("temporal strategy is sequence but entry %s lacks a sequence number", e.EntryID)
			}
		default:
			return ParsedLogs{}, fmt.Errorf("unknown temporal strategy: %s", strategy)
		}
	}
	return ParsedLogs{Entries: entries, TemporalStrategy: strategy, TotalCount: len(entries)}, nil
}

// Agents returns the distinct agent IDs in first-observed order. This order
// drives the orchestrator's inner loop and is part of the deterministic
// output contract.
func (p *ParsedLogs) Agents() []string {
	seen := make(map[string]struct{}, len(p.Entries))
	agents := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		if _, ok := seen[e.AgentID]; ok {
			continue
		}
		seen[e.AgentID] = struct{}{}
		agents = append(agents, e.AgentID)
	}
	return agents
}

// ActionsByAgent indexes entries per agent, each history ordered ascending
// by the authoritative temporal marker.
func (p *ParsedLogs) ActionsByAgent() map[string][]LogEntry {
	byAgent := make(map[string][]LogEntry)
	for _, e := range p.Entries {
		byAgent[e.AgentID] = append(byAgent[e.AgentID], e)
	}
	for agent := range byAgent {
		sortEntries(byAgent[agent], p.TemporalStrategy)
	}
	return byAgent
}

// SortedEntries returns all entries ordered by the temporal marker.
func (p *ParsedLogs) SortedEntries() []LogEntry {
	out := make([]LogEntry, len(p.Entries))
	copy(out, p.Entries)
	sortEntries(out, p.TemporalStrategy)
	return out
}

func sortEntries(entries []LogEntry, strategy TemporalStrategy) {
	sort.SliceStable(entries, func(i, j int) bool {
		if strategy == TemporalTimestamp {
			return entries[i].Timestamp.Before(*entries[j].Timestamp)
		}
		return *entries[i].SequenceNumber < *entries[j].SequenceNumber
	})
}
