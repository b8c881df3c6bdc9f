// model/log_test.go
package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewParsedLogs(t *testing.T) {
	now := time.Now()
	seq := func(i int) *int { return &i }

	t.Run("TimestampStrategyRequiresTimestamps", func(t *testing.T) {
		entries := []LogEntry{
			{EntryID: "e1", AgentID: "a1", Action: "work", Timestamp: &now},
			{EntryID: "e2", AgentID: "a1", Action: "rest"},
		}
		_, err := NewParsedLogs(entries, TemporalTimestamp)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "e2")
	})

	t.Run("SequenceStrategyRequiresSequenceNumbers", func(t *testing.T) {
		entries := []LogEntry{
			{EntryID: "e1", AgentID: "a1", Action: "work"},
		}
		_, err := NewParsedLogs(entries, TemporalSequence)
		assert.Error(t, err)
	})

	t.Run("UnknownStrategy", func(t *testing.T) {
		_, err := NewParsedLogs([]LogEntry{{EntryID: "e1", SequenceNumber: seq(0)}}, "epoch")
		assert.Error(t, err)
	})

	t.Run("ValidSet", func(t *testing.T) {
		entries := []LogEntry{
			{EntryID: "e1", AgentID: "a1", Action: "work", SequenceNumber: seq(0)},
			{EntryID: "e2", AgentID: "a2", Action: "rest", SequenceNumber: seq(1)},
		}
		logs, err := NewParsedLogs(entries, TemporalSequence)
		assert.NoError(t, err)
		assert.Equal(t, 2, logs.TotalCount)
	})
}

func TestAgentsFirstObservedOrder(t *testing.T) {
	seq := func(i int) *int { return &i }
	logs, err := NewParsedLogs([]LogEntry{
		{EntryID: "e1", AgentID: "b", Action: "x", SequenceNumber: seq(0)},
		{EntryID: "e2", AgentID: "a", Action: "y", SequenceNumber: seq(1)},
		{EntryID: "e3", AgentID: "b", Action: "z", SequenceNumber: seq(2)},
	}, TemporalSequence)
	assert.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, logs.Agents())
}

func TestActionsByAgentOrdersBySequence(t *testing.T) {
	seq := func(i int) *int { return &i }
	logs, err := NewParsedLogs([]LogEntry{
		{EntryID: "e1", AgentID: "a", Action: "third", SequenceNumber: seq(9)},
		{EntryID: "e2", AgentID: "a", Action: "first", SequenceNumber: seq(1)},
		{EntryID: "e3", AgentID: "a", Action: "second", SequenceNumber: seq(5)},
	}, TemporalSequence)
	assert.NoError(t, err)

	actions := logs.ActionsByAgent()["a"]
	assert.Equal(t, "first", actions[0].Action)
	assert.Equal(t, "second", actions[1].Action)
	assert.Equal(t, "third", actions[2].Action)
}

func TestSortedEntriesByTimestamp(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(m int) *time.Time {
		ts := base.Add(time.Duration(m) * time.Minute)
		return &ts
	}
	logs, err := NewParsedLogs([]LogEntry{
		{EntryID: "late", AgentID: "a", Action: "x", Timestamp: at(10)},
		{EntryID: "early", AgentID: "a", Action: "y", Timestamp: at(1)},
	}, TemporalTimestamp)
	assert.NoError(t, err)

	sorted := logs.SortedEntries()
	assert.Equal(t, "early", sorted[0].EntryID)
	assert.Equal(t, "late", sorted[1].EntryID)
}

func TestTemporalMarker(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	seq := 7
	entry := LogEntry{EntryID: "e1", Timestamp: &ts, SequenceNumber: &seq}

	assert.Equal(t, "2024-03-01T10:00:00Z", entry.TemporalMarker(TemporalTimestamp))
	assert.Equal(t, 7, entry.TemporalMarker(TemporalSequence))
	assert.Nil(t, LogEntry{}.TemporalMarker(TemporalSequence))
}
