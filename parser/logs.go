// parser/logs.go
package parser

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MZain-ul-Abideen/MAS-Explainability/config"
	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
	"github.com/MZain-ul-Abideen/MAS-Explainability/util"
	helper_util "github.com/MZain-ul-Abideen/MAS-Explainability/util/helper"
)

var logFieldAliases = map[string][]string{
	"entry_id":        {"entry_id", "id", "event_id", "log_id", "eventId"},
	"agent_id":        {"agent_id", "agent", "agentId", "actor", "agent_name"},
	"action":          {"action", "event", "activity", "what", "behavior"},
	"timestamp":       {"timestamp", "time", "datetime", "when", "created_at"},
	"sequence_number": {"sequence_number", "sequence", "order", "index", "seq"},
}

var logConsumedKeys = map[string]struct{}{
	"entry_id": {}, "id": {}, "event_id": {}, "log_id": {}, "eventId": {},
	"agent_id": {}, "agent": {}, "agentId": {}, "actor": {}, "agent_name": {},
	"action": {}, "event": {}, "activity": {}, "what": {}, "behavior": {},
	"timestamp": {}, "time": {}, "datetime": {}, "when": {}, "created_at": {},
	"sequence_number": {}, "sequence": {}, "order": {}, "index": {}, "seq": {},
}

func logAliasValue(raw map[string]any, field string) (any, bool) {
	for _, name := range logFieldAliases[field] {
		if v, ok := raw[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// ParseLogs reads an execution log and returns canonical records. Format by
// extension: .json, .csv, or free text (.log, .txt). The temporal strategy
// is detected here and fixed for the life of the log set.
func ParseLogs(path string) (model.ParsedLogs, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseLogsJSON(path)
	case ".csv":
		return parseLogsCSV(path)
	case ".log", ".txt":
		return ParseLogsText(path)
	}
	return model.ParsedLogs{}, fmt.Errorf("%w: %s (supported: .json, .csv, .log, .txt)", apperrors.ErrUnsupportedFormat, filepath.Ext(path))
}

func parseLogsJSON(path string) (model.ParsedLogs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ParsedLogs{}, fmt.Errorf("reading log file: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.ParsedLogs{}, fmt.Errorf("decoding log file %s: %w", path, err)
	}

	var rawLogs []map[string]any
	switch v := raw.(type) {
	case map[string]any:
		if wrapped, ok := v["logs"]; ok {
			rawLogs, err = toRawMaps(wrapped)
		} else if wrapped, ok := v["entries"]; ok {
			rawLogs, err = toRawMaps(wrapped)
		} else {
			rawLogs = []map[string]any{v}
		}
	case []any:
		rawLogs, err = toRawMaps(v)
	default:
		return model.ParsedLogs{}, fmt.Errorf("%w: log file must contain an object or a list", apperrors.ErrInvalidLogEntry)
	}
	if err != nil {
		return model.ParsedLogs{}, err
	}

	return buildParsedLogs(rawLogs)
}

func parseLogsCSV(path string) (model.ParsedLogs, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ParsedLogs{}, fmt.Errorf("reading log file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return model.ParsedLogs{}, fmt.Errorf("decoding CSV log file %s: %w", path, err)
	}
	if len(records) < 2 {
		return model.ParsedLogs{}, apperrors.ErrNoLogEntries
	}

	header := records[0]
	rawLogs := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[strings.TrimSpace(col)] = record[i]
			}
		}
		rawLogs = append(rawLogs, row)
	}

	return buildParsedLogs(rawLogs)
}

// detectTemporalStrategy picks TIMESTAMP when enough raw entries carry a
// parseable timestamp, SEQUENCE otherwise. The threshold is a heuristic
// boundary, not exact semantics.
func detectTemporalStrategy(rawLogs []map[string]any) model.TemporalStrategy {
	if len(rawLogs) == 0 {
		return model.TemporalSequence
	}
	threshold := config.GetFloat64("parser.timestampThreshold")
	count := 0
	for _, raw := range rawLogs {
		if ts := rawTimestamp(raw); ts != nil {
			count++
		}
	}
	if float64(count) >= float64(len(rawLogs))*threshold {
		return model.TemporalTimestamp
	}
	return model.TemporalSequence
}

func rawTimestamp(raw map[string]any) *time.Time {
	v, ok := logAliasValue(raw, "timestamp")
	if !ok {
		return nil
	}
	if s, ok := v.(string); ok {
		return helper_util.ParseFlexibleTime(s)
	}
	return nil
}

func rawSequence(raw map[string]any) *int {
	v, ok := logAliasValue(raw, "sequence_number")
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case int:
		return &n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return &i
		}
	}
	return nil
}

func buildParsedLogs(rawLogs []map[string]any) (model.ParsedLogs, error) {
	strategy := detectTemporalStrategy(rawLogs)

	entries := make([]model.LogEntry, 0, len(rawLogs))
	for idx, raw := range rawLogs {
		entry, err := parseSingleLog(raw, idx, strategy)
		if err == nil {
			err = util.ValidateLogEntry(entry)
		}
		if err != nil {
			logger.Warn("Skipping unparseable log entry",
				zap.Int("index", idx),
				zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return model.ParsedLogs{}, apperrors.ErrNoLogEntries
	}

	return model.NewParsedLogs(entries, strategy)
}

func parseSingleLog(raw map[string]any, index int, strategy model.TemporalStrategy) (model.LogEntry, error) {
	entryID := ""
	if v, ok := logAliasValue(raw, "entry_id"); ok {
		entryID = fmt.Sprintf("%v", v)
	}
	if entryID == "" {
		entryID = fmt.Sprintf("entry_%d", index)
	}

	agentID := ""
	if v, ok := logAliasValue(raw, "agent_id"); ok {
		if s, ok := v.(string); ok {
			agentID = strings.TrimSpace(s)
		}
	}
	action := ""
	if v, ok := logAliasValue(raw, "action"); ok {
		if s, ok := v.(string); ok {
			action = strings.TrimSpace(s)
		}
	}

	timestamp := rawTimestamp(raw)
	sequence := rawSequence(raw)

	switch strategy {
	case model.TemporalSequence:
		if sequence == nil {
			seq := index
			sequence = &seq
		}
	case model.TemporalTimestamp:
		if timestamp == nil {
			return model.LogEntry{}, fmt.Errorf("%w: entry %s lacks a parseable timestamp under timestamp strategy", apperrors.ErrTemporalInconsistency, entryID)
		}
	}

	metadata := make(map[string]any)
	for k, v := range raw {
		if _, consumed := logConsumedKeys[k]; consumed {
			continue
		}
		metadata[k] = v
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	return model.LogEntry{
		EntryID:        entryID,
		AgentID:        agentID,
		Action:         action,
		Timestamp:      timestamp,
		SequenceNumber: sequence,
		Metadata:       metadata,
	}, nil
}
