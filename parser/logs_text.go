// parser/logs_text.go
package parser

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MZain-ul-Abideen/MAS-Explainability/config"
	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
	helper_util "github.com/MZain-ul-Abideen/MAS-Explainability/util/helper"
)

// Pattern bank for free-text logs, tried in order from most to least
// structured. Named groups carry the extracted fields.
var textLogPatterns = []*regexp.Regexp{
	// [agent] [context] action  (JaCaMo/Moise console style)
	regexp.MustCompile(`^\[(?P<agent_id>[^\]]+)\]\s+\[(?P<context>[^\]]+)\]\s+(?P<action>.+)$`),
	// [agent] action description
	regexp.MustCompile(`^\[(?P<agent_id>[^\]]+)\]\s+(?P<action>.+)$`),
	// timestamp | agent | action | metadata
	regexp.MustCompile(`^(?P<timestamp>[^|]+)\s*\|\s*(?P<agent_id>[^|]+)\s*\|\s*(?P<action>[^|]+)(?:\s*\|\s*(?P<metadata>.*))?$`),
	// [timestamp] agent: action (metadata)
	regexp.MustCompile(`^\[(?P<timestamp>[^\]]+)\]\s*(?P<agent_id>\S+):\s*(?P<action>\S+)(?:\s+(?P<metadata>.*))?$`),
	// timestamp agent action metadata
	regexp.MustCompile(`^(?P<timestamp>\S+\s+\S+)\s+(?P<agent_id>\S+)\s+(?P<action>.+)$`),
	// agent action description
	regexp.MustCompile(`^(?P<agent_id>\S+)\s+(?P<action>.+)$`),
}

var (
	parenPattern = regexp.MustCompile(`\(([^)]+)\)`)
	kvPattern    = regexp.MustCompile(`(\w+)=([^\s,)]+)`)
	opPattern    = regexp.MustCompile(`for operation:\s*(\w+)`)
	opEqPattern  = regexp.MustCompile(`for op=(\w+)`)
)

type textLogLine struct {
	lineNum   int
	agentID   string
	action    string
	timestamp string
	metadata  string
	context   string
}

// ParseLogsText reads a free-text execution log by matching each line
// against the pattern bank. Lines that match no pattern are dropped; comment
// lines (leading #) are ignored.
func ParseLogsText(path string) (model.ParsedLogs, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ParsedLogs{}, fmt.Errorf("reading log file: %w", err)
	}
	defer f.Close()

	var rawLines []textLogLine
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if matched, ok := matchTextLine(scanner.Text(), lineNum); ok {
			rawLines = append(rawLines, matched)
		}
	}
	if err := scanner.Err(); err != nil {
		return model.ParsedLogs{}, fmt.Errorf("reading log file %s: %w", path, err)
	}
	if len(rawLines) == 0 {
		return model.ParsedLogs{}, apperrors.ErrNoLogEntries
	}

	strategy := detectTextTemporalStrategy(rawLines)

	entries := make([]model.LogEntry, 0, len(rawLines))
	for idx, raw := range rawLines {
		entry := textLineToEntry(raw, idx, strategy)
		if strategy == model.TemporalTimestamp && entry.Timestamp == nil {
			logger.Warn("Dropping entry without timestamp under timestamp strategy",
				zap.Int("line", raw.lineNum))
			continue
		}
		entries = append(entries, entry)
	}

	logger.Info("Parsed text execution log",
		zap.String("file", path),
		zap.Int("entries", len(entries)),
		zap.String("temporalStrategy", string(strategy)))

	return model.NewParsedLogs(entries, strategy)
}

func matchTextLine(line string, lineNum int) (textLogLine, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return textLogLine{}, false
	}

	for _, pattern := range textLogPatterns {
		match := pattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		raw := textLogLine{lineNum: lineNum}
		for i, name := range pattern.SubexpNames() {
			if i == 0 || i >= len(match) {
				continue
			}
			switch name {
			case "agent_id":
				raw.agentID = normalizeAgentID(match[i])
			case "action":
				raw.action = cleanAction(match[i])
			case "timestamp":
				raw.timestamp = strings.TrimSpace(match[i])
			case "metadata":
				raw.metadata = strings.TrimSpace(match[i])
			case "context":
				raw.context = strings.TrimSpace(match[i])
			}
		}
		return raw, true
	}
	return textLogLine{}, false
}

func normalizeAgentID(agentID string) string {
	agentID = strings.TrimSpace(agentID)
	if strings.HasPrefix(agentID, "[") && strings.HasSuffix(agentID, "]") {
		agentID = agentID[1 : len(agentID)-1]
	}
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return "unknown"
	}
	return agentID
}

func cleanAction(action string) string {
	action = strings.TrimSuffix(strings.TrimSpace(action), ".")
	if action == "" {
		return "unknown"
	}
	return action
}

func detectTextTemporalStrategy(lines []textLogLine) model.TemporalStrategy {
	threshold := config.GetFloat64("parser.timestampThreshold")
	count := 0
	for _, l := range lines {
		if l.timestamp != "" && helper_util.ParseFlexibleTime(l.timestamp) != nil {
			count++
		}
	}
	if float64(count) >= float64(len(lines))*threshold {
		return model.TemporalTimestamp
	}
	return model.TemporalSequence
}

func textLineToEntry(raw textLogLine, index int, strategy model.TemporalStrategy) model.LogEntry {
	var timestamp *time.Time
	if raw.timestamp != "" {
		timestamp = helper_util.ParseFlexibleTime(raw.timestamp)
	}

	action, embedded := extractActionMetadata(raw.action)

	metadata := embedded
	if metadata == nil {
		metadata = make(map[string]any)
	}
	if raw.metadata != "" {
		metadata["raw_metadata"] = raw.metadata
	}
	if raw.context != "" {
		metadata["context"] = raw.context
	}
	metadata["line_num"] = raw.lineNum

	var sequence *int
	if strategy == model.TemporalSequence {
		seq := index
		sequence = &seq
	}

	return model.LogEntry{
		EntryID:        fmt.Sprintf("entry_%d", index),
		AgentID:        raw.agentID,
		Action:         action,
		Timestamp:      timestamp,
		SequenceNumber: sequence,
		Metadata:       metadata,
	}
}

// extractActionMetadata pulls key=value pairs out of parentheticals and
// recognizes the "for operation: X" / "for op=X" forms, e.g.
// "Registered wa_wheels1 for operation: assemble_wheels (energy=7, time=3)".
func extractActionMetadata(action string) (string, map[string]any) {
	metadata := make(map[string]any)

	for _, paren := range parenPattern.FindAllStringSubmatch(action, -1) {
		for _, kv := range kvPattern.FindAllStringSubmatch(paren[1], -1) {
			metadata[kv[1]] = kv[2]
		}
	}

	if m := opPattern.FindStringSubmatch(action); m != nil {
		metadata["operation"] = m[1]
	} else if m := opEqPattern.FindStringSubmatch(action); m != nil {
		metadata["operation"] = m[1]
	}

	if len(metadata) == 0 {
		return action, nil
	}
	return action, metadata
}
