// parser/logs_text_test.go
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

func TestParseLogsText(t *testing.T) {
	t.Run("BracketedAgentStyle", func(t *testing.T) {
		path := writeFixture(t, "run.log", `# factory run
[assembler_1] assemble skateboard.
[painter_1] paint skateboard
`)

		parsed, err := ParseLogs(path)
		assert.NoError(t, err)
		assert.Equal(t, model.TemporalSequence, parsed.TemporalStrategy)
		assert.Equal(t, 2, parsed.TotalCount)
		assert.Equal(t, "assembler_1", parsed.Entries[0].AgentID)
		// Trailing periods are stripped from actions.
		assert.Equal(t, "assemble skateboard", parsed.Entries[0].Action)
		assert.Equal(t, 0, *parsed.Entries[0].SequenceNumber)
	})

	t.Run("BracketedAgentWithContext", func(t *testing.T) {
		path := writeFixture(t, "run.log", `[wb_1] [workshop] Registered wa_wheels1 for operation: assemble_wheels (energy=7, time=3)
`)

		parsed, err := ParseLogs(path)
		assert.NoError(t, err)
		entry := parsed.Entries[0]
		assert.Equal(t, "wb_1", entry.AgentID)
		assert.Equal(t, "workshop", entry.Metadata["context"])
		assert.Equal(t, "assemble_wheels", entry.Metadata["operation"])
		assert.Equal(t, "7", entry.Metadata["energy"])
		assert.Equal(t, "3", entry.Metadata["time"])
		assert.Equal(t, 1, entry.Metadata["line_num"])
	})

	t.Run("PipeDelimitedWithTimestamps", func(t *testing.T) {
		path := writeFixture(t, "run.log", `2024-03-01 10:00:00 | assembler_1 | assemble skateboard
2024-03-01 10:05:00 | painter_1 | paint skateboard | energy=4
`)

		parsed, err := ParseLogs(path)
		assert.NoError(t, err)
		assert.Equal(t, model.TemporalTimestamp, parsed.TemporalStrategy)
		assert.NotNil(t, parsed.Entries[0].Timestamp)
		assert.Equal(t, "energy=4", parsed.Entries[1].Metadata["raw_metadata"])
	})

	t.Run("BlankAndCommentLinesIgnored", func(t *testing.T) {
		path := writeFixture(t, "run.log", `
# comment

[a1] work
`)

		parsed, err := ParseLogs(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, parsed.TotalCount)
	})

	t.Run("TxtExtension", func(t *testing.T) {
		path := writeFixture(t, "run.txt", "[a1] work\n")

		parsed, err := ParseLogs(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, parsed.TotalCount)
	})
}
