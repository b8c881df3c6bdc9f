// parser/norms_test.go
package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseNormsJSON(t *testing.T) {
	t.Run("WrappedList", func(t *testing.T) {
		path := writeFixture(t, "norms.json", `{
			"norms": [
				{"norm_id": "n1", "norm_type": "obligation", "role": "assembler", "mission": "assemble skateboard"},
				{"norm_id": "n2", "norm_type": "prohibition", "action": "overstock"}
			]
		}`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, 2, parsed.TotalCount)
		assert.Equal(t, "n1", parsed.Norms[0].NormID)
		assert.Equal(t, model.NormObligation, parsed.Norms[0].NormType)
		assert.Equal(t, "assembler", parsed.Norms[0].Role)
		assert.Equal(t, "overstock", parsed.Norms[1].Action)
	})

	t.Run("BareList", func(t *testing.T) {
		path := writeFixture(t, "norms.json", `[
			{"norm_id": "n1", "norm_type": "permission", "action": "take break"}
		]`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, parsed.TotalCount)
		assert.Equal(t, model.NormPermission, parsed.Norms[0].NormType)
	})

	t.Run("FieldAliases", func(t *testing.T) {
		path := writeFixture(t, "norms.json", `[
			{"id": "n1", "type": "Obligation", "agent_role": "painter", "goal": "paint skateboard", "when": "after assembly"}
		]`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		norm := parsed.Norms[0]
		assert.Equal(t, "n1", norm.NormID)
		assert.Equal(t, model.NormObligation, norm.NormType)
		assert.Equal(t, "painter", norm.Role)
		assert.Equal(t, "paint skateboard", norm.Mission)
		assert.Equal(t, "after assembly", norm.Condition)
	})

	t.Run("AutoGeneratedIDs", func(t *testing.T) {
		path := writeFixture(t, "norms.json", `[
			{"norm_type": "prohibition", "action": "overstock"},
			{"norm_type": "prohibition", "action": "idle"}
		]`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, "norm_0", parsed.Norms[0].NormID)
		assert.Equal(t, "norm_1", parsed.Norms[1].NormID)
	})

	t.Run("UnknownKeysBecomeMetadata", func(t *testing.T) {
		path := writeFixture(t, "norms.json", `[
			{"norm_id": "n1", "norm_type": "obligation", "action": "report", "priority": "high"}
		]`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, "high", parsed.Norms[0].Metadata["priority"])
	})

	t.Run("InvalidNormsAreSkipped", func(t *testing.T) {
		path := writeFixture(t, "norms.json", `[
			{"norm_id": "bad", "norm_type": "mandate", "action": "x"},
			{"norm_id": "incomplete", "norm_type": "obligation", "role": "assembler"},
			{"norm_id": "good", "norm_type": "obligation", "action": "report"}
		]`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, parsed.TotalCount)
		assert.Equal(t, "good", parsed.Norms[0].NormID)
	})

	t.Run("SingleObject", func(t *testing.T) {
		path := writeFixture(t, "norms.json", `{"norm_id": "n1", "norm_type": "obligation", "action": "report"}`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, parsed.TotalCount)
	})
}

func TestParseNormsYAML(t *testing.T) {
	path := writeFixture(t, "norms.yaml", `
norms:
  - norm_id: n1
    norm_type: obligation
    role: assembler
    mission: assemble skateboard
  - norm_id: n2
    norm_type: permission
    action: take break
`)

	parsed, err := ParseNorms(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, parsed.TotalCount)
	assert.Equal(t, "assemble skateboard", parsed.Norms[0].Mission)
	assert.Equal(t, model.NormPermission, parsed.Norms[1].NormType)
}

func TestParseNormsXML(t *testing.T) {
	t.Run("ExplicitNormTags", func(t *testing.T) {
		path := writeFixture(t, "norms.xml", `<?xml version="1.0"?>
<normative-specification>
  <norm id="n1" type="obligation" role="assembler" mission="assemble_skateboard"/>
  <norm id="n2" type="prohibition" action="overstock"/>
</normative-specification>`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, 2, parsed.TotalCount)
		assert.Equal(t, "n1", parsed.Norms[0].NormID)
		assert.Equal(t, "assembler", parsed.Norms[0].Role)
		assert.Equal(t, model.NormProhibition, parsed.Norms[1].NormType)
	})

	t.Run("TypeInferredFromTag", func(t *testing.T) {
		path := writeFixture(t, "norms.xml", `<?xml version="1.0"?>
<rules>
  <prohibition id="n1" action="overstock"/>
</rules>`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, parsed.TotalCount)
		assert.Equal(t, model.NormProhibition, parsed.Norms[0].NormType)
	})

	t.Run("ChildElementFields", func(t *testing.T) {
		path := writeFixture(t, "norms.xml", `<?xml version="1.0"?>
<norms>
  <norm>
    <id>n1</id>
    <role>painter</role>
    <mission>paint skateboard</mission>
    <priority>high</priority>
  </norm>
</norms>`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, parsed.TotalCount)
		norm := parsed.Norms[0]
		assert.Equal(t, "n1", norm.NormID)
		assert.Equal(t, "painter", norm.Role)
		assert.Equal(t, model.NormObligation, norm.NormType)
		assert.Equal(t, "high", norm.Metadata["priority"])
	})

	t.Run("ElementsWithoutContentAreDropped", func(t *testing.T) {
		path := writeFixture(t, "norms.xml", `<?xml version="1.0"?>
<norms>
  <norm id="empty"/>
  <norm id="n1" action="report"/>
</norms>`)

		parsed, err := ParseNorms(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, parsed.TotalCount)
		assert.Equal(t, "n1", parsed.Norms[0].NormID)
	})
}

func TestParseNormsUnsupportedFormat(t *testing.T) {
	path := writeFixture(t, "norms.toml", `norms = []`)

	_, err := ParseNorms(path)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}
