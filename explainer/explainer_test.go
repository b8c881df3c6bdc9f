// explainer/explainer_test.go
package explainer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func fixturePacket() *model.EvidencePacket {
	packet := &model.EvidencePacket{
		Query:     "Which norms were violated?",
		QueryType: model.QueryCompliance,
		RelevantNorms: []model.Norm{
			{NormID: "n2", NormType: model.NormProhibition, Action: "overstock"},
		},
		RelevantCompliance: []model.ComplianceVerdict{
			{NormID: "n2", AgentID: "painter_1", Status: model.StatusViolated},
		},
		RetrievalStrategy: "Compliance-focused retrieval",
	}
	packet.CountItems()
	return packet
}

func TestGenerateExplanation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotReq inferenceRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			json.NewEncoder(w).Encode([]inferenceResponse{{GeneratedText: "  painter_1 violated n2 by overstocking.  "}})
		}))
		defer server.Close()

		explainer := NewExplainer(server.URL, "test/model", "secret")
		explanation, err := explainer.GenerateExplanation(context.Background(), fixturePacket())

		assert.NoError(t, err)
		assert.Equal(t, "/test/model", gotPath)
		assert.Equal(t, "Bearer secret", gotAuth)
		assert.Equal(t, "painter_1 violated n2 by overstocking.", explanation.Answer)
		assert.Equal(t, "Which norms were violated?", explanation.Query)
		assert.Equal(t, 1, explanation.EvidenceUsed["relevant_norms"])
		assert.Equal(t, 1, explanation.EvidenceUsed["relevant_compliance"])
		assert.Equal(t, "test/model", explanation.TokenUsage["model"])

		// The prompt must carry the question and the evidence.
		assert.Contains(t, gotReq.Inputs, "QUESTION: Which norms were violated?")
		assert.Contains(t, gotReq.Inputs, "n2")
		assert.Equal(t, false, gotReq.Parameters["return_full_text"])
	})

	t.Run("NoTokenOmitsAuthHeader", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode([]inferenceResponse{{GeneratedText: "ok"}})
		}))
		defer server.Close()

		explainer := NewExplainer(server.URL, "test/model", "")
		_, err := explainer.GenerateExplanation(context.Background(), fixturePacket())
		assert.NoError(t, err)
	})

	t.Run("APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		explainer := NewExplainer(server.URL, "test/model", "")
		_, err := explainer.GenerateExplanation(context.Background(), fixturePacket())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("EmptyGeneration", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]inferenceResponse{{GeneratedText: "   "}})
		}))
		defer server.Close()

		explainer := NewExplainer(server.URL, "test/model", "")
		_, err := explainer.GenerateExplanation(context.Background(), fixturePacket())
		assert.Error(t, err)
	})
}

func TestBuildPromptCapsLogEntries(t *testing.T) {
	packet := fixturePacket()
	for i := 0; i < 80; i++ {
		packet.RelevantLogEntries = append(packet.RelevantLogEntries, model.LogEntry{
			EntryID: "bulk", AgentID: "a", Action: "work",
		})
	}

	prompt := buildPrompt(packet)
	assert.Contains(t, prompt, "## Log entries")
	// 50 entries at most make it into the prompt.
	assert.Equal(t, 50, strings.Count(prompt, `"entry_id":"bulk"`))
}
