// explainer/explainer.go
package explainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

// Explainer turns an evidence packet into a natural-language answer via the
// HuggingFace inference API. The reasoning engine has no dependency on this
// package; it only consumes artifacts the engine already produced.
type Explainer struct {
	client   *http.Client
	baseURL  string
	model    string
	apiToken string
}

func NewExplainer(baseURL, modelName, apiToken string) *Explainer {
	return &Explainer{
		client:   &http.Client{Timeout: 60 * time.Second},
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		model:    modelName,
		apiToken: apiToken,
	}
}

type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type inferenceResponse struct {
	GeneratedText string `json:"generated_text"`
}

// GenerateExplanation builds a grounded prompt from the packet, calls the
// model and wraps the answer with evidence accounting.
func (e *Explainer) GenerateExplanation(ctx context.Context, packet *model.EvidencePacket) (*model.Explanation, error) {
	prompt := buildPrompt(packet)

	reqBody, err := json.Marshal(inferenceRequest{
		Inputs: prompt,
		Parameters: map[string]any{
			"max_new_tokens":   512,
			"temperature":      0.3,
			"return_full_text": false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding inference request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", e.baseURL, e.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("building inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiToken)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling inference API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var results []inferenceResponse
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decoding inference response: %w", err)
	}
	if len(results) == 0 || strings.TrimSpace(results[0].GeneratedText) == "" {
		return nil, fmt.Errorf("inference API returned no generated text")
	}

	answer := strings.TrimSpace(results[0].GeneratedText)

	logger.Info("Generated explanation",
		zap.String("model", e.model),
		zap.Int("answerLength", len(answer)))

	return &model.Explanation{
		Query:        packet.Query,
		Answer:       answer,
		EvidenceUsed: evidenceCounts(packet),
		TokenUsage: map[string]any{
			"model":         e.model,
			"prompt_chars":  len(prompt),
			"answer_chars":  len(answer),
			"prompt_tokens": len(strings.Fields(prompt)),
		},
	}, nil
}

func evidenceCounts(packet *model.EvidencePacket) map[string]int {
	return map[string]int{
		"relevant_agents":       len(packet.RelevantAgents),
		"relevant_norms":        len(packet.RelevantNorms),
		"relevant_missions":     len(packet.RelevantMissions),
		"relevant_log_entries":  len(packet.RelevantLogEntries),
		"relevant_compliance":   len(packet.RelevantCompliance),
		"relevant_interactions": len(packet.RelevantInteractions),
	}
}

// buildPrompt renders the evidence packet as a factual context block and
// instructs the model to answer strictly from it.
func buildPrompt(packet *model.EvidencePacket) string {
	var b strings.Builder

	b.WriteString("You are an explainability assistant for a multi-agent system.\n")
	b.WriteString("Answer the question using ONLY the evidence below. ")
	b.WriteString("Cite agent IDs, norm IDs and entry IDs where relevant. ")
	b.WriteString("If the evidence is insufficient, say so.\n\n")

	b.WriteString("EVIDENCE:\n")

	if packet.SystemOverview != nil {
		writeJSONSection(&b, "System overview", packet.SystemOverview)
	}
	if len(packet.RelevantAgents) > 0 {
		writeJSONSection(&b, "Agents", packet.RelevantAgents)
	}
	if len(packet.RelevantNorms) > 0 {
		writeJSONSection(&b, "Norms", packet.RelevantNorms)
	}
	if len(packet.RelevantMissions) > 0 {
		writeJSONSection(&b, "Missions", packet.RelevantMissions)
	}
	if len(packet.RelevantCompliance) > 0 {
		writeJSONSection(&b, "Compliance verdicts", packet.RelevantCompliance)
	}
	if len(packet.RelevantLogEntries) > 0 {
		entries := packet.RelevantLogEntries
		if len(entries) > 50 {
			entries = entries[:50]
		}
		writeJSONSection(&b, "Log entries", entries)
	}
	if len(packet.RelevantInteractions) > 0 {
		writeJSONSection(&b, "Interactions", packet.RelevantInteractions)
	}

	b.WriteString("\nQUESTION: ")
	b.WriteString(packet.Query)
	b.WriteString("\n\nANSWER:")

	return b.String()
}

func writeJSONSection(b *strings.Builder, title string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	b.WriteString("\n## ")
	b.WriteString(title)
	b.WriteString("\n")
	b.Write(data)
	b.WriteString("\n")
}
