// audit/repository.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const verdictIndex = "verdict-audit"

type Repository interface {
	IndexVerdict(ctx context.Context, log VerdictLog) error
	QueryVerdicts(ctx context.Context, runID, agentID, status string) ([]VerdictLog, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient}, nil
}

// IndexVerdict writes one verdict audit document to Elasticsearch.
func (r *ElasticsearchRepository) IndexVerdict(ctx context.Context, log VerdictLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      verdictIndex,
		DocumentID: fmt.Sprintf("%s-%s-%s", log.RunID, log.NormID, log.AgentID),
		Body:       strings.NewReader(string(data)),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// QueryVerdicts searches the verdict audit index, optionally filtering by
// run, agent and status.
func (r *ElasticsearchRepository) QueryVerdicts(ctx context.Context, runID, agentID, status string) ([]VerdictLog, error) {
	must := []interface{}{}
	if runID != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"run_id": runID},
		})
	}
	if agentID != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"agent_id": agentID},
		})
	}
	if status != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"status": status},
		})
	}
	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
			},
		},
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(verdictIndex),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
		r.esClient.Search.WithPretty(),
	)

	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching documents: %s", res.String())
	}

	var rmap map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&rmap); err != nil {
		return nil, err
	}

	hits := rmap["hits"].(map[string]interface{})["hits"].([]interface{})
	logs := make([]VerdictLog, len(hits))
	for i, hit := range hits {
		source := hit.(map[string]interface{})["_source"]
		data, _ := json.Marshal(source)
		json.Unmarshal(data, &logs[i])
	}

	return logs, nil
}
