// dao/interaction_dao.go
package dao

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/MZain-ul-Abideen/MAS-Explainability/db"
	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

// InteractionDAO persists the inferred agent interaction graph. Agents are
// nodes, each detected interaction an INTERACTED edge carrying its type,
// frequency and evidence entry IDs.
type InteractionDAO struct {
	Driver neo4j.Driver
}

func NewInteractionDAO(driver neo4j.Driver) *InteractionDAO {
	dao := &InteractionDAO{Driver: driver}
	if err := dao.EnsureConstraints(); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

// EnsureConstraints ensures the unique constraint on the Agent ID
func (dao *InteractionDAO) EnsureConstraints() error {
	logger.Info("Ensuring unique constraint on Agent ID")
	_, err := db.ExecuteWriteTransaction(dao.Driver, func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_agent_id IF NOT EXISTS
        FOR (a:AGENT) REQUIRE a.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		if err != nil {
			logger.Error("Failed to create unique constraint", zap.Error(err))
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraint on Agent ID", zap.Error(err))
		return err
	}

	return nil
}

// SyncInteractions replaces the interaction graph for a run with the
// detected set. Runs are isolated by runID so historical graphs survive.
func (dao *InteractionDAO) SyncInteractions(runID string, roleMapping map[string]model.RoleMapping, interactions []model.InteractionProfile) error {
	logger.Info("Syncing interaction graph",
		zap.String("runID", runID),
		zap.Int("interactions", len(interactions)))

	_, err := db.ExecuteWriteTransaction(dao.Driver, func(transaction neo4j.Transaction) (interface{}, error) {
		clearQuery := `
        MATCH (:AGENT)-[r:INTERACTED {runId: $runId}]->(:AGENT)
        DELETE r
        `
		if _, err := transaction.Run(clearQuery, map[string]interface{}{"runId": runID}); err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}

		agentQuery := `
        MERGE (a:AGENT {id: $id})
        ON CREATE SET a.inferredRole = $role, a.confidence = $confidence
        ON MATCH SET a.inferredRole = $role, a.confidence = $confidence
        `
		for agentID, mapping := range roleMapping {
			params := map[string]interface{}{
				"id":         agentID,
				"role":       mapping.InferredRole,
				"confidence": string(mapping.Confidence),
			}
			if _, err := transaction.Run(agentQuery, params); err != nil {
				return nil, apperrors.ErrDatabaseOperation
			}
		}

		edgeQuery := `
        MERGE (src:AGENT {id: $source})
        MERGE (dst:AGENT {id: $target})
        CREATE (src)-[:INTERACTED {
            runId: $runId,
            type: $type,
            frequency: $frequency,
            evidence: $evidence
        }]->(dst)
        `
		for _, interaction := range interactions {
			params := map[string]interface{}{
				"runId":     runID,
				"source":    interaction.SourceAgent,
				"target":    interaction.TargetAgent,
				"type":      interaction.InteractionType,
				"frequency": interaction.Frequency,
				"evidence":  interaction.Evidence,
			}
			if _, err := transaction.Run(edgeQuery, params); err != nil {
				return nil, apperrors.ErrDatabaseOperation
			}
		}

		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to sync interaction graph",
			zap.String("runID", runID),
			zap.Error(err))
		return err
	}

	logger.Info("Interaction graph synced", zap.String("runID", runID))
	return nil
}

// GetAgentInteractions returns every interaction touching an agent, in
// either direction.
func (dao *InteractionDAO) GetAgentInteractions(agentID string) ([]model.InteractionProfile, error) {
	result, err := db.ExecuteReadTransaction(dao.Driver, func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (src:AGENT)-[r:INTERACTED]->(dst:AGENT)
        WHERE src.id = $agentId OR dst.id = $agentId
        RETURN src.id AS source, dst.id AS target, r.type AS type,
               r.frequency AS frequency, r.evidence AS evidence
        `
		records, err := transaction.Run(query, map[string]interface{}{"agentId": agentID})
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}

		var interactions []model.InteractionProfile
		for records.Next() {
			record := records.Record()
			interaction := model.InteractionProfile{}
			if v, ok := record.Get("source"); ok && v != nil {
				interaction.SourceAgent = v.(string)
			}
			if v, ok := record.Get("target"); ok && v != nil {
				interaction.TargetAgent = v.(string)
			}
			if v, ok := record.Get("type"); ok && v != nil {
				interaction.InteractionType = v.(string)
			}
			if v, ok := record.Get("frequency"); ok && v != nil {
				interaction.Frequency = int(v.(int64))
			}
			if v, ok := record.Get("evidence"); ok && v != nil {
				for _, item := range v.([]interface{}) {
					interaction.Evidence = append(interaction.Evidence, item.(string))
				}
			}
			interactions = append(interactions, interaction)
		}
		return interactions, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions for agent %s: %w", agentID, err)
	}

	return result.([]model.InteractionProfile), nil
}
