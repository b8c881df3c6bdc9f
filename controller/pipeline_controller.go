// controller/pipeline_controller.go
package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MZain-ul-Abideen/MAS-Explainability/artifact"
	"github.com/MZain-ul-Abideen/MAS-Explainability/config"
	"github.com/MZain-ul-Abideen/MAS-Explainability/dao"
	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	"github.com/MZain-ul-Abideen/MAS-Explainability/service"
	"github.com/MZain-ul-Abideen/MAS-Explainability/util"
)

type PipelineController struct {
	pipelineService service.IPipelineService
	store           *artifact.Store
	interactionDAO  *dao.InteractionDAO
}

func NewPipelineController(pipelineService service.IPipelineService, store *artifact.Store, interactionDAO *dao.InteractionDAO) *PipelineController {
	return &PipelineController{
		pipelineService: pipelineService,
		store:           store,
		interactionDAO:  interactionDAO,
	}
}

type runRequest struct {
	NormsPath string `json:"norms_path"`
	LogsPath  string `json:"logs_path"`
}

// RegisterRoutes registers the API routes
func (pc *PipelineController) RegisterRoutes(r *gin.RouterGroup) {
	pipeline := r.Group("/pipeline")
	{
		pipeline.POST("/run", pc.RunPipeline)
	}
	artifacts := r.Group("/artifacts")
	{
		artifacts.GET("/norms", pc.GetNorms)
		artifacts.GET("/logs", pc.GetLogs)
		artifacts.GET("/results", pc.GetResults)
		artifacts.GET("/profile", pc.GetProfile)
	}
	r.GET("/agents/:id/interactions", pc.GetAgentInteractions)
}

// RunPipeline endpoint
func (pc *PipelineController) RunPipeline(c *gin.Context) {
	var req runRequest
	// An empty body is allowed; paths then come from configuration.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid run request", err)
		return
	}
	if req.NormsPath == "" {
		req.NormsPath = config.GetString("pipeline.normsFile")
	}
	if req.LogsPath == "" {
		req.LogsPath = config.GetString("pipeline.logsFile")
	}
	if req.NormsPath == "" || req.LogsPath == "" {
		util.RespondWithError(c, http.StatusBadRequest, "Both norms_path and logs_path are required", apperrors.ErrInvalidNormData)
		return
	}

	summary, err := pc.pipelineService.Run(c, req.NormsPath, req.LogsPath)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPipelineBusy):
			util.RespondWithError(c, http.StatusConflict, "A pipeline run is already in progress", err)
		case errors.Is(err, apperrors.ErrUnsupportedFormat):
			util.RespondWithError(c, http.StatusBadRequest, "Unsupported input format", err)
		case errors.Is(err, apperrors.ErrNoLogEntries):
			util.RespondWithError(c, http.StatusBadRequest, "No valid log entries found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Pipeline run failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetNorms endpoint
func (pc *PipelineController) GetNorms(c *gin.Context) {
	norms, err := pc.store.LoadNorms()
	if err != nil {
		respondArtifactError(c, "Failed to load parsed norms", err)
		return
	}
	c.JSON(http.StatusOK, norms)
}

// GetLogs endpoint
func (pc *PipelineController) GetLogs(c *gin.Context) {
	logs, err := pc.store.LoadLogs()
	if err != nil {
		respondArtifactError(c, "Failed to load parsed logs", err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetResults endpoint
func (pc *PipelineController) GetResults(c *gin.Context) {
	results, err := pc.store.LoadResults()
	if err != nil {
		respondArtifactError(c, "Failed to load compliance results", err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetProfile endpoint
func (pc *PipelineController) GetProfile(c *gin.Context) {
	profile, err := pc.store.LoadProfile()
	if err != nil {
		respondArtifactError(c, "Failed to load system profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetAgentInteractions endpoint
func (pc *PipelineController) GetAgentInteractions(c *gin.Context) {
	if pc.interactionDAO == nil {
		util.RespondWithError(c, http.StatusServiceUnavailable, "Interaction graph storage is not configured", apperrors.ErrDatabaseOperation)
		return
	}

	interactions, err := pc.interactionDAO.GetAgentInteractions(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve agent interactions", err)
		return
	}
	c.JSON(http.StatusOK, interactions)
}

func respondArtifactError(c *gin.Context, message string, err error) {
	if errors.Is(err, apperrors.ErrArtifactsMissing) {
		util.RespondWithError(c, http.StatusNotFound, "No pipeline artifacts found; run the pipeline first", err)
		return
	}
	util.RespondWithError(c, http.StatusInternalServerError, message, err)
}
