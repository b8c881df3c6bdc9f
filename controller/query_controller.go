// controller/query_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	"github.com/MZain-ul-Abideen/MAS-Explainability/service"
	"github.com/MZain-ul-Abideen/MAS-Explainability/util"
)

type QueryController struct {
	queryService service.IQueryService
}

func NewQueryController(queryService service.IQueryService) *QueryController {
	return &QueryController{
		queryService: queryService,
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

// RegisterRoutes registers the API routes
func (qc *QueryController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/query", qc.AnswerQuery)
	r.POST("/evidence", qc.RetrieveEvidence)
}

// RetrieveEvidence endpoint
func (qc *QueryController) RetrieveEvidence(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid query request", err)
		return
	}

	packet, err := qc.queryService.Evidence(c, req.Query)
	if err != nil {
		respondQueryError(c, "Failed to retrieve evidence", err)
		return
	}
	c.JSON(http.StatusOK, packet)
}

// AnswerQuery endpoint
func (qc *QueryController) AnswerQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid query request", err)
		return
	}

	explanation, err := qc.queryService.Answer(c, req.Query)
	if err != nil {
		respondQueryError(c, "Failed to generate explanation", err)
		return
	}
	c.JSON(http.StatusOK, explanation)
}

func respondQueryError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrEmptyQuery):
		util.RespondWithError(c, http.StatusBadRequest, "Query must not be empty", err)
	case errors.Is(err, apperrors.ErrArtifactsMissing):
		util.RespondWithError(c, http.StatusNotFound, "No pipeline artifacts found; run the pipeline first", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, message, err)
	}
}
