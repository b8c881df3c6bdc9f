// controller/controllers.go
package controller

import (
	"github.com/MZain-ul-Abideen/MAS-Explainability/artifact"
	"github.com/MZain-ul-Abideen/MAS-Explainability/dao"
	"github.com/MZain-ul-Abideen/MAS-Explainability/service"
)

type Controllers struct {
	Pipeline *PipelineController
	Query    *QueryController
}

func InitializeControllers(services *service.Services, store *artifact.Store, interactionDAO *dao.InteractionDAO) *Controllers {
	return &Controllers{
		Pipeline: NewPipelineController(services.Pipeline, store, interactionDAO),
		Query:    NewQueryController(services.Query),
	}
}
