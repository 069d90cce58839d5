package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

// HealthController answers the liveness probe used by Consul HTTP checks.
type HealthController struct {
	ping   func() error
	logger *zap.Logger
}

func NewHealthController(ping func() error, logger *zap.Logger) *HealthController {
	return &HealthController{ping: ping, logger: logger.Named("health_controller")}
}

func (ctl *HealthController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/health").Produces(restful.MIME_JSON)

	ws.Route(ws.GET("").To(ctl.healthHandler).
		Doc("Report whether the service and its database are reachable").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Returns(http.StatusOK, "Healthy", nil).
		Returns(http.StatusServiceUnavailable, "Database unreachable", nil))
}

func (ctl *HealthController) healthHandler(request *restful.Request, response *restful.Response) {
	if err := ctl.ping(); err != nil {
		ctl.logger.Warn("Health check failed", zap.Error(err))
		WriteError(response, http.StatusServiceUnavailable, "Service unavailable", "Database unreachable")
		return
	}
	writeSuccess(response, http.StatusOK, "Healthy", map[string]string{"status": "up"})
}
