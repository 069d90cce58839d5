package controllers

import (
	"net/http"

	"therapyhub-menus/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

type UserTypeController struct {
	userTypeService services.UserTypeService
	logger          *zap.Logger
}

func NewUserTypeController(userTypeService services.UserTypeService, logger *zap.Logger) *UserTypeController {
	return &UserTypeController{userTypeService: userTypeService, logger: logger.Named("user_type_controller")}
}

// RegisterRoutes sets up the user type routes for a go-restful WebService.
func (ctl *UserTypeController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"user-types"}
	ws.Path("/user-types").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.GET("").To(ctl.listHandler).
		Doc("List user types, system types excluded").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]services.UserTypeResponse{}).
		Returns(http.StatusOK, "User types retrieved successfully", []services.UserTypeResponse{}))

	ws.Route(ws.GET("/{id}").To(ctl.getHandler).
		Doc("Get user type by ID").
		Param(ws.PathParameter("id", "Identifier of the user type").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(services.UserTypeResponse{}).
		Returns(http.StatusOK, "User type retrieved successfully", services.UserTypeResponse{}).
		Returns(http.StatusNotFound, "User type not found", nil))

	ws.Route(ws.POST("").To(ctl.createHandler).
		Doc("Create a user type").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UserTypeInput{}).
		Returns(http.StatusCreated, "User type created successfully", services.UserTypeResponse{}).
		Returns(http.StatusBadRequest, "Invalid user type or duplicate name", nil))

	ws.Route(ws.PUT("/{id}").To(ctl.updateHandler).
		Doc("Update a user type").
		Param(ws.PathParameter("id", "Identifier of the user type").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UserTypeInput{}).
		Returns(http.StatusOK, "User type updated successfully", services.UserTypeResponse{}).
		Returns(http.StatusBadRequest, "Invalid user type or duplicate name", nil).
		Returns(http.StatusNotFound, "User type not found", nil))

	ws.Route(ws.DELETE("/{id}").To(ctl.deactivateHandler).
		Doc("Deactivate a user type").
		Param(ws.PathParameter("id", "Identifier of the user type").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "User type deactivated successfully", nil).
		Returns(http.StatusNotFound, "User type not found", nil))
}

func (ctl *UserTypeController) listHandler(request *restful.Request, response *restful.Response) {
	list, err := ctl.userTypeService.ListUserTypes(request.Request.Context())
	if err != nil {
		handleServiceError(ctl.logger, request, response, "list_user_types", err)
		return
	}
	writeSuccess(response, http.StatusOK, "User types retrieved successfully", list)
}

func (ctl *UserTypeController) getHandler(request *restful.Request, response *restful.Response) {
	id, ok := pathID(request, "id")
	if !ok {
		WriteError(response, http.StatusBadRequest, "Invalid user type ID format")
		return
	}

	ut, err := ctl.userTypeService.GetUserType(request.Request.Context(), id)
	if err != nil {
		handleServiceError(ctl.logger, request, response, "get_user_type", err)
		return
	}
	writeSuccess(response, http.StatusOK, "User type retrieved successfully", ut)
}

func (ctl *UserTypeController) createHandler(request *restful.Request, response *restful.Response) {
	input := new(services.UserTypeInput)
	if err := request.ReadEntity(input); err != nil {
		WriteError(response, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ut, err := ctl.userTypeService.CreateUserType(request.Request.Context(), input)
	if err != nil {
		handleServiceError(ctl.logger, request, response, "create_user_type", err)
		return
	}
	writeSuccess(response, http.StatusCreated, "User type created successfully", ut)
}

func (ctl *UserTypeController) updateHandler(request *restful.Request, response *restful.Response) {
	id, ok := pathID(request, "id")
	if !ok {
		WriteError(response, http.StatusBadRequest, "Invalid user type ID format")
		return
	}

	input := new(services.UserTypeInput)
	if err := request.ReadEntity(input); err != nil {
		WriteError(response, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ut, err := ctl.userTypeService.UpdateUserType(request.Request.Context(), id, input)
	if err != nil {
		handleServiceError(ctl.logger, request, response, "update_user_type", err)
		return
	}
	writeSuccess(response, http.StatusOK, "User type updated successfully", ut)
}

func (ctl *UserTypeController) deactivateHandler(request *restful.Request, response *restful.Response) {
	id, ok := pathID(request, "id")
	if !ok {
		WriteError(response, http.StatusBadRequest, "Invalid user type ID format")
		return
	}

	if err := ctl.userTypeService.DeactivateUserType(request.Request.Context(), id); err != nil {
		handleServiceError(ctl.logger, request, response, "deactivate_user_type", err)
		return
	}
	writeSuccess(response, http.StatusOK, "User type deactivated successfully", struct{}{})
}
