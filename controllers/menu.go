package controllers

import (
	"context"
	"net/http"

	"therapyhub-menus/auth"
	"therapyhub-menus/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

type MenuController struct {
	menuService services.MenuService
	logger      *zap.Logger
}

// NewMenuController creates a MenuController instance
func NewMenuController(menuService services.MenuService, logger *zap.Logger) *MenuController {
	return &MenuController{menuService: menuService, logger: logger.Named("menu_controller")}
}

// --- go-restful Route Definitions ---

// RegisterRoutes sets up the menu routes. Only /menus/current needs a bearer token.
func (ctl *MenuController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"menus"}
	ws.Path("/menus").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.GET("").To(ctl.listMenusHandler).
		Doc("List every menu as a flat list").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]services.MenuResponse{}).
		Returns(http.StatusOK, "Menus retrieved successfully", []services.MenuResponse{}))

	ws.Route(ws.GET("/current").Filter(auth.AuthFilter()).To(ctl.currentUserMenusHandler).
		Doc("Menu tree of the authenticated user's type").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]services.MenuResponse{}).
		Returns(http.StatusOK, "Menus retrieved successfully", []services.MenuResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.GET("/type/{id}").To(ctl.userTypeTreeHandler).
		Doc("Menu tree granted to a user type").
		Param(ws.PathParameter("id", "Identifier of the user type").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]services.MenuResponse{}).
		Returns(http.StatusOK, "Menus retrieved successfully", []services.MenuResponse{}).
		Returns(http.StatusBadRequest, "Invalid user type ID", nil))

	ws.Route(ws.GET("/type/{id}/full").To(ctl.userTypeWithMenusHandler).
		Doc("User type with the menus granted to it directly").
		Param(ws.PathParameter("id", "Identifier of the user type").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(services.UserTypeMenusResponse{}).
		Returns(http.StatusOK, "User type with menus retrieved successfully", services.UserTypeMenusResponse{}).
		Returns(http.StatusNotFound, "User type not found", nil))

	ws.Route(ws.POST("/assign").To(ctl.assignMenusHandler).
		Doc("Replace every menu granted to a user type").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.AssignMenusInput{}).
		Returns(http.StatusOK, "Menus assigned successfully", nil).
		Returns(http.StatusBadRequest, "Unknown user type or menus", nil))

	ws.Route(ws.GET("/{id}").To(ctl.getMenuHandler).
		Doc("Get menu by ID").
		Param(ws.PathParameter("id", "Identifier of the menu").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(services.MenuResponse{}).
		Returns(http.StatusOK, "Menu retrieved successfully", services.MenuResponse{}).
		Returns(http.StatusNotFound, "Menu not found", nil))

	ws.Route(ws.POST("").To(ctl.createMenuHandler).
		Doc("Create a menu").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.MenuInput{}).
		Writes(services.MenuResponse{}).
		Returns(http.StatusOK, "Menu created successfully", services.MenuResponse{}).
		Returns(http.StatusBadRequest, "Invalid menu", nil))

	ws.Route(ws.PUT("/{id}").To(ctl.updateMenuHandler).
		Doc("Update a menu").
		Param(ws.PathParameter("id", "Identifier of the menu").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.MenuInput{}).
		Writes(services.MenuResponse{}).
		Returns(http.StatusOK, "Menu updated successfully", services.MenuResponse{}).
		Returns(http.StatusBadRequest, "Invalid menu", nil).
		Returns(http.StatusNotFound, "Menu not found", nil))

	ws.Route(ws.DELETE("/{id}").To(ctl.deleteMenuHandler).
		Doc("Delete a menu without submenus").
		Param(ws.PathParameter("id", "Identifier of the menu").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Menu deleted successfully", nil).
		Returns(http.StatusBadRequest, "Menu has submenus", nil).
		Returns(http.StatusNotFound, "Menu not found", nil))

	ws.Route(ws.PATCH("/{id}/move-up").To(ctl.moveUpHandler).
		Doc("Move a menu one place up among its siblings").
		Param(ws.PathParameter("id", "Identifier of the menu").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Menu order updated", nil).
		Returns(http.StatusNotFound, "Menu not found", nil))

	ws.Route(ws.PATCH("/{id}/move-down").To(ctl.moveDownHandler).
		Doc("Move a menu one place down among its siblings").
		Param(ws.PathParameter("id", "Identifier of the menu").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Menu order updated", nil).
		Returns(http.StatusNotFound, "Menu not found", nil))
}

// --- go-restful Handler Functions ---

func (ctl *MenuController) listMenusHandler(request *restful.Request, response *restful.Response) {
	menus, err := ctl.menuService.ListMenus(request.Request.Context())
	if err != nil {
		handleServiceError(ctl.logger, request, response, "list_menus", err)
		return
	}
	writeSuccess(response, http.StatusOK, "Menus retrieved successfully", menus)
}

// currentUserMenusHandler (Handles GET /menus/current)
func (ctl *MenuController) currentUserMenusHandler(request *restful.Request, response *restful.Response) {
	claims, ok := auth.ClaimsFromRequest(request)
	if !ok || claims.UserTypeID == 0 {
		WriteError(response, http.StatusUnauthorized, "Unauthorized", "Could not resolve the user type of the current user")
		return
	}

	menus, err := ctl.menuService.GetMenuTreeForUserType(request.Request.Context(), claims.UserTypeID)
	if err != nil {
		handleServiceError(ctl.logger, request, response, "current_user_menus", err)
		return
	}
	writeSuccess(response, http.StatusOK, "Menus retrieved successfully", menus)
}

func (ctl *MenuController) userTypeTreeHandler(request *restful.Request, response *restful.Response) {
	userTypeID, ok := pathID(request, "id")
	if !ok {
		WriteError(response, http.StatusBadRequest, "Invalid user type ID format")
		return
	}

	menus, err := ctl.menuService.GetMenuTreeForUserType(request.Request.Context(), userTypeID)
	if err != nil {
		handleServiceError(ctl.logger, request, response, "user_type_menus", err)
		return
	}
	writeSuccess(response, http.StatusOK, "Menus retrieved successfully", menus)
}

func (ctl *MenuController) userTypeWithMenusHandler(request *restful.Request, response *restful.Response) {
	userTypeID, ok := pathID(request, "id")
	if !ok {
		WriteError(response, http.StatusBadRequest, "Invalid user type ID format")
		return
	}

	result, err := ctl.menuService.GetUserTypeWithMenus(request.Request.Context(), userTypeID)
	if err != nil {
		handleServiceError(ctl.logger, request, response, "user_type_with_menus", err)
		return
	}
	writeSuccess(response, http.StatusOK, "User type with menus retrieved successfully", result)
}

func (ctl *MenuController) assignMenusHandler(request *restful.Request, response *restful.Response) {
	input := new(services.AssignMenusInput)
	if err := request.ReadEntity(input); err != nil {
		WriteError(response, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := ctl.menuService.AssignMenus(request.Request.Context(), input); err != nil {
		handleServiceError(ctl.logger, request, response, "assign_menus", err)
		return
	}
	writeSuccess(response, http.StatusOK, "Menus assigned successfully", struct{}{})
}

func (ctl *MenuController) getMenuHandler(request *restful.Request, response *restful.Response) {
	id, ok := pathID(request, "id")
	if !ok {
		WriteError(response, http.StatusBadRequest, "Invalid menu ID format")
		return
	}

	menu, err := ctl.menuService.GetMenu(request.Request.Context(), id)
	if err != nil {
		handleServiceError(ctl.logger, request, response, "get_menu", err)
		return
	}
	writeSuccess(response, http.StatusOK, "Menu retrieved successfully", menu)
}

func (ctl *MenuController) createMenuHandler(request *restful.Request, response *restful.Response) {
	input := new(services.MenuInput)
	if err := request.ReadEntity(input); err != nil {
		WriteError(response, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	menu, err := ctl.menuService.CreateMenu(request.Request.Context(), input)
	if err != nil {
		handleServiceError(ctl.logger, request, response, "create_menu", err)
		return
	}
	writeSuccess(response, http.StatusOK, "Menu created successfully", menu)
}

func (ctl *MenuController) updateMenuHandler(request *restful.Request, response *restful.Response) {
	id, ok := pathID(request, "id")
	if !ok {
		WriteError(response, http.StatusBadRequest, "Invalid menu ID format")
		return
	}

	input := new(services.MenuInput)
	if err := request.ReadEntity(input); err != nil {
		WriteError(response, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	menu, err := ctl.menuService.UpdateMenu(request.Request.Context(), id, input)
	if err != nil {
		handleServiceError(ctl.logger, request, response, "update_menu", err)
		return
	}
	writeSuccess(response, http.StatusOK, "Menu updated successfully", menu)
}

func (ctl *MenuController) deleteMenuHandler(request *restful.Request, response *restful.Response) {
	id, ok := pathID(request, "id")
	if !ok {
		WriteError(response, http.StatusBadRequest, "Invalid menu ID format")
		return
	}

	if err := ctl.menuService.DeleteMenu(request.Request.Context(), id); err != nil {
		handleServiceError(ctl.logger, request, response, "delete_menu", err)
		return
	}
	writeSuccess(response, http.StatusOK, "Menu deleted successfully", struct{}{})
}

func (ctl *MenuController) moveUpHandler(request *restful.Request, response *restful.Response) {
	ctl.move(request, response, "move_up", ctl.menuService.MoveUp)
}

func (ctl *MenuController) moveDownHandler(request *restful.Request, response *restful.Response) {
	ctl.move(request, response, "move_down", ctl.menuService.MoveDown)
}

func (ctl *MenuController) move(request *restful.Request, response *restful.Response, op string, fn func(ctx context.Context, id uint) error) {
	id, ok := pathID(request, "id")
	if !ok {
		WriteError(response, http.StatusBadRequest, "Invalid menu ID format")
		return
	}

	if err := fn(request.Request.Context(), id); err != nil {
		handleServiceError(ctl.logger, request, response, op, err)
		return
	}
	writeSuccess(response, http.StatusOK, "Menu order updated", struct{}{})
}
