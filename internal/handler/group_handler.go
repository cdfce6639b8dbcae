package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/config"
	"github.com/annie604/iPaidUpay-Server/internal/middleware"
	"github.com/annie604/iPaidUpay-Server/internal/usecase"

	"github.com/labstack/echo/v4"
)

type GroupHandler struct {
	uc *usecase.GroupUsecase
}

func NewGroupHandler(uc *usecase.GroupUsecase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

type GroupCreateRequest struct {
	Title          string                   `json:"title"`
	StartTime      time.Time                `json:"start_time"`
	EndTime        time.Time                `json:"end_time"`
	Products       []usecase.ProductInput   `json:"products"`
	InvitedUserIDs []int64                  `json:"invited_user_ids"`
	InitialOrder   []usecase.OrderItemInput `json:"initial_order"`
}

type GroupUpdateRequest struct {
	Title          string                 `json:"title"`
	StartTime      time.Time              `json:"start_time"`
	EndTime        time.Time              `json:"end_time"`
	Products       []usecase.ProductInput `json:"products"`
	InvitedUserIDs []int64                `json:"invited_user_ids"`
}

type GroupStatusRequest struct {
	Status string `json:"status"`
}

func (h *GroupHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/groups")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.dashboard)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/status", h.updateStatus)
	g.DELETE("/:id", h.delete)
}

func (h *GroupHandler) dashboard(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetDashboardGroups(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GroupHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req GroupCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateGroup(c.Request().Context(), userID, usecase.CreateGroupInput{
		Title:          req.Title,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Products:       req.Products,
		InvitedUserIDs: req.InvitedUserIDs,
		InitialOrder:   req.InitialOrder,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *GroupHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	groupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req GroupUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateGroup(c.Request().Context(), userID, groupID, usecase.UpdateGroupInput{
		Title:          req.Title,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Products:       req.Products,
		InvitedUserIDs: req.InvitedUserIDs,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GroupHandler) updateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	groupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req GroupStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateGroupStatus(c.Request().Context(), userID, groupID, req.Status); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "status updated"})
}

func (h *GroupHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	groupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteGroup(c.Request().Context(), userID, groupID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "group deleted"})
}
