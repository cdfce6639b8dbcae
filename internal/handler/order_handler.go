package handler

import (
	"net/http"
	"strconv"

	"github.com/annie604/iPaidUpay-Server/internal/config"
	"github.com/annie604/iPaidUpay-Server/internal/middleware"
	"github.com/annie604/iPaidUpay-Server/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orders   *usecase.OrderUsecase
	payments *usecase.PaymentUsecase
}

func NewOrderHandler(orders *usecase.OrderUsecase, payments *usecase.PaymentUsecase) *OrderHandler {
	return &OrderHandler{orders: orders, payments: payments}
}

type OrderUpdateRequest struct {
	Items []usecase.OrderItemInput `json:"items"`
}

type PaymentStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/groups")
	g.Use(middleware.AuthJWT(cfg))
	g.PUT("/:id/order", h.updateOrder)
	g.GET("/:id/summary", h.summary)

	o := e.Group("/orders")
	o.Use(middleware.AuthJWT(cfg))
	o.PATCH("/:id/payment", h.updatePayment)
}

func (h *OrderHandler) updateOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	groupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req OrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.orders.UpdateOrder(c.Request().Context(), userID, groupID, req.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) summary(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	groupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orders.GetGroupSummary(c.Request().Context(), userID, groupID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updatePayment(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req PaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.payments.UpdatePaymentStatus(c.Request().Context(), userID, orderID, req.Status); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "payment status updated"})
}
