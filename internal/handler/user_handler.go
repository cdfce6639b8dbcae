package handler

import (
	"net/http"

	"github.com/annie604/iPaidUpay-Server/internal/config"
	"github.com/annie604/iPaidUpay-Server/internal/middleware"
	"github.com/annie604/iPaidUpay-Server/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type AddFriendRequest struct {
	FriendID int64 `json:"friend_id"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/users/search", h.search, middleware.AuthJWT(cfg))

	g := e.Group("/friends")
	g.Use(middleware.AuthJWT(cfg))
	g.POST("", h.addFriend)
	g.GET("", h.listFriends)
}

func (h *UserHandler) search(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Search(c.Request().Context(), userID, c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) addFriend(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddFriendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AddFriend(c.Request().Context(), userID, req.FriendID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, SuccessResponse{Message: "friend added"})
}

func (h *UserHandler) listFriends(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListFriends(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
