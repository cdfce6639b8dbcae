package server

import (
	"github.com/annie604/iPaidUpay-Server/internal/config"
	"github.com/annie604/iPaidUpay-Server/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	groupH *handler.GroupHandler,
	orderH *handler.OrderHandler,
) {
	authH.RegisterRoutes(e)
	userH.RegisterRoutes(e, cfg)
	groupH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)
}
