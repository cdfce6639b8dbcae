package server

import (
	"github.com/annie604/iPaidUpay-Server/internal/config"
	"github.com/annie604/iPaidUpay-Server/internal/handler"
	"github.com/annie604/iPaidUpay-Server/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func Start(
	cfg config.Config,
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	groupH *handler.GroupHandler,
	orderH *handler.OrderHandler,
) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogging())
	e.Use(echomw.Recover())

	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowCredentials: true,
		}))
	}

	RegisterRoutes(e, cfg, authH, userH, groupH, orderH)

	return e.Start(":" + cfg.Port)
}
