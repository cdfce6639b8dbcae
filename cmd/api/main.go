package main

import (
	"log/slog"
	"os"

	"github.com/annie604/iPaidUpay-Server/internal/config"
	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	"github.com/annie604/iPaidUpay-Server/internal/handler"
	"github.com/annie604/iPaidUpay-Server/internal/infra/db"
	infraRepo "github.com/annie604/iPaidUpay-Server/internal/infra/repository"
	"github.com/annie604/iPaidUpay-Server/internal/server"
	"github.com/annie604/iPaidUpay-Server/internal/usecase"
	"github.com/annie604/iPaidUpay-Server/internal/validator"
	"github.com/annie604/iPaidUpay-Server/pkg/logging"

	"github.com/joho/godotenv"
)

func main() {
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Warn(".env not loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Friendship{},
		&model.Group{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	friendRepo := infraRepo.NewFriendGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, validator.NewAuthValidator(userRepo))
	userUC := usecase.NewUserUsecase(txManager, userRepo, friendRepo)
	groupUC := usecase.NewGroupUsecase(txManager)
	orderUC := usecase.NewOrderUsecase(txManager)
	paymentUC := usecase.NewPaymentUsecase(txManager)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	userH := handler.NewUserHandler(userUC)
	groupH := handler.NewGroupHandler(groupUC)
	orderH := handler.NewOrderHandler(orderUC, paymentUC)

	//Server起動
	slog.Info("starting server", "port", cfg.Port, "env", cfg.GoEnv)
	if err := server.Start(cfg, authH, userH, groupH, orderH); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
