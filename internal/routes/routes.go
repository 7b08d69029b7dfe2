package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/listeners"
	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/filestorage"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
	appwebsocket "inventory-system/pkg/websocket"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Equipment *zap.Logger
	Workflow  *zap.Logger
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	hub *appwebsocket.Hub,
	bus *eventbus.Bus,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.BasePath)
	if err != nil {
		loggers.Main.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}

	// --- РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn)
	teamRepo := repositories.NewTeamRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	historyRepo := repositories.NewEquipmentHistoryRepository(dbConn)
	requestRepo := repositories.NewEquipmentRequestRepository(dbConn)
	transferRepo := repositories.NewTransferRepository(dbConn)
	maintenanceRepo := repositories.NewMaintenanceRepository(dbConn)
	subscriptionRepo := repositories.NewSubscriptionRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- СЕРВИСЫ ---
	equipmentService := services.NewEquipmentService(dbConn, equipmentRepo, historyRepo, maintenanceRepo, bus, loggers.Equipment)
	historyService := services.NewEquipmentHistoryService(historyRepo, equipmentRepo, loggers.Equipment)
	requestService := services.NewEquipmentRequestService(dbConn, requestRepo, equipmentRepo, historyRepo, bus, loggers.Workflow)
	transferService := services.NewTransferService(dbConn, transferRepo, equipmentRepo, historyRepo, userRepo, bus, loggers.Workflow)
	maintenanceService := services.NewMaintenanceService(dbConn, maintenanceRepo, equipmentRepo, historyRepo, bus, loggers.Workflow)
	userService := services.NewUserService(userRepo, loggers.Main)
	teamService := services.NewTeamService(teamRepo, userRepo, loggers.Main)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo, fileStorage, loggers.Main)
	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, cfg.Auth, loggers.Auth)
	importService := services.NewEquipmentImportService(dbConn, equipmentRepo, historyRepo, loggers.Equipment)
	reportService := services.NewReportService(equipmentRepo, loggers.Main)

	// Слушатели переводят доменные события в WebSocket-уведомления.
	notificationListener := listeners.NewNotificationListener(hub, loggers.Main)
	notificationListener.Register(bus)

	// --- КОНТРОЛЛЕРЫ ---
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, historyService, loggers.Equipment)
	requestCtrl := controllers.NewEquipmentRequestController(requestService, loggers.Workflow)
	transferCtrl := controllers.NewTransferController(transferService, loggers.Workflow)
	maintenanceCtrl := controllers.NewMaintenanceController(maintenanceService, loggers.Workflow)
	userCtrl := controllers.NewUserController(userService, loggers.Main)
	teamCtrl := controllers.NewTeamController(teamService, loggers.Main)
	subscriptionCtrl := controllers.NewSubscriptionController(subscriptionService, loggers.Main)
	authCtrl := controllers.NewAuthController(authService, loggers.Auth)
	importCtrl := controllers.NewImportController(importService, loggers.Equipment)
	reportCtrl := controllers.NewReportController(reportService, loggers.Main)
	wsCtrl := controllers.NewWebSocketController(hub, jwtSvc, loggers.Main)

	// --- РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authCtrl, authMW)
	runEquipmentRouter(secureGroup, equipmentCtrl, importCtrl)
	runRequestRouter(secureGroup, requestCtrl)
	runTransferRouter(secureGroup, transferCtrl)
	runMaintenanceRouter(secureGroup, maintenanceCtrl)
	runUserRouter(secureGroup, userCtrl)
	runTeamRouter(secureGroup, teamCtrl)
	runSubscriptionRouter(secureGroup, subscriptionCtrl)
	runReportRouter(secureGroup, reportCtrl)

	// WebSocket живет вне secureGroup: токен передается query-параметром.
	e.GET("/ws", wsCtrl.ServeWs)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
