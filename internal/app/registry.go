package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rthunborg/Masterdata-sub001/internal/auth"
	"github.com/rthunborg/Masterdata-sub001/internal/column"
	"github.com/rthunborg/Masterdata-sub001/internal/employee"
	"github.com/rthunborg/Masterdata-sub001/internal/importer"
	"github.com/rthunborg/Masterdata-sub001/internal/messaging/kafka"
	"github.com/rthunborg/Masterdata-sub001/internal/notify"
	"github.com/rthunborg/Masterdata-sub001/internal/partydata"
	"github.com/rthunborg/Masterdata-sub001/internal/rbac"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/counter"
	"github.com/rthunborg/Masterdata-sub001/internal/user"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	columnRepo := column.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	partyDataRepo := partydata.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService(logger)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, logger)
	columnService := column.NewService(db, columnRepo, partyDataRepo, outboxRepo, rdb, logger)
	employeeService := employee.NewService(db, employeeRepo, columnRepo, partyDataRepo, counterRepo, outboxRepo, logger)
	importerService := importer.NewService(employeeService, logger)
	partyDataService := partydata.NewService(partyDataRepo, columnRepo, logger)
	userService := user.NewService(userRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	columnHandler := column.NewHandler(columnService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	importerHandler := importer.NewHandler(importerService, logger)
	notifyHandler := notify.NewHandler(rdb, logger)
	partyDataHandler := partydata.NewHandler(partyDataService, logger)
	rbacHandler := rbac.NewHandler(rbacService)
	userHandler := user.NewHandler(userService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		column.RegisterRoutes(api, columnHandler, rbacService, logger)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		importer.RegisterRoutes(api, importerHandler, rbacService, logger)
		notify.RegisterRoutes(api, notifyHandler, logger)
		partydata.RegisterRoutes(api, partyDataHandler, rbacService, logger)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService, logger)
	}

	return nil
}
