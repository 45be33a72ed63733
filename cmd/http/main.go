package main

import (
	"context"
	"fisioflow-service/cmd/migration"
	"fisioflow-service/internal/app/config"
	"fisioflow-service/internal/app/delivery/http/controllers"
	"fisioflow-service/internal/app/delivery/http/middlewares"
	"fisioflow-service/internal/app/delivery/http/routers"
	"fisioflow-service/internal/app/drivers/database"
	"fisioflow-service/internal/app/drivers/logger"
	"fisioflow-service/internal/app/drivers/messaging"
	driverstorage "fisioflow-service/internal/app/drivers/storage"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/app/services/core/audit"
	"fisioflow-service/internal/app/services/core/ledger"
	"fisioflow-service/internal/app/services/core/vouchers"
	"fisioflow-service/internal/app/services/shared/auditqueue"
	"fisioflow-service/internal/app/services/shared/clock"
	"fisioflow-service/internal/app/services/shared/locker"
	redisrepo "fisioflow-service/internal/app/services/shared/redis"
	"fisioflow-service/internal/app/services/shared/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	processLog := logger.NewLogrusLogger(internalConfig)

	postgresDB := database.NewPostgresDB(driverConfig)
	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := driverstorage.NewMinio(driverConfig)

	migration.Run(postgresDB)

	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		PostgresDB:     postgresDB,
		MongoClient:    mongoClient,
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitConn,
		Minio:          minioClient,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	if err := bootstrapTheApp(bootstrap); err != nil {
		zapLogger.Fatal("failed to bootstrap application", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		zapLogger.Info("server listening", zap.String("address", internalConfig.App.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	processLog.Println("Waiting for pending requests to finish..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server forced to shutdown", zap.Error(err))
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("error closing application resources", zap.Error(err))
	}

	processLog.Println("Server exiting")
}

func bootstrapTheApp(bootstrap *config.Bootstrap) error {
	// Shared services
	redisRepository := redisrepo.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, bootstrap.Logger)
	systemClock := clock.NewSystemClock()
	identityService := clock.NewIdentityService()
	minioStorage := storage.NewMinioStorage(bootstrap.Minio, bootstrap.DriverConfig.Minio.BucketName)

	auditQueue, err := auditqueue.NewAuditQueueService(
		bootstrap.RabbitMQ,
		bootstrap.Logger,
		bootstrap.InternalConfig.RabbitMQ.AuditFailureQueue,
		1,
	)
	if err != nil {
		return err
	}

	// Audit
	auditRepository := audit.NewAuditMongoRepository(
		bootstrap.MongoClient,
		bootstrap.DriverConfig.MongoDB.DBName,
		bootstrap.InternalConfig.Retention.ArchiveBatchSize,
	)
	auditUsecase := audit.NewAuditUsecase(auditRepository, auditQueue, minioStorage, systemClock, bootstrap.Logger)

	// Ledger
	transactionRepository := ledger.NewTransactionPostgresRepository(bootstrap.PostgresDB)
	ledgerUsecase := ledger.NewLedgerUsecase(
		transactionRepository,
		auditUsecase,
		redisRepository,
		systemClock,
		identityService,
		bootstrap.InternalConfig.Fees,
		bootstrap.Logger,
	)

	// Vouchers
	voucherRepository := vouchers.NewVoucherPostgresRepository(bootstrap.PostgresDB)
	voucherUsecase := vouchers.NewVoucherUsecase(
		voucherRepository,
		ledgerUsecase,
		auditUsecase,
		lockService,
		systemClock,
		identityService,
		bootstrap.Logger,
	)

	// HTTP layer
	httpMiddlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)
	voucherController := controllers.NewVoucherController(bootstrap.Logger, voucherUsecase, systemClock)
	ledgerController := controllers.NewLedgerController(bootstrap.Logger, ledgerUsecase, systemClock)
	auditController := controllers.NewAuditController(bootstrap.Logger, auditUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		httpMiddlewares,
		voucherController,
		ledgerController,
		auditController,
	)

	bootstrap.WorkerStop = startWorkers(bootstrap, voucherUsecase, auditUsecase, auditQueue)
	return nil
}

// startWorkers launches the expiry sweeper, the retention sweeper and the
// audit replay consumer. The returned function stops all of them.
func startWorkers(
	bootstrap *config.Bootstrap,
	voucherUsecase contracts.VoucherUsecase,
	auditUsecase contracts.AuditUsecase,
	auditQueue contracts.AuditQueueService,
) func() {
	ctx, cancel := context.WithCancel(context.Background())

	expiryInterval := time.Duration(bootstrap.InternalConfig.Workers.ExpirySweepIntervalInMinutes) * time.Minute
	retentionInterval := time.Duration(bootstrap.InternalConfig.Workers.RetentionSweepIntervalInMinutes) * time.Minute

	go func() {
		ticker := time.NewTicker(expiryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := voucherUsecase.SweepExpired(ctx); err != nil {
					bootstrap.Logger.Error("expiry sweep failed", zap.Error(err))
				}
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(retentionInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := auditUsecase.ArchiveOldLogs(ctx); err != nil {
					bootstrap.Logger.Error("audit archive sweep failed", zap.Error(err))
				}
				if _, err := auditUsecase.CleanupExpiredLogs(ctx); err != nil {
					bootstrap.Logger.Error("audit cleanup sweep failed", zap.Error(err))
				}
			}
		}
	}()

	go func() {
		err := auditQueue.ConsumeFailedAudits(ctx, func(ctx context.Context, auditLog *models.AuditLog) error {
			return auditUsecase.Replay(ctx, auditLog)
		})
		if err != nil {
			bootstrap.Logger.Error("audit replay consumer stopped", zap.Error(err))
		}
	}()

	return cancel
}
