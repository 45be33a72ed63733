package config

import (
	"fisioflow-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		PostgresDB: PostgresDB{
			Host:     utils.GetEnvString("POSTGRES_HOST", "localhost"),
			Port:     utils.GetEnvString("POSTGRES_PORT", "5432"),
			Username: utils.GetEnvString("POSTGRES_USERNAME", "fisioflow"),
			Password: utils.GetEnvString("POSTGRES_PASSWORD", "fisioflow"),
			DBName:   utils.GetEnvString("POSTGRES_DB_NAME", "fisioflow"),
			SSLMode:  utils.GetEnvString("POSTGRES_SSL_MODE", "disable"),
		},
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DBName:   utils.GetEnvString("MONGODB_DB_NAME", "fisioflow_audit"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "fisioflow-audit"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", ":8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                   utils.GetEnvString("APP_ADDRESS", "localhost"),
			BaseUrl:                   utils.GetEnvString("APP_BASE_URL", "http://localhost:8080"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "/api/v1"),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:  utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds: utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 10),
			SuperadminAPIKey:          utils.GetEnvString("APP_SUPERADMIN_API_KEY", ""),
			SuperadminAPIKeyRateLimit: utils.GetEnvInt("APP_SUPERADMIN_API_KEY_RATE_LIMIT", 30),
		},
		JWT: AppJWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Fees: AppFees{
			PlatformFeeRate:       utils.GetEnvFloat("FEES_PLATFORM_RATE", 0.10),
			GatewayFeeRate:        utils.GetEnvFloat("FEES_GATEWAY_RATE", 0.03),
			PartnerCommissionRate: utils.GetEnvFloat("FEES_PARTNER_COMMISSION_RATE", 0.80),
		},
		Retention: AppRetention{
			ArchiveBatchSize: utils.GetEnvInt("RETENTION_ARCHIVE_BATCH_SIZE", 500),
			CleanupBatchSize: utils.GetEnvInt("RETENTION_CLEANUP_BATCH_SIZE", 500),
		},
		Workers: AppWorkers{
			ExpirySweepIntervalInMinutes:    utils.GetEnvInt("WORKERS_EXPIRY_SWEEP_INTERVAL_IN_MINUTES", 60),
			RetentionSweepIntervalInMinutes: utils.GetEnvInt("WORKERS_RETENTION_SWEEP_INTERVAL_IN_MINUTES", 1440),
		},
		RabbitMQ: AppRabbitMQ{
			AuditFailureQueue: utils.GetEnvString("APP_RABBITMQ_AUDIT_FAILURE_QUEUE", "audit_failure_queue"),
		},
	}
}
