package config

type InternalConfig struct {
	App       App
	JWT       AppJWT
	Fees      AppFees
	Retention AppRetention
	Workers   AppWorkers
	RabbitMQ  AppRabbitMQ
}

type App struct {
	Env                       string
	Port                      string
	Version                   string
	Address                   string
	BaseUrl                   string
	EndpointPrefix            string
	MaxRequests               int
	ShutdownTimeoutInSeconds  int
	MaxTimeRequestsPerSeconds int
	SuperadminAPIKey          string
	SuperadminAPIKeyRateLimit int
}

type AppJWT struct {
	Secret string
}

// AppFees carries the monetary split applied to INCOME transactions.
type AppFees struct {
	PlatformFeeRate       float64
	GatewayFeeRate        float64
	PartnerCommissionRate float64
}

type AppRetention struct {
	ArchiveBatchSize int
	CleanupBatchSize int
}

type AppWorkers struct {
	ExpirySweepIntervalInMinutes    int
	RetentionSweepIntervalInMinutes int
}

type AppRabbitMQ struct {
	AuditFailureQueue string
}
