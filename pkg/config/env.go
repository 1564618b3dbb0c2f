package config

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	EnvConfigFile = "FILLY_CONFIG_FILE"

	EnvAppEnv       = "FILLY_APP_ENV"
	EnvPort         = "FILLY_APP_PORT"
	EnvLogLevel     = "FILLY_LOG_LEVEL"
	EnvLogWarnStack = "FILLY_LOG_WARN_STACK"
	EnvTZ           = "FILLY_TZ"

	EnvDBDriver   = "FILLY_DB_DRIVER"
	EnvDBDSN      = "FILLY_DB_DSN"
	EnvDBHost     = "FILLY_DB_HOST"
	EnvDBPort     = "FILLY_DB_PORT"
	EnvDBUser     = "FILLY_DB_USER"
	EnvDBPassword = "FILLY_DB_PASSWORD"
	EnvDBName     = "FILLY_DB_NAME"
	EnvDBDir      = "FILLY_DB_DIR"
	EnvDBSSLMode  = "FILLY_DB_SSLMODE"

	EnvAutoMigrate  = "FILLY_AUTO_MIGRATE"
	EnvSeedDefaults = "FILLY_SEED_DEFAULTS"

	EnvCORSAllowedOrigins = "FILLY_CORS_ALLOWED_ORIGINS"
)

var postgresDBEnvVars = []string{EnvDBHost, EnvDBUser}

const (
	defaultSQLiteName   = "fillytrckr.db"
	defaultPostgresName = "fillytrckr"
)
