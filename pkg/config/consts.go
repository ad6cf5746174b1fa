package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "CIRCULATION"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CIRCULATION_DB_DSN"
	EnvDBHost = "CIRCULATION_DB_HOST"
	EnvDBUser = "CIRCULATION_DB_USER"
	EnvDBName = "CIRCULATION_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
