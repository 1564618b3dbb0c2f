package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App          AppConfig          `yaml:"app"`
	DB           DBConfig           `yaml:"database_info"`
	FeatureFlags FeatureFlagsConfig `yaml:"feature_flags"`
	CORS         CORSConfig         `yaml:"cors"`
}

// Load reads FILLY_* environment variables and, when FILLY_CONFIG_FILE points at
// an existing file, overlays its values. JSON files are accepted since they are
// valid YAML.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decoding config file %q: %w", path, err)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"FILLY_APP_ENV" default:"dev" yaml:"env"`
	Port         string `envconfig:"FILLY_APP_PORT" default:"8000" yaml:"port"`
	LogLevel     string `envconfig:"FILLY_LOG_LEVEL" default:"info" yaml:"log_level"`
	LogWarnStack bool   `envconfig:"FILLY_LOG_WARN_STACK" default:"false" yaml:"log_warn_stack"`
	TZ           string `envconfig:"FILLY_TZ" default:"America/Detroit" yaml:"tz"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves TZ, falling back to UTC for unknown zones.
func (a AppConfig) Location() *time.Location {
	if a.TZ == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.TZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

type DBConfig struct {
	Driver string `envconfig:"FILLY_DB_DRIVER" default:"sqlite" yaml:"type"`
	DSN    string `envconfig:"FILLY_DB_DSN" yaml:"dsn"`

	Host     string `envconfig:"FILLY_DB_HOST" default:"localhost" yaml:"host"`
	Port     int    `envconfig:"FILLY_DB_PORT" default:"5432" yaml:"port"`
	User     string `envconfig:"FILLY_DB_USER" yaml:"username"`
	Password string `envconfig:"FILLY_DB_PASSWORD" yaml:"password"`
	Name     string `envconfig:"FILLY_DB_NAME" yaml:"db_name"`
	Dir      string `envconfig:"FILLY_DB_DIR" default:"db" yaml:"db_dir"`
	SSLMode  string `envconfig:"FILLY_DB_SSLMODE" default:"disable" yaml:"sslmode"`

	MaxOpenConns    int           `envconfig:"FILLY_DB_MAX_OPEN_CONNS" default:"10" yaml:"max_open_conns"`
	MaxIdleConns    int           `envconfig:"FILLY_DB_MAX_IDLE_CONNS" default:"5" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `envconfig:"FILLY_DB_CONN_MAX_LIFETIME" default:"1h" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `envconfig:"FILLY_DB_CONN_MAX_IDLE_TIME" default:"10m" yaml:"conn_max_idle_time"`
}

// NormalizedDriver maps accepted driver spellings onto DriverSQLite/DriverPostgres.
func (db DBConfig) NormalizedDriver() string {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite
	case "postgres", "postgresql", "pg":
		return DriverPostgres
	}
	return strings.ToLower(strings.TrimSpace(db.Driver))
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"FILLY_AUTO_MIGRATE" default:"true" yaml:"auto_migrate"`
	SeedDefaults bool `envconfig:"FILLY_SEED_DEFAULTS" default:"true" yaml:"seed_defaults"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FILLY_CORS_ALLOWED_ORIGINS" default:"*" yaml:"allowed_origins"`
}

func (db *DBConfig) ensureDSN() error {
	switch db.NormalizedDriver() {
	case DriverSQLite:
		return db.ensureSQLiteDSN()
	case DriverPostgres:
		return db.ensurePostgresDSN()
	default:
		return fmt.Errorf("unsupported database type %q (expected %s or %s)", db.Driver, DriverSQLite, DriverPostgres)
	}
}

func (db *DBConfig) ensureSQLiteDSN() error {
	if db.DSN != "" {
		return nil
	}
	name := db.Name
	if name == "" {
		name = defaultSQLiteName
	}
	if db.Dir == "" {
		db.DSN = name
		return nil
	}
	if err := os.MkdirAll(db.Dir, 0o755); err != nil {
		return fmt.Errorf("creating sqlite dir %q: %w", db.Dir, err)
	}
	db.DSN = filepath.Join(db.Dir, name)
	return nil
}

func (db *DBConfig) ensurePostgresDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
	}
	for _, env := range postgresDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	name := db.Name
	if name == "" {
		name = defaultPostgresName
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
