package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the proximity service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server.
// - ProviderType: The type of geocoding provider to use (nominatim, google).
// - APIKey: The API key for accessing external services (required for Google).
// - Workers: The number of concurrent workers for geocoding requests.
// - Interval: The duration between evaluation batches.
// - ThresholdMeters: The inclusive proximity threshold, in meters.
// - Operator: Optional operator filter; empty means all antennas.
// - AntennasPath/SupportsPath: The ANFR-style antenna and support CSV files.
// - ParcelsPath: Optional parcel file (CSV or XLSX) imported at startup.
// - ReportDir: Directory for per-run report files; empty disables reports.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env             string
	Port            int
	ProviderType    string
	APIKey          string
	Workers         int
	Interval        time.Duration
	ThresholdMeters float64
	Operator        string
	AntennasPath    string
	SupportsPath    string
	ParcelsPath     string
	ReportDir       string
	Database        PostgresConfig
}

// PostgresConfig struct holds the configuration details for connecting to a
// PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad loads the configuration from the environment (with optional .env
// file) and returns a Config struct. It panics when a value cannot be
// parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	vpr := viper.New()
	vpr.SetEnvPrefix("PROX")
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	vpr.SetDefault("env", "production")
	vpr.SetDefault("health.port", 8080)
	vpr.SetDefault("provider.type", "nominatim")
	vpr.SetDefault("workers", 4)
	vpr.SetDefault("interval", "10m")
	vpr.SetDefault("threshold.meters", 300.0)
	vpr.SetDefault("antennas.path", "data/antennas.csv")
	vpr.SetDefault("supports.path", "data/supports.csv")
	vpr.SetDefault("db.port", "5432")

	interval, err := time.ParseDuration(vpr.GetString("interval"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	threshold := vpr.GetFloat64("threshold.meters")
	if threshold <= 0 {
		panic("proximity threshold must be a positive number of meters")
	}

	workers := vpr.GetInt("workers")
	if workers <= 0 {
		panic("workers must be a positive integer")
	}

	return &Config{
		Env:             vpr.GetString("env"),
		Port:            vpr.GetInt("health.port"),
		ProviderType:    vpr.GetString("provider.type"),
		APIKey:          vpr.GetString("provider.key"),
		Workers:         workers,
		Interval:        interval,
		ThresholdMeters: threshold,
		Operator:        vpr.GetString("operator"),
		AntennasPath:    vpr.GetString("antennas.path"),
		SupportsPath:    vpr.GetString("supports.path"),
		ParcelsPath:     vpr.GetString("parcels.path"),
		ReportDir:       vpr.GetString("report.dir"),
		Database: PostgresConfig{
			Host:     vpr.GetString("db.host"),
			Port:     vpr.GetString("db.port"),
			User:     vpr.GetString("db.username"),
			Password: vpr.GetString("db.password"),
			Name:     vpr.GetString("db.name"),
		},
	}
}
