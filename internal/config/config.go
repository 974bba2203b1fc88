// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Environment variables only, when no file is given
//
// A .env file in the working directory, when present, is loaded into the
// process environment first so its values take part in all three modes.
//
// All three services (users, demo, students) share this one Config struct;
// each binary reads only the section it needs.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	UserService    UserService    `yaml:"user_service"`
	DemoService    DemoService    `yaml:"demo_service"`
	StudentService StudentService `yaml:"student_service"`

	CORS CORS `yaml:"cors"`
}

// HTTPServer holds settings specific to one HTTP listener.
// The env-prefix on the embedding field decides the variable names,
// e.g. USER_HTTP_SERVER_ADDR for the user service.
type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_SERVER_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// UserService configures the in-memory user service.
type UserService struct {
	HTTPServer HTTPServer `yaml:"http_server" env-prefix:"USER_"`

	// UploadDir is where POST /upload writes files.
	UploadDir string `yaml:"upload_dir" env:"UPLOAD_DIR" env-default:"./_uploads"`

	// WelcomeDelay is the simulated latency of the welcome notification.
	WelcomeDelay time.Duration `yaml:"welcome_delay" env:"WELCOME_DELAY" env-default:"3s"`

	// TimeUnit scales the delays of GET /concurrent-demo (0.1, 0.2, 0.3 units).
	TimeUnit time.Duration `yaml:"time_unit" env:"CONCURRENT_DEMO_TIME_UNIT" env-default:"1s"`

	Workers   int `yaml:"workers" env:"BACKGROUND_WORKERS" env-default:"4"`
	QueueSize int `yaml:"queue_size" env:"BACKGROUND_QUEUE_SIZE" env-default:"128"`
}

// DemoService configures the minimal demo service.
type DemoService struct {
	HTTPServer HTTPServer `yaml:"http_server" env-prefix:"DEMO_"`
}

// Student storage drivers.
const (
	DriverSQLite     = "sqlite"      // database/sql + go-sqlite3
	DriverGormSQLite = "gorm-sqlite" // gorm over go-sqlite3
	DriverPostgres   = "postgres"    // gorm over pgx
)

// StudentService configures the relational student service.
type StudentService struct {
	HTTPServer HTTPServer `yaml:"http_server" env-prefix:"STUDENT_"`

	Driver string `yaml:"driver" env:"STUDENT_DB_DRIVER" env-default:"sqlite"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/students.db"`

	// DSN is the PostgreSQL connection string, used by the postgres driver.
	DSN string `yaml:"dsn" env:"STUDENT_DB_DSN"`

	// PhoneCountryCode is the digits expected after "+" in a student's phone.
	PhoneCountryCode string `yaml:"phone_country_code" env:"PHONE_COUNTRY_CODE" env-default:"91"`
}

// CORS lists the origins allowed to call the services from a browser.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// Load reads the configuration from path, or from the environment alone
// when path is empty, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.applyAddrDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to fatal on failure.
func MustLoad() *Config {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}
	return cfg
}

func (c *Config) applyAddrDefaults() {
	if c.UserService.HTTPServer.Addr == "" {
		c.UserService.HTTPServer.Addr = "localhost:8000"
	}
	if c.DemoService.HTTPServer.Addr == "" {
		c.DemoService.HTTPServer.Addr = "localhost:8001"
	}
	if c.StudentService.HTTPServer.Addr == "" {
		c.StudentService.HTTPServer.Addr = "localhost:8002"
	}
}

func (c *Config) validate() error {
	switch c.StudentService.Driver {
	case DriverSQLite, DriverGormSQLite:
		if c.StudentService.StoragePath == "" {
			return errors.New("student_service.storage_path is required for sqlite drivers")
		}
	case DriverPostgres:
		if c.StudentService.DSN == "" {
			return errors.New("student_service.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown student_service.driver %q", c.StudentService.Driver)
	}

	if c.UserService.Workers < 1 {
		return errors.New("user_service.workers must be at least 1")
	}
	if c.UserService.QueueSize < 1 {
		return errors.New("user_service.queue_size must be at least 1")
	}
	return nil
}
