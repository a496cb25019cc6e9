package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v2"
)

// DatabaseConfig holds the database connection information.
type DatabaseConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

// MockConfig controls the simulated data generators.
type MockConfig struct {
	// Seed fixes the random source. Zero means a random seed per process.
	Seed uint64 `yaml:"seed"`
	// LatencyScale multiplies every simulated delay. Zero disables the delays.
	LatencyScale *float64 `yaml:"latency_scale"`
}

// Scale returns the effective latency multiplier.
func (m MockConfig) Scale() float64 {
	if m.LatencyScale == nil {
		return 1
	}
	return *m.LatencyScale
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	ExpirySchedule string `yaml:"expiry_schedule"`
}

// ServiceConfig describes how a key for a third-party service is probed.
type ServiceConfig struct {
	TestURL string `yaml:"test_url"`
}

// KeyTesterConfig holds configuration for the API key tester.
type KeyTesterConfig struct {
	Timeout  string                   `yaml:"timeout"`
	Services map[string]ServiceConfig `yaml:"services"`
}

// TimeoutDuration parses Timeout. LoadConfig has already validated it.
func (k KeyTesterConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(k.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// Config holds the configuration for the dashboard backend.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Mock      MockConfig      `yaml:"mock"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	KeyTester KeyTesterConfig `yaml:"key_tester"`
	Port      int             `yaml:"port"`
	Debug     bool            `yaml:"debug"`
}

// LoadConfig reads and parses the configuration file. It returns the config and a potential warning message.
var LoadConfig = func(path string) (*Config, string, error) {
	var config Config
	var warnings []string

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("failed to read config file: %w", err)
	}
	// A missing file is fine, environment variables and defaults fill the gaps.

	if err := applyEnv(&config); err != nil {
		return nil, "", err
	}

	if config.Database.Type == "" && config.Database.DSN == "" {
		if host := os.Getenv("DB_HOST"); host != "" {
			config.Database.Type = "mysql"
			config.Database.DSN = mysqlDSNFromEnv(host)
		} else {
			config.Database.Type = "sqlite"
			config.Database.DSN = "nlpengine.db"
			warnings = append(warnings, "database not configured, using sqlite file nlpengine.db")
		}
	}
	if config.Database.Type == "" || config.Database.DSN == "" {
		return nil, "", fmt.Errorf("database type and dsn must be configured together")
	}

	if config.Port == 0 {
		config.Port = 8080
	}
	if config.Scheduler.ExpirySchedule == "" {
		config.Scheduler.ExpirySchedule = "@daily"
	}
	if config.KeyTester.Timeout == "" {
		config.KeyTester.Timeout = "10s"
	}
	if _, err := time.ParseDuration(config.KeyTester.Timeout); err != nil {
		return nil, "", fmt.Errorf("invalid key_tester.timeout %q: %w", config.KeyTester.Timeout, err)
	}
	if config.Mock.Scale() < 0 {
		return nil, "", fmt.Errorf("mock.latency_scale must not be negative")
	}

	return &config, strings.Join(warnings, "; "), nil
}

func applyEnv(config *Config) error {
	if dsn := os.Getenv("NLPENGINE_DATABASE_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}
	if dbType := os.Getenv("NLPENGINE_DATABASE_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if port := os.Getenv("NLPENGINE_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid NLPENGINE_PORT %q: %w", port, err)
		}
		config.Port = p
	}
	if debug := os.Getenv("NLPENGINE_DEBUG"); debug != "" {
		config.Debug = debug == "true"
	}
	if seed := os.Getenv("NLPENGINE_MOCK_SEED"); seed != "" {
		s, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid NLPENGINE_MOCK_SEED %q: %w", seed, err)
		}
		config.Mock.Seed = s
	}
	if scale := os.Getenv("NLPENGINE_MOCK_LATENCY_SCALE"); scale != "" {
		f, err := strconv.ParseFloat(scale, 64)
		if err != nil {
			return fmt.Errorf("invalid NLPENGINE_MOCK_LATENCY_SCALE %q: %w", scale, err)
		}
		config.Mock.LatencyScale = &f
	}
	return nil
}

// mysqlDSNFromEnv builds a DSN from the DB_HOST, DB_USER, DB_PASSWORD and DB_NAME variables.
func mysqlDSNFromEnv(host string) string {
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "3306")
	}
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = host
	mc.User = os.Getenv("DB_USER")
	mc.Passwd = os.Getenv("DB_PASSWORD")
	mc.DBName = os.Getenv("DB_NAME")
	mc.ParseTime = true
	return mc.FormatDSN()
}
