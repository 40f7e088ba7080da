package cmd

import (
	"flag"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data", "", "Path to the data folder (defaults to $FINANCE_DATA or .finance)")
var dsn = flag.String("dsn", "", "SQL data source, mysql://... or postgres://... (defaults to $FINANCE_DSN). Overrides -data.")
var verbose = flag.Bool("v", false, "log debug messages")

// DefaultDataDir is the data folder used when nothing else is configured.
const DefaultDataDir = ".finance"

// Config is the resolved configuration of the application.
type Config struct {
	DataDir  string
	DSN      string
	LogLevel logrus.Level
}

// LoadConfig resolves the configuration from flags, then environment, then defaults.
func LoadConfig() Config {
	return resolveConfig(os.Getenv, *dataDir, *dsn, *verbose)
}

func resolveConfig(getenv func(string) string, data, source string, debug bool) Config {
	cfg := Config{DataDir: DefaultDataDir, LogLevel: logrus.InfoLevel}
	if v := getenv("FINANCE_DATA"); v != "" {
		cfg.DataDir = v
	}
	if data != "" {
		cfg.DataDir = data
	}
	cfg.DSN = getenv("FINANCE_DSN")
	if source != "" {
		cfg.DSN = source
	}
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(getenv("FINANCE_LOG_LEVEL"))); err == nil {
		cfg.LogLevel = lvl
	}
	if debug {
		cfg.LogLevel = logrus.DebugLevel
	}
	return cfg
}
