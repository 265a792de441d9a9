package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/bazaar/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	flagHome     = "home"
	flagLogLevel = "log-level"
	flagLogFile  = "log-file"
	flagBind     = "bind"
	flagDebug    = "debug"
	flagMetrics  = "metrics"

	envPrefix  = "BAZAAR"
	configName = "bazaar"
)

// Config is the node configuration. Values are read from the command line,
// the BAZAAR_* environment and the optional <home>/config/bazaar.toml file,
// in that order of precedence.
type Config struct {
	Home     string
	LogLevel string
	// LogFile enables log rotation to given path instead of stdout.
	LogFile string
	Bind    string
	Debug   bool
	// Metrics is the address the prometheus handler listens on. Empty
	// disables the metrics endpoint.
	Metrics string
}

func defaultHome() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".bazaar")
}

// loadConfig parses the global flags and returns the configuration together
// with the remaining positional arguments.
func loadConfig(args []string) (Config, []string, error) {
	v := viper.New()
	fs := pflag.NewFlagSet("bazaard", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Usage = helpMessage
	fs.String(flagHome, defaultHome(), "directory to store files under")
	fs.String(flagLogLevel, "info", "log filter, eg. info or *:error,state:debug")
	fs.String(flagLogFile, "", "write logs to a rotated file instead of stdout")
	fs.String(flagBind, "", "address the ABCI server listens on")
	fs.Bool(flagDebug, false, "call stack returned on error")
	fs.String(flagMetrics, "", "address the prometheus metrics are served on")
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(v.GetString(flagHome), "config"))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, nil, errors.Wrap(errors.ErrInput, err.Error())
		}
	}

	conf := Config{
		Home:     v.GetString(flagHome),
		LogLevel: v.GetString(flagLogLevel),
		LogFile:  v.GetString(flagLogFile),
		Bind:     v.GetString(flagBind),
		Debug:    v.GetBool(flagDebug),
		Metrics:  v.GetString(flagMetrics),
	}
	return conf, fs.Args(), nil
}

// newLogger returns the tendermint logger filtered to the configured level.
func newLogger(conf Config, stdout io.Writer) (log.Logger, error) {
	out := stdout
	if conf.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	logger := log.NewTMLogger(log.NewSyncWriter(out))
	opt, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt).With("module", "bazaar"), nil
}
