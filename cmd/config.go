package cmd

import (
	"errors"
	"log/slog"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	appConfigBaseName = ".vigil"
	appConfigType     = "yaml"
	appConfigPath     = "."

	configFlagName   = "config"
	databaseFlagName = "database"
	verboseFlagName  = "verbose"

	scanParallelFlagName = "parallel"
	scanParallelKey      = "scan.parallel"

	defaultRulesFile = "vigil.yaml"
	defaultDatabase  = ".vigil/baseline.json"

	envPrefix = "VIGIL"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".vigil/vigil.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	globalLogger *slog.Logger
	logLevel     = new(slog.LevelVar)
)

// viperConfigured guards one-time viper setup. Package-level command vars
// initialize before init funcs run, so the root command calls this directly
// when it registers its flags.
var viperConfigured bool

func init() {
	initViperConfig()
}

func initViperConfig() {
	if viperConfigured {
		return
	}

	viperConfigured = true

	viper.SetConfigName(appConfigBaseName)
	viper.SetConfigType(appConfigType)
	viper.AddConfigPath(appConfigPath)
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configFlagName, defaultRulesFile)
	viper.SetDefault(databaseFlagName, defaultDatabase)
	viper.SetDefault(scanParallelKey, runtime.NumCPU())

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "critical":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger to write to a rotating
// log file.
//
// By default it logs at Info; if verbose is true it logs at Debug. The
// level can be tightened later from the rules file via setLogLevel.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	if verbose {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo))
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// setLogLevel applies a level name from the rules file to the running
// logger. The --verbose flag wins over the configured level.
func setLogLevel(name string, verbose bool) {
	if verbose || strings.TrimSpace(name) == "" {
		return
	}

	logLevel.Set(parseSlogLevel(name, logLevel.Level()))
}
