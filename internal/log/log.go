// Package log configures the process-wide slog logger on top of Uber's Zap.
//
// Initialize() should be called once from main before anything logs. Until it
// is called, slog.Default() keeps the standard library handler.
//
// See the Zap docs for more details: https://pkg.go.dev/go.uber.org/zap
package log

import (
	golog "log"
	"log/slog"
	"strings"

	"github.com/blendle/zapdriver"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// LoggingEnv is used to represent a specific configuration used by a given
// environment.
type LoggingEnv string

// String implements the Stringer interface.
func (e LoggingEnv) String() string {
	return string(e)
}

const (
	LoggingEnvDev  LoggingEnv = "dev"
	LoggingEnvProd LoggingEnv = "prod"
)

var currentEnv = LoggingEnvDev

// Env returns the environment selected by the last call to Initialize.
func Env() LoggingEnv {
	return currentEnv
}

// Initialize builds the zap logger for env and installs it as slog.Default.
//
// "prod" uses the zapdriver production configuration (Cloud Logging friendly
// JSON), anything else uses Zap's development configuration.
func Initialize(env string) *zap.Logger {
	var err error
	var logger *zap.Logger
	switch strings.ToLower(env) {
	case LoggingEnvProd.String():
		currentEnv = LoggingEnvProd
		config := zapdriver.NewProductionConfig()
		// Scans can emit many lines with the same message; keep them all.
		config.Sampling = nil
		logger, err = config.Build(zapdriver.WrapCore())
	case LoggingEnvDev.String():
		fallthrough
	default:
		currentEnv = LoggingEnvDev
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		golog.Panic(err)
	}
	zap.RedirectStdLog(logger)

	handler := zapslog.NewHandler(logger.Core(), zapslog.WithCaller(true))
	slog.SetDefault(slog.New(NewContextLogHandler(handler)))
	return logger
}

// LabelAttr marks the attribute as a Cloud Logging label when running with
// LoggingEnvProd. Otherwise it is the same as slog.String.
func LabelAttr(key, value string) slog.Attr {
	if currentEnv == LoggingEnvProd {
		return slog.String("labels."+key, value)
	}
	return slog.String(key, value)
}
