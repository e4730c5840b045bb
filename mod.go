// Package kvcoll defines the module-wide logger and the registry of the
// prometheus collectors populated by the packages of the module.
package kvcoll

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger().
	Level(zerolog.InfoLevel)

// PromCollectors exposes the metrics of the module so that an application can
// register them to its own prometheus registry.
var PromCollectors []prometheus.Collector
