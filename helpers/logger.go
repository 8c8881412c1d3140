package helpers

import (
	"jralmeda/pcxscraper/logger"
)

// LoggerInterface is the progress/error sink consumed by the pipeline
type LoggerInterface interface {
	LogError(stage string, err error)
	LogInfo(format string, args ...interface{})
}

// ZerologSink implements LoggerInterface on top of the zerolog wrapper
type ZerologSink struct{}

// NewZerologSink creates a zerolog-backed progress sink
func NewZerologSink() *ZerologSink {
	return &ZerologSink{}
}

// LogError logs a recovered error with its pipeline stage
func (s *ZerologSink) LogError(stage string, err error) {
	if logger.Default == nil {
		return
	}
	logger.Default.Error().Str("stage", stage).Err(err).Msg("recovered error")
}

// LogInfo logs an informational progress message
func (s *ZerologSink) LogInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
