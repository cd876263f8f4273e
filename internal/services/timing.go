package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TrackTime logs how long an import stage took at debug level
func TrackTime(logger *log.Entry, stage string, start time.Time) {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	logger.WithFields(log.Fields{
		"stage":      stage,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("stage finished")
}
