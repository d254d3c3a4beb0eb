package logger

import (
	log "github.com/sirupsen/logrus"
)

// Setup configures the package-level logrus logger used across the service.
func Setup(level string) {
	log.SetFormatter(&log.JSONFormatter{})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
