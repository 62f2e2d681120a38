package utils

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// InitLogger configures the process-wide logrus logger and returns it.
// The standard logger is used so that the gorm bridge shares the same output.
func InitLogger(level string, production bool) *log.Logger {
	logger := log.StandardLogger()
	logger.SetOutput(os.Stdout)

	if production {
		logger.SetFormatter(&log.JSONFormatter{
			FieldMap: log.FieldMap{
				log.FieldKeyTime: "@timestamp",
				log.FieldKeyMsg:  "message",
			},
		})
	} else {
		logger.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("Unknown log level, falling back to info")
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger
}
