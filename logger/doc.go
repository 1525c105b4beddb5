// Package logger provides structured logging for pivotkit built on zerolog.
//
// A global logger backs the package-level Debug/Info/Warn/Error functions;
// WithComponent returns a tagged child logger for a subsystem:
//
//	log := logger.WithComponent("pivot")
//	log.Info("pivot registered", logger.Fields("entity", "Host", "pivot", "list_logons"))
package logger
