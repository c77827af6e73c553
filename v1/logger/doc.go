// Package logger provides structured logging on top of Uber's Zap.
//
// The Logger type exposes a small method set, Info/Debug/Warn/Error(msg, err,
// fields...), that the other packages of this module accept through narrow
// interfaces. Any value with those methods can stand in for it.
//
// # Direct Usage (Without FX)
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		EnableTracing: true,
//		ServiceName:   "search-api",
//	})
//
//	log.Info("Collection ready", nil, map[string]interface{}{
//		"collection": "docs",
//	})
//
//	// trace_id and span_id are added when ctx carries a span
//	log.WarnWithContext(ctx, "Query failed", err, nil)
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Info, ServiceName: "search-api"}
//		}),
//	)
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_ENABLE_TRACING=true      # add trace_id/span_id from context
//	LOGGER_SERVICE_NAME=search-api  # "service" field on every entry
//
// All methods are safe for concurrent use.
package logger
