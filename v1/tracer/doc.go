// Package tracer sets up OpenTelemetry tracing.
//
// NewClient builds an SDK TracerProvider, optionally exporting over OTLP/HTTP,
// and installs it globally together with the W3C propagators. Clients in this
// module take the provider through their options:
//
//	t, err := tracer.NewClient(tracer.Config{ServiceName: "search-api", EnableExport: true}, log)
//	if err != nil {
//	    return err
//	}
//	defer t.Shutdown(ctx)
//
//	client, err := qdrant.NewClient(cfg, qdrant.WithTracer(t))
//
// # Configuration
//
//	TRACER_SERVICE_NAME=search-api
//	APP_ENV=production
//	TRACER_ENABLE_EXPORT=true
//	OTEL_EXPORTER_OTLP_ENDPOINT=http://collector:4318
package tracer
