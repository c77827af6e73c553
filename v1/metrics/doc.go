// Package metrics provides a Prometheus registry and the HTTP server that
// exposes it.
//
// Every Metrics value owns an isolated registry. Metrics registered through
// it carry a constant service label and the configured namespace prefix.
// *Metrics is itself an observability.Observer: handed to a client, it counts
// operations and records their latency per component and operation.
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:                 ":9090",
//		EnableDefaultCollectors: true,
//		Namespace:               "search",
//		ServiceName:             "search-store",
//	})
//	go m.Server.ListenAndServe()
//
//	client, err := qdrant.NewClient(cfg, qdrant.WithObserver(m))
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		fx.Provide(func() metrics.Config { return metrics.Config{Address: ":9090"} }),
//	)
//
// # Configuration
//
//	METRICS_ADDRESS=:9090                      # Port and address for /metrics endpoint
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true     # Enable runtime and process metrics
//	METRICS_NAMESPACE=search                   # Optional prefix for all metric names
//	METRICS_SERVICE_NAME=search-store          # Adds service label to all metrics
//
// Avoid unbounded label values; collection names are fine, point ids are not.
package metrics
