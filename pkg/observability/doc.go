/*
Package observability turns validation lifecycle hooks into Prometheus
metrics and structured log records.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Combine(metrics.Hooks(), observability.LogHooks(logger))
	guard, err := rail.LoadFile(ctx, "profile.rail", rail.WithHooks(hooks))
*/
package observability
