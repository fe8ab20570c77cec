// Package metrics exposes Prometheus metrics for the allocator, the registry
// connection pool and the HTTP API.
//
// Each Metrics owns its own registry, so tests and multiple instances never
// collide on metric names. All metrics carry a constant service label and
// are prefixed with Config.Namespace:
//
//	<ns>_placements_total{outcome}
//	<ns>_placement_duration_seconds{outcome}
//	<ns>_indexes_created_total{project}
//	<ns>_projects_exhausted_total{project}
//	<ns>_registry_pool_dials_total{result}
//	<ns>_registry_pool_idle_connections
//	<ns>_http_requests_total{route,status}
//	<ns>_http_request_duration_seconds{route}
//
// *Metrics implements allocator.Recorder and pool.Observer; FXModule
// provides it under both interfaces so the allocator and the database pool
// pick it up automatically.
//
// When EnableDefaultCollectors is true the Go runtime, process and build
// info collectors are registered too.
package metrics
