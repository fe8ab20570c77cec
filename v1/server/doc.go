// Package server exposes the ingestion and query pipelines over HTTP.
//
// Routes:
//
//	GET  /api/v1/health
//	POST /api/v1/document/process   {"link": "...", "unique_id": "..."}
//	POST /api/v1/query              {"namespace": "...", "query": "...", "top_k": 30}
//	POST /api/v1/memory
//
// Every route except health requires an x-api-key header matching one of
// the configured keys. Failures are returned as {"success": false,
// "error": "..."}: invalid input 400, missing key 401, unknown namespace
// 404, exhausted capacity or unreachable registry 503, anything else 500.
package server
