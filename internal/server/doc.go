// Package server implements the knapsack task HTTP API.
//
// Routes:
//
//	POST /knapsack       submit a problem (JSON or form body), returns the task
//	GET  /knapsack/{id}  task status, with the solution once completed
//	GET  /health         liveness
//	GET  /ready          readiness, true while the service is running
//	GET  /metrics        Prometheus exposition
//
// API routes pass through metrics, request id, panic recovery, rate limiting
// and request logging middleware, in that order. Errors are returned as
// ErrorResponse JSON bodies.
package server
