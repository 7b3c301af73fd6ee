// Package transport provides the HTTP middleware stack for the policy
// service: request IDs, panic recovery, and structured request logging.
// The middleware operates on plain net/http handlers so it composes with
// any mux.
package transport
