// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the
// handler.
//
// # Components
//
//   - RayID: Generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing.
//
// CORS is handled by Fiber's bundled cors middleware, configured permissively
// in the main application setup because scanner devices load the client from
// arbitrary origins.
package middleware
