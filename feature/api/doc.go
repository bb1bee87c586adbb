// Package api exposes the poll-style REST surface for inventory sessions.
//
// A host uploads a spreadsheet catalog to create a session, scanners submit
// codes against it, and any participant fetches the authoritative snapshot or
// the aggregate stats by polling. All state lives in the keyed session store,
// so the surface works across server restarts and multiple replicas.
//
// # Endpoints
//
//   - POST   /api/upload   Create a session from a CSV or XLSX catalog.
//   - GET    /api/session  Fetch the full session snapshot.
//   - POST   /api/scan     Submit one scanned code.
//   - GET    /api/stats    Fetch aggregate progress counters.
//   - POST   /api/catalog  Replace the catalog of an existing session.
//   - DELETE /api/session  Destroy a session.
//   - GET    /api/report   Download the reconciliation report as CSV.
//   - GET    /api/qr       Render the session join QR as PNG.
//   - GET    /api/health   Liveness probe.
//
// Missing or expired sessions answer 404; malformed input answers 400. Both
// carry a JSON error body.
package api
