// Package sync defines the Synchronizer capability: the operations that
// propagate session mutations between participants, independent of transport.
//
// Two interchangeable designs implement it:
//
//   - relay: a stateful websocket hub (feature/relay) that applies mutations
//     and fans the resulting state out to connected members in real time.
//   - poll: request/response calls against the shared store (feature/api),
//     with each participant periodically re-fetching the full session through
//     a Poller and replacing its local replica wholesale.
//
// The Service type is the store-backed implementation shared by both: the
// relay hub wraps it with membership and broadcast, the REST feature exposes
// it directly. Deployment configuration selects which surfaces are enabled.
package sync
