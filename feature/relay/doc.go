// Package relay implements live session sync over websockets.
//
// Every participant connects to /ws and joins a session room by code. Scans
// and catalog updates flow through the hub, which applies them to the session
// store and broadcasts the outcome so every device converges immediately,
// without polling.
//
// # Events
//
// Inbound (client to hub):
//
//   - join-session     Join a room by session code, creating it when absent.
//   - new-scan         Submit one scanned code.
//   - update-catalog   Publish a new catalog table, resetting the ledger.
//
// Outbound (hub to clients):
//
//   - session-data     Full snapshot, sent to a member right after joining.
//   - scan-applied     A scan mutated the ledger; sent to the whole room.
//   - scan-duplicate, scan-quota-exceeded, scan-invalid
//     Benign rejections, sent to the submitting member only.
//   - catalog-updated  New catalog snapshot, sent to the whole room.
//   - participants     Connected-member count, on every join and leave.
//   - error            Request-level failure, sent to the offending member.
//
// When the last member of a room disconnects, the hub keeps the session
// alive for a grace period before destroying it, so a momentary network blip
// does not discard in-progress inventory work.
package relay
