// Package order provides the Order aggregate root and the workflow state
// machine of the order lifecycle engine.
//
// The package includes:
//   - Order: aggregate root holding the workflow state, monetary breakdown,
//     transition timestamps, delivery attempts, and last known location
//   - Status: the workflow state machine, a fixed adjacency table with pure
//     transition checks
//   - LineItem: validated record of one purchased product
//   - DeliveryAttempt: child record of one courier visit, capped by policy
//
// Key business rules:
//   - The main path advances one state at a time; no skipping
//   - Cancelled branches off any state before Delivered; Returned and
//     Refunded branch off Delivered; Returned may proceed to Refunded
//   - Completed, Cancelled, and Refunded are terminal
//   - Advancing to the already-current state is an idempotent success
//   - Each transition timestamp is set exactly once
//   - At most MaxDeliveryAttempts delivery attempts per order
//
// The package follows Domain-Driven Design principles: private fields,
// constructor validation, and no I/O anywhere in the domain model.
package order
