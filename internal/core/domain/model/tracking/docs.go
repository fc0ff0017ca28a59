// Package tracking provides the immutable tracking event entity of the
// order ledger. Events are append-only: the store never mutates or removes
// a persisted event, and per-order append order matches transition order.
//
// Visibility is a property of the event, not of the storage: internal-only
// events live next to customer-visible ones and are filtered out at the
// query boundary when a customer-facing view is requested.
package tracking
