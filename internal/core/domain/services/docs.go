// Package services provides domain services that implement business rules
// spanning multiple aggregates. A domain service is stateless; it receives
// every aggregate it needs as an argument and never touches persistence.
//
// The package includes:
//   - RefundPolicy: enforces the cumulative refund cap of an order
package services
