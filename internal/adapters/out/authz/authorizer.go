// Package authz provides a configuration-driven Authorizer. Admin actors come
// from the environment; everybody else gets operator clearance, and empty
// actors get none.
package authz

import (
	"orderflow/internal/core/ports"
)

// StaticAuthorizer resolves clearance from a fixed admin list.
type StaticAuthorizer struct {
	admins map[string]struct{}
}

// NewStaticAuthorizer creates an authorizer granting admin clearance to the
// listed actors.
func NewStaticAuthorizer(adminActors []string) *StaticAuthorizer {
	admins := make(map[string]struct{}, len(adminActors))
	for _, actor := range adminActors {
		if actor != "" {
			admins[actor] = struct{}{}
		}
	}
	return &StaticAuthorizer{admins: admins}
}

// ClearanceFor returns the privilege level of the actor.
func (a *StaticAuthorizer) ClearanceFor(actor string) ports.Clearance {
	if actor == "" {
		return ports.ClearanceNone
	}
	if _, ok := a.admins[actor]; ok {
		return ports.ClearanceAdmin
	}
	return ports.ClearanceOperator
}
