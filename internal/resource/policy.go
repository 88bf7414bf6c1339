package resource

import "citeapi.org/internal/schema"

// Capability is a named permission gated by a resource's policy.
type Capability string

const (
	CapRetrieve Capability = "retrieve"
	CapCreate   Capability = "create"
	CapUpdate   Capability = "update"
	CapDelete   Capability = "delete"
)

// CapabilityFor maps an HTTP method to the capability it invokes.
func CapabilityFor(m schema.Method) (Capability, bool) {
	switch m {
	case schema.MethodPost:
		return CapCreate, true
	case schema.MethodGet:
		return CapRetrieve, true
	case schema.MethodPut:
		return CapUpdate, true
	case schema.MethodDelete:
		return CapDelete, true
	}
	return "", false
}

// Class is the principal class a capability is open to.
type Class int

const (
	// Everyone passes unconditionally, authenticated or not.
	Everyone Class = iota
	// Authenticated requires a principal resolved from a valid token.
	Authenticated
)

// Policy maps capabilities to the principal class allowed to invoke them.
// Capabilities absent from the table are denied outright. Policies are
// stateless and evaluated fresh per request, before validation runs.
type Policy map[Capability]Class

// Allows reports whether the capability is open to the caller.
func (p Policy) Allows(cap Capability, authenticated bool) bool {
	class, ok := p[cap]
	if !ok {
		return false
	}
	return class == Everyone || authenticated
}
