// pkg/engine/id.go
package engine

// InvalidAgentID is the sentinel returned for failed registrations and
// safe to use as an "absent agent" marker in host code: the id transform
// can never produce 0 for a valid index.
const InvalidAgentID uint32 = 0

// agentIDMask obfuscates internal array indices into opaque public ids.
// It must be >= MaxAgents so that decoding any id below MaxAgents yields
// an index >= MaxAgents (rejected as unknown), and so that index 0 maps
// to a non-zero id.
const agentIDMask uint32 = 0xABCD

// idToIndex decodes a public agent id into the internal array index.
// Out-of-range ids (including InvalidAgentID) decode to an index
// >= MaxAgents, which every consumer must reject without touching
// storage.
func idToIndex(id uint32) uint32 {
	return id ^ agentIDMask
}

// indexToID encodes an internal index as a public agent id. The XOR
// transform is its own inverse, so indexToID and idToIndex are mutual
// inverses over the whole uint32 domain. Ids are stable for the lifetime
// of the context; an index is never reassigned within a round.
func indexToID(index uint32) uint32 {
	return idToIndex(index)
}
