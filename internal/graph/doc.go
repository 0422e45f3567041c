// Package graph holds the entity registry: the insertion-ordered set of
// graph nodes discovered from the topology, keyed by node identity. The
// registry itself does no locking; the owning device serializes all access
// during the discovery-to-completion window.
package graph
