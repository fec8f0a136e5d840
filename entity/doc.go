// Package entity implements the Entity contract and graph from §3/§4.2: a
// uniform Step/Output contract for stepwise components, non-owning pre/post
// edges, and an Arena that owns entities by handle.
//
// Per §9's "replacing manual new/delete with arena ownership" note, entities
// form a DAG of non-owning references (Pre, Post); Arena owns the entities
// in a single contiguous slice indexed by handle, which also removes the
// pointer-graph cycles a naive owning-pointer implementation would
// introduce via Connect.
package entity
