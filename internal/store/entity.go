// Package store is the generic data-access layer: per-entity SQL bindings,
// a generic repository evaluated through the spec package, and a unit of work
// that commits all pending mutations in one transaction.
package store

// Entity is the capability every stored record carries: an integer identity,
// assigned by the store on insert. Implemented on pointer types so SetID is
// visible after commit.
type Entity interface {
	GetID() int
	SetID(id int)
}
