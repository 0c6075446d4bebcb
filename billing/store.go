/*
store.go - Repository interfaces for the record collections

PURPOSE:
  Defines the contract between the billing engine and whatever holds the
  records. The engine never reads ambient global state: a Store is
  injected into Engine and Registry, and every calculation reads the full
  collection fresh through it.

THE CONTRACT:
  Each collection supports exactly two operations:
  - List:    the full collection, in stored order (empty if absent)
  - Replace: idempotent whole-collection overwrite, no merge semantics

  There is no per-record write. Creates, updates, and deletes are
  expressed by the Registry as List + mutate + Replace, which gives
  "last write wins" and nothing more. Referential integrity is NOT
  enforced: deletes do not cascade, and readers must tolerate the
  resulting dangling references.

IMPLEMENTATIONS:
  - billing/store: in-memory (tests, dev)
  - store/sqlite:  SQLite-backed (production)

SEE ALSO:
  - registry.go: CRUD built on this contract
  - engine.go: Calculations reading through this contract
*/
package billing

import "context"

// TenantRepository is the keyed tenant collection.
type TenantRepository interface {
	// ListTenants returns the full collection in stored order.
	// An absent collection is an empty slice, not an error.
	ListTenants(ctx context.Context) ([]Tenant, error)

	// ReplaceTenants overwrites the full collection.
	ReplaceTenants(ctx context.Context, tenants []Tenant) error
}

// PropertyRepository is the keyed property collection.
type PropertyRepository interface {
	ListProperties(ctx context.Context) ([]Property, error)
	ReplaceProperties(ctx context.Context, properties []Property) error
}

// PaymentRepository is the keyed payment collection.
type PaymentRepository interface {
	ListPayments(ctx context.Context) ([]Payment, error)
	ReplacePayments(ctx context.Context, payments []Payment) error
}

// Store aggregates the three repositories. The design assumes exactly one
// active reader/writer; implementations guard their own internals but
// provide no cross-call transactions or atomicity beyond whole-collection
// replace.
type Store interface {
	TenantRepository
	PropertyRepository
	PaymentRepository
}
