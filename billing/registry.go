/*
registry.go - Record lifecycle over the replace-all store contract

PURPOSE:
  Creates, updates, and deletes records on top of the List/Replace store
  contract: read the full collection, mutate it in memory, write the full
  collection back. Last write wins; there are no merge semantics.

IDENTITY:
  Ids are assigned at creation by an injectable IDSource. The default is
  UUIDv4, replacing the old creation-timestamp scheme whose uniqueness
  silently assumed a single sub-millisecond writer. Tests inject a
  sequential source for stable fixtures.

DESTRUCTIVE OPERATIONS:
  Deletes require an explicit affirmative confirmation. Declining returns
  ErrConfirmationRequired and changes nothing. Deletes do NOT cascade:
  removing a tenant or property leaves dangling references behind, which
  every reader tolerates by contract.

VALIDATION:
  Records are validated here, at the store boundary: names must be
  present, amounts non-negative, dates non-zero where required.

SEE ALSO:
  - store.go: The List/Replace contract
  - errors.go: ErrConfirmationRequired, ValidationError
*/
package billing

import (
	"context"

	"github.com/google/uuid"
)

// =============================================================================
// ID SOURCE
// =============================================================================

// IDSource generates record identifiers. Must yield unique values across
// the deployment's lifetime.
type IDSource interface {
	NewID() string
}

// UUIDSource is the default IDSource.
type UUIDSource struct{}

func (UUIDSource) NewID() string { return uuid.NewString() }

// =============================================================================
// REGISTRY
// =============================================================================

// Registry manages record lifecycle against a Store.
type Registry struct {
	Store Store
	IDs   IDSource
}

func NewRegistry(store Store) *Registry {
	return &Registry{Store: store, IDs: UUIDSource{}}
}

// -----------------------------------------------------------------------------
// Tenants
// -----------------------------------------------------------------------------

func validateTenant(t Tenant) error {
	if t.Name == "" {
		return &ValidationError{Record: "tenant", Field: "name", Reason: "is required"}
	}
	if t.Rent.IsNegative() {
		return &ValidationError{Record: "tenant", Field: "rent", Reason: "must be non-negative"}
	}
	if t.StartDate.IsZero() {
		return &ValidationError{Record: "tenant", Field: "startDate", Reason: "is required"}
	}
	return nil
}

// AddTenant assigns an id and appends the tenant. The PropertyID is not
// checked against the property collection; a reference to a property that
// never existed is tolerated the same way as one left dangling by a
// later delete.
func (r *Registry) AddTenant(ctx context.Context, t Tenant) (Tenant, error) {
	if err := validateTenant(t); err != nil {
		return Tenant{}, err
	}
	tenants, err := r.Store.ListTenants(ctx)
	if err != nil {
		return Tenant{}, err
	}
	t.ID = TenantID(r.IDs.NewID())
	tenants = append(tenants, t)
	if err := r.Store.ReplaceTenants(ctx, tenants); err != nil {
		return Tenant{}, err
	}
	return t, nil
}

// UpdateTenant replaces the tenant with the same id in place.
func (r *Registry) UpdateTenant(ctx context.Context, t Tenant) error {
	if err := validateTenant(t); err != nil {
		return err
	}
	tenants, err := r.Store.ListTenants(ctx)
	if err != nil {
		return err
	}
	for i := range tenants {
		if tenants[i].ID == t.ID {
			tenants[i] = t
			return r.Store.ReplaceTenants(ctx, tenants)
		}
	}
	return ErrTenantNotFound
}

// DeleteTenant removes the tenant. Payments referencing it are left in
// place and become dangling.
func (r *Registry) DeleteTenant(ctx context.Context, id TenantID, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	tenants, err := r.Store.ListTenants(ctx)
	if err != nil {
		return err
	}
	for i := range tenants {
		if tenants[i].ID == id {
			tenants = append(tenants[:i], tenants[i+1:]...)
			return r.Store.ReplaceTenants(ctx, tenants)
		}
	}
	return ErrTenantNotFound
}

// -----------------------------------------------------------------------------
// Properties
// -----------------------------------------------------------------------------

func validateProperty(p Property) error {
	if p.Name == "" {
		return &ValidationError{Record: "property", Field: "name", Reason: "is required"}
	}
	return nil
}

func (r *Registry) AddProperty(ctx context.Context, p Property) (Property, error) {
	if err := validateProperty(p); err != nil {
		return Property{}, err
	}
	properties, err := r.Store.ListProperties(ctx)
	if err != nil {
		return Property{}, err
	}
	p.ID = PropertyID(r.IDs.NewID())
	properties = append(properties, p)
	if err := r.Store.ReplaceProperties(ctx, properties); err != nil {
		return Property{}, err
	}
	return p, nil
}

func (r *Registry) UpdateProperty(ctx context.Context, p Property) error {
	if err := validateProperty(p); err != nil {
		return err
	}
	properties, err := r.Store.ListProperties(ctx)
	if err != nil {
		return err
	}
	for i := range properties {
		if properties[i].ID == p.ID {
			properties[i] = p
			return r.Store.ReplaceProperties(ctx, properties)
		}
	}
	return ErrPropertyNotFound
}

// DeleteProperty removes the property. Tenants referencing it keep their
// PropertyID and resolve to "N/A" from then on.
func (r *Registry) DeleteProperty(ctx context.Context, id PropertyID, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	properties, err := r.Store.ListProperties(ctx)
	if err != nil {
		return err
	}
	for i := range properties {
		if properties[i].ID == id {
			properties = append(properties[:i], properties[i+1:]...)
			return r.Store.ReplaceProperties(ctx, properties)
		}
	}
	return ErrPropertyNotFound
}

// -----------------------------------------------------------------------------
// Payments
// -----------------------------------------------------------------------------

func validatePayment(p Payment) error {
	if p.TenantID == "" {
		return &ValidationError{Record: "payment", Field: "tenantId", Reason: "is required"}
	}
	if p.Date.IsZero() {
		return &ValidationError{Record: "payment", Field: "date", Reason: "is required"}
	}
	if p.Amount.IsNegative() {
		return &ValidationError{Record: "payment", Field: "amount", Reason: "must be non-negative"}
	}
	return nil
}

func (r *Registry) AddPayment(ctx context.Context, p Payment) (Payment, error) {
	if err := validatePayment(p); err != nil {
		return Payment{}, err
	}
	payments, err := r.Store.ListPayments(ctx)
	if err != nil {
		return Payment{}, err
	}
	p.ID = PaymentID(r.IDs.NewID())
	payments = append(payments, p)
	if err := r.Store.ReplacePayments(ctx, payments); err != nil {
		return Payment{}, err
	}
	return p, nil
}

// UpdatePayment is the one sanctioned way a recorded payment changes.
func (r *Registry) UpdatePayment(ctx context.Context, p Payment) error {
	if err := validatePayment(p); err != nil {
		return err
	}
	payments, err := r.Store.ListPayments(ctx)
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].ID == p.ID {
			payments[i] = p
			return r.Store.ReplacePayments(ctx, payments)
		}
	}
	return ErrPaymentNotFound
}

func (r *Registry) DeletePayment(ctx context.Context, id PaymentID, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	payments, err := r.Store.ListPayments(ctx)
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].ID == id {
			payments = append(payments[:i], payments[i+1:]...)
			return r.Store.ReplacePayments(ctx, payments)
		}
	}
	return ErrPaymentNotFound
}
