package billing

import "context"

// =============================================================================
// ENGINE - Store-reading composition of calculator + reports
// =============================================================================

// Engine wires the pure calculation functions to a Store. Every method
// reads the collections it needs fresh from the store - no caching, no
// partial reads - so results always reflect the latest committed state.
//
// Now supplies the reference date and defaults to Today; tests inject a
// fixed date for determinism.
type Engine struct {
	Store Store
	Now   func() Date
}

func NewEngine(store Store) *Engine {
	return &Engine{Store: store, Now: Today}
}

func (e *Engine) reference() Date {
	if e.Now != nil {
		return e.Now()
	}
	return Today()
}

// Dashboard returns the landing-page counters as of the reference date.
func (e *Engine) Dashboard(ctx context.Context) (DashboardSummary, error) {
	tenants, err := e.Store.ListTenants(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	properties, err := e.Store.ListProperties(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	payments, err := e.Store.ListPayments(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	return Dashboard(tenants, properties, payments, e.reference()), nil
}

// Overdue returns the delinquency report as of the reference date.
func (e *Engine) Overdue(ctx context.Context) ([]OverdueLine, error) {
	tenants, err := e.Store.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	properties, err := e.Store.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := e.Store.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	return OverdueReport(tenants, properties, payments, e.reference()), nil
}

// Income returns per-month income totals in first-seen order.
func (e *Engine) Income(ctx context.Context) ([]MonthlyTotal, error) {
	payments, err := e.Store.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	return IncomeByMonth(payments), nil
}

// OccupancyRate returns the occupancy report with its definedness sentinel.
func (e *Engine) OccupancyRate(ctx context.Context) (OccupancyReport, error) {
	properties, err := e.Store.ListProperties(ctx)
	if err != nil {
		return OccupancyReport{}, err
	}
	tenants, err := e.Store.ListTenants(ctx)
	if err != nil {
		return OccupancyReport{}, err
	}
	return Occupancy(properties, tenants), nil
}

// RentIncome returns lifetime income per tenant plus the grand total.
func (e *Engine) RentIncome(ctx context.Context) (RentIncomeReport, error) {
	tenants, err := e.Store.ListTenants(ctx)
	if err != nil {
		return RentIncomeReport{}, err
	}
	payments, err := e.Store.ListPayments(ctx)
	if err != nil {
		return RentIncomeReport{}, err
	}
	return IncomeByTenant(tenants, payments), nil
}

// TenantStatement returns the detail view for one tenant.
// Returns ErrTenantNotFound for an unknown id - this is a direct lookup,
// not a dangling reference inside derived output.
func (e *Engine) TenantStatement(ctx context.Context, id TenantID) (TenantStatement, error) {
	tenants, err := e.Store.ListTenants(ctx)
	if err != nil {
		return TenantStatement{}, err
	}
	tenant, ok := FindTenant(tenants, id)
	if !ok {
		return TenantStatement{}, ErrTenantNotFound
	}
	properties, err := e.Store.ListProperties(ctx)
	if err != nil {
		return TenantStatement{}, err
	}
	payments, err := e.Store.ListPayments(ctx)
	if err != nil {
		return TenantStatement{}, err
	}
	return Statement(tenant, properties, payments, e.reference()), nil
}
