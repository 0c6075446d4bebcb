/*
report.go - Aggregations over full collections

PURPOSE:
  Derives every dashboard and report figure by composing the calculator
  over the three collections. All functions here are pure and independent:
  no shared mutable state, each call works on the snapshot it is handed.

AGGREGATES:
  MonthlyIncome:   sum of payments in the reference date's (month, year)
  OverdueTenants:  tenants failing IsOverdue
  Occupancy:       tenants / properties as a percentage (with a defined
                   sentinel for an empty portfolio)
  IncomeByMonth:   per-month totals in first-seen scan order
  IncomeByTenant:  lifetime income per tenant, seeded at zero, plus total

ORDERING:
  IncomeByMonth keys appear in the order they are first encountered while
  scanning payments in collection order, NOT chronological order. Reports
  render in that insertion order, so it is preserved here.

SEE ALSO:
  - calculator.go: IsOverdue / DueDate
  - engine.go: Store-reading composition of these functions
*/
package billing

// MonthlyIncome sums the amounts of payments whose date falls in the same
// (month, year) as the reference date.
func MonthlyIncome(payments []Payment, reference Date) Money {
	total := ZeroMoney()
	for _, p := range payments {
		if p.Date.SameMonth(reference) {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// OverdueTenants filters the tenant collection down to the delinquent
// ones, preserving collection order.
func OverdueTenants(tenants []Tenant, payments []Payment, reference Date) []Tenant {
	var overdue []Tenant
	for _, t := range tenants {
		if IsOverdue(t, payments, reference) {
			overdue = append(overdue, t)
		}
	}
	return overdue
}

// =============================================================================
// OCCUPANCY
// =============================================================================

// OccupancyReport is the occupancy rate with an explicit definedness
// sentinel: with zero properties the rate is undefined (division by
// zero), which callers must render as "not applicable" rather than a
// number.
type OccupancyReport struct {
	TotalProperties int
	Occupied        int
	Rate            Money // percentage, rounded to 2 decimal places
	Defined         bool
}

// Occupancy computes tenantCount / propertyCount * 100. The tenant count
// stands in for "occupied properties", matching how occupancy has always
// been reported by this system.
func Occupancy(properties []Property, tenants []Tenant) OccupancyReport {
	report := OccupancyReport{
		TotalProperties: len(properties),
		Occupied:        len(tenants),
	}
	if len(properties) == 0 {
		return report
	}
	rate := NewMoneyFromInt(len(tenants) * 100)
	report.Rate = Money{Value: rate.Value.Div(NewMoneyFromInt(len(properties)).Value)}.Round2()
	report.Defined = true
	return report
}

// =============================================================================
// INCOME BY MONTH
// =============================================================================

// MonthlyTotal is one line of the income report. Month is the "M/YYYY"
// label the report has always rendered.
type MonthlyTotal struct {
	Month string
	Total Money
}

// IncomeByMonth groups payment amounts by (month, year). Lines appear in
// the order each month is first seen scanning the collection.
func IncomeByMonth(payments []Payment) []MonthlyTotal {
	index := make(map[string]int)
	var totals []MonthlyTotal
	for _, p := range payments {
		key := p.Date.MonthKey()
		if i, ok := index[key]; ok {
			totals[i].Total = totals[i].Total.Add(p.Amount)
			continue
		}
		index[key] = len(totals)
		totals = append(totals, MonthlyTotal{Month: key, Total: p.Amount})
	}
	return totals
}

// =============================================================================
// INCOME BY TENANT
// =============================================================================

// TenantIncome is one tenant's cumulative payment amount.
type TenantIncome struct {
	TenantID TenantID
	Name     string
	Income   Money
}

// RentIncomeReport holds per-tenant lifetime income plus the grand total.
// Every known tenant has a line, seeded at zero; rendering contracts only
// include the positive ones (see Positive).
type RentIncomeReport struct {
	Lines []TenantIncome
	Total Money
}

// Positive returns only the lines with income greater than zero, the set
// the report actually renders.
func (r RentIncomeReport) Positive() []TenantIncome {
	var out []TenantIncome
	for _, line := range r.Lines {
		if line.Income.IsPositive() {
			out = append(out, line)
		}
	}
	return out
}

// IncomeByTenant sums payments per tenant. A payment referencing an
// unknown tenant id is silently skipped - it contributes to neither a
// line nor the grand total.
func IncomeByTenant(tenants []Tenant, payments []Payment) RentIncomeReport {
	index := make(map[TenantID]int, len(tenants))
	report := RentIncomeReport{
		Lines: make([]TenantIncome, 0, len(tenants)),
		Total: ZeroMoney(),
	}
	for i, t := range tenants {
		index[t.ID] = i
		report.Lines = append(report.Lines, TenantIncome{TenantID: t.ID, Name: t.Name, Income: ZeroMoney()})
	}
	for _, p := range payments {
		i, ok := index[p.TenantID]
		if !ok {
			continue
		}
		report.Lines[i].Income = report.Lines[i].Income.Add(p.Amount)
		report.Total = report.Total.Add(p.Amount)
	}
	return report
}

// =============================================================================
// DASHBOARD
// =============================================================================

// DashboardSummary is the landing-page counter set.
type DashboardSummary struct {
	TotalTenants    int
	TotalProperties int
	MonthlyIncome   Money
	OverdueTenants  int
}

func Dashboard(tenants []Tenant, properties []Property, payments []Payment, reference Date) DashboardSummary {
	return DashboardSummary{
		TotalTenants:    len(tenants),
		TotalProperties: len(properties),
		MonthlyIncome:   MonthlyIncome(payments, reference),
		OverdueTenants:  len(OverdueTenants(tenants, payments, reference)),
	}
}

// =============================================================================
// OVERDUE REPORT
// =============================================================================

// OverdueLine is one delinquent tenant with the resolved property name
// ("N/A" when dangling), the due date that was missed, and the rent owed.
type OverdueLine struct {
	Tenant       Tenant
	PropertyName string
	DueDate      Date
	AmountOwed   Money
}

func OverdueReport(tenants []Tenant, properties []Property, payments []Payment, reference Date) []OverdueLine {
	var lines []OverdueLine
	for _, t := range OverdueTenants(tenants, payments, reference) {
		lines = append(lines, OverdueLine{
			Tenant:       t,
			PropertyName: propertyNameOrNA(properties, t.PropertyID),
			DueDate:      DueDate(t, reference),
			AmountOwed:   t.Rent,
		})
	}
	return lines
}

// =============================================================================
// TENANT STATEMENT
// =============================================================================

// TenantStatement is the detail view for a single tenant: identity,
// resolved property, lifetime payment history (collection order), and the
// current billing status.
type TenantStatement struct {
	Tenant       Tenant
	PropertyName string
	Payments     []Payment
	DueDate      Date
	Overdue      bool
	TotalPaid    Money
}

func Statement(tenant Tenant, properties []Property, payments []Payment, reference Date) TenantStatement {
	history := PaymentsOf(payments, tenant.ID)
	total := ZeroMoney()
	for _, p := range history {
		total = total.Add(p.Amount)
	}
	return TenantStatement{
		Tenant:       tenant,
		PropertyName: propertyNameOrNA(properties, tenant.PropertyID),
		Payments:     history,
		DueDate:      DueDate(tenant, reference),
		Overdue:      IsOverdue(tenant, payments, reference),
		TotalPaid:    total,
	}
}

// UnknownRef is the sentinel rendered wherever a dangling reference
// would otherwise surface a name.
const UnknownRef = "N/A"

func propertyNameOrNA(properties []Property, id PropertyID) string {
	if p, ok := FindProperty(properties, id); ok {
		return p.Name
	}
	return UnknownRef
}
