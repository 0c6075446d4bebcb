/*
Package billing is the core engine for rental billing reconciliation.

PURPOSE:
  Given a tenant's lease start date and an unordered history of payments,
  the engine determines how many billing periods have elapsed, whether the
  tenant is current or delinquent, what the next due date is, and derives
  the reporting aggregates (monthly income, occupancy rate, per-tenant
  totals) built on top of that determination.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A decimal monetary amount (rent, payment amounts, totals)
  - Tenant / Property / Payment: The three record types
  - TenantID / PropertyID / PaymentID: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Type Safety: Strong typing for IDs prevents mixing tenant/property IDs
  3. Tolerance: Dangling references degrade to "not found", never fail
  4. Purity: Calculations are pure functions over in-memory snapshots

SEE ALSO:
  - date.go: Calendar dates and period arithmetic
  - calculator.go: Due date and overdue determination
  - report.go: Aggregations over full collections
  - store.go: Repository interfaces for the record collections
*/
package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal amount
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(b Money) Money        { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) IsZero() bool             { return m.Value.IsZero() }
func (m Money) IsNegative() bool         { return m.Value.IsNegative() }
func (m Money) IsPositive() bool         { return m.Value.IsPositive() }
func (m Money) Equal(b Money) bool       { return m.Value.Equal(b.Value) }
func (m Money) GreaterThan(b Money) bool { return m.Value.GreaterThan(b.Value) }
func (m Money) String() string           { return m.Value.String() }

// Round2 rounds to 2 decimal places for display totals.
func (m Money) Round2() Money { return Money{Value: m.Value.Round(2)} }

// Money encodes as a bare JSON number so exported snapshots stay
// compatible with files produced by earlier versions of the system
// (which stored plain numbers).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Value.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		m.Value = decimal.Zero
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Value = v
	return nil
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TenantID string
type PropertyID string
type PaymentID string

func (id TenantID) IsZero() bool   { return id == "" }
func (id PropertyID) IsZero() bool { return id == "" }

// Legacy exports carried numeric ids (derived from the creation instant).
// The ID types accept both JSON strings and JSON numbers so those files
// still import cleanly; numbers are kept as their decimal string form.
func (id *TenantID) UnmarshalJSON(data []byte) error   { *id = TenantID(idFromJSON(data)); return nil }
func (id *PropertyID) UnmarshalJSON(data []byte) error { *id = PropertyID(idFromJSON(data)); return nil }
func (id *PaymentID) UnmarshalJSON(data []byte) error  { *id = PaymentID(idFromJSON(data)); return nil }

func idFromJSON(data []byte) string {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return ""
	}
	return s
}

// =============================================================================
// RECORDS
// =============================================================================

// Tenant is a rental tenant. PropertyID references a Property and may be
// absent or dangling; IDCard and Phone are optional.
type Tenant struct {
	ID         TenantID   `json:"id"`
	Name       string     `json:"name"`
	IDCard     string     `json:"idCard,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	PropertyID PropertyID `json:"propertyId,omitempty"`
	Rent       Money      `json:"rent"`
	StartDate  Date       `json:"startDate"`
}

// Property is a rentable unit. Occupancy is not stored: it is inferred by
// scanning tenants for a matching PropertyID.
type Property struct {
	ID      PropertyID `json:"id"`
	Name    string     `json:"name"`
	Address string     `json:"address"`
}

// Payment is an atomic, full-amount payment by a tenant. Payments never
// reference a property directly; property attribution is resolved
// transitively through the tenant.
type Payment struct {
	ID       PaymentID `json:"id"`
	TenantID TenantID  `json:"tenantId"`
	Date     Date      `json:"date"`
	Amount   Money     `json:"amount"`
}

// =============================================================================
// COLLECTION LOOKUPS - Dangling references degrade to (zero, false)
// =============================================================================

// FindTenant returns the tenant with the given id, scanning in collection
// order. The boolean forces call sites to handle the missing case.
func FindTenant(tenants []Tenant, id TenantID) (Tenant, bool) {
	for _, t := range tenants {
		if t.ID == id {
			return t, true
		}
	}
	return Tenant{}, false
}

func FindProperty(properties []Property, id PropertyID) (Property, bool) {
	for _, p := range properties {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

func FindPayment(payments []Payment, id PaymentID) (Payment, bool) {
	for _, p := range payments {
		if p.ID == id {
			return p, true
		}
	}
	return Payment{}, false
}

// Occupant resolves "the tenant of a property": the first tenant in
// collection order whose PropertyID matches. A data bug can leave several
// tenants pointing at one property; the first match wins, always.
func Occupant(tenants []Tenant, id PropertyID) (Tenant, bool) {
	for _, t := range tenants {
		if t.PropertyID == id && !id.IsZero() {
			return t, true
		}
	}
	return Tenant{}, false
}

// PaymentsOf returns the payments belonging to one tenant, preserving
// collection order.
func PaymentsOf(payments []Payment, id TenantID) []Payment {
	var out []Payment
	for _, p := range payments {
		if p.TenantID == id {
			out = append(out, p)
		}
	}
	return out
}
