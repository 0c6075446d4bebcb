// Package store provides the in-memory Store implementation (tests/dev).
package store

import (
	"context"
	"sync"

	"github.com/warp/rental-engine/billing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation of billing.Store
// =============================================================================

// Memory holds the three collections in slices, guarded by a single
// RWMutex. List returns copies so callers can never mutate stored state
// behind the store's back.
type Memory struct {
	mu         sync.RWMutex
	tenants    []billing.Tenant
	properties []billing.Property
	payments   []billing.Payment
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ListTenants(_ context.Context) ([]billing.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]billing.Tenant, len(m.tenants))
	copy(out, m.tenants)
	return out, nil
}

func (m *Memory) ReplaceTenants(_ context.Context, tenants []billing.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants = make([]billing.Tenant, len(tenants))
	copy(m.tenants, tenants)
	return nil
}

func (m *Memory) ListProperties(_ context.Context) ([]billing.Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]billing.Property, len(m.properties))
	copy(out, m.properties)
	return out, nil
}

func (m *Memory) ReplaceProperties(_ context.Context, properties []billing.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.properties = make([]billing.Property, len(properties))
	copy(m.properties, properties)
	return nil
}

func (m *Memory) ListPayments(_ context.Context) ([]billing.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]billing.Payment, len(m.payments))
	copy(out, m.payments)
	return out, nil
}

func (m *Memory) ReplacePayments(_ context.Context, payments []billing.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = make([]billing.Payment, len(payments))
	copy(m.payments, payments)
	return nil
}
