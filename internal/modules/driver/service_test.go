// README: Driver registry tests against an in-memory store.
package driver

import (
	"context"
	"sync"
	"testing"

	"hail/internal/types"
)

type memStore struct {
	mu      sync.Mutex
	drivers map[types.ID]*Driver
}

func newMemStore() *memStore {
	return &memStore{drivers: map[types.ID]*Driver{}}
}

func (m *memStore) Create(_ context.Context, d *Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.drivers[d.UserID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, userID types.ID) (*Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memStore) SetAvailability(_ context.Context, userID types.ID, a Availability) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[userID]
	if !ok {
		return false, nil
	}
	d.Availability = a
	return true, nil
}

func (m *memStore) SetApproval(_ context.Context, userID types.ID, s ApprovalStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[userID]
	if !ok {
		return false, nil
	}
	d.Approval = s
	if s == ApprovalSuspended {
		d.Availability = AvailabilityOffline
	}
	return true, nil
}

func (m *memStore) List(_ context.Context, _ string, _, _ int) ([]Account, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Account, 0, len(m.drivers))
	for _, d := range m.drivers {
		out = append(out, Account{Driver: *d})
	}
	return out, len(out), nil
}

type stubEarnings struct{}

func (stubEarnings) EarningsForDriver(context.Context, types.ID) (Earnings, error) {
	return Earnings{Total: types.Money{Amount: 5000, Currency: "USD"}, CompletedRides: 2}, nil
}

func (stubEarnings) MonthlyEarningsForDriver(context.Context, types.ID) ([]MonthlyEarnings, error) {
	return []MonthlyEarnings{{Year: 2026, Month: 8, Total: types.Money{Amount: 5000, Currency: "USD"}, Rides: 2}}, nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return NewService(store, stubEarnings{}), store
}

func mustProfile(t *testing.T, svc *Service, userID types.ID) {
	t.Helper()
	if err := svc.CreateProfile(context.Background(), userID, "Toyota Prius 2019", "DL-"+string(userID)); err != nil {
		t.Fatalf("create profile: %v", err)
	}
}

func TestCreateProfileDefaults(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mustProfile(t, svc, "d1")

	d, err := svc.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Approval != ApprovalPending || d.Availability != AvailabilityOffline {
		t.Fatalf("new profile = %+v, want pending/offline", d)
	}

	if err := svc.CreateProfile(ctx, "d2", "", "DL-2"); err != ErrBadRequest {
		t.Fatalf("missing vehicle: expected ErrBadRequest, got %v", err)
	}
	if err := svc.CreateProfile(ctx, "d2", "Honda Civic", ""); err != ErrBadRequest {
		t.Fatalf("missing license: expected ErrBadRequest, got %v", err)
	}
}

func TestOnlineRequiresApproval(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mustProfile(t, svc, "d1")

	if _, err := svc.SetAvailability(ctx, "d1", AvailabilityOnline); err != ErrNotApproved {
		t.Fatalf("pending driver online: expected ErrNotApproved, got %v", err)
	}
	// Going offline is always allowed.
	if _, err := svc.SetAvailability(ctx, "d1", AvailabilityOffline); err != nil {
		t.Fatalf("offline: %v", err)
	}

	if _, err := svc.SetApproval(ctx, "d1", ApprovalApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	d, err := svc.SetAvailability(ctx, "d1", AvailabilityOnline)
	if err != nil {
		t.Fatalf("approved driver online: %v", err)
	}
	if d.Availability != AvailabilityOnline {
		t.Fatalf("availability = %s, want online", d.Availability)
	}

	if _, err := svc.SetAvailability(ctx, "d1", "busy"); err != ErrBadRequest {
		t.Fatalf("bad availability: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.SetAvailability(ctx, "missing", AvailabilityOffline); err != ErrNotFound {
		t.Fatalf("missing profile: expected ErrNotFound, got %v", err)
	}
}

func TestSuspensionForcesOffline(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mustProfile(t, svc, "d1")
	if _, err := svc.SetApproval(ctx, "d1", ApprovalApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.SetAvailability(ctx, "d1", AvailabilityOnline); err != nil {
		t.Fatalf("online: %v", err)
	}

	d, err := svc.SetApproval(ctx, "d1", ApprovalSuspended)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if d.Approval != ApprovalSuspended || d.Availability != AvailabilityOffline {
		t.Fatalf("after suspend = %+v, want suspended/offline", d)
	}

	// A suspended driver cannot come back online until re-approved.
	if _, err := svc.SetAvailability(ctx, "d1", AvailabilityOnline); err != ErrNotApproved {
		t.Fatalf("suspended online: expected ErrNotApproved, got %v", err)
	}

	if _, err := svc.SetApproval(ctx, "d1", ApprovalPending); err != ErrBadRequest {
		t.Fatalf("approval target pending: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.SetApproval(ctx, "missing", ApprovalApproved); err != ErrNotFound {
		t.Fatalf("missing profile: expected ErrNotFound, got %v", err)
	}
}

func TestEligibility(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// No profile at all: not eligible, not an error.
	ok, err := svc.Eligible(ctx, "nobody")
	if err != nil || ok {
		t.Fatalf("missing profile: ok=%v err=%v", ok, err)
	}

	mustProfile(t, svc, "d1")
	if ok, _ := svc.Eligible(ctx, "d1"); ok {
		t.Fatal("pending/offline driver reported eligible")
	}

	if _, err := svc.SetApproval(ctx, "d1", ApprovalApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if ok, _ := svc.Eligible(ctx, "d1"); ok {
		t.Fatal("approved/offline driver reported eligible")
	}

	if _, err := svc.SetAvailability(ctx, "d1", AvailabilityOnline); err != nil {
		t.Fatalf("online: %v", err)
	}
	if ok, _ := svc.Eligible(ctx, "d1"); !ok {
		t.Fatal("approved/online driver not eligible")
	}

	if _, err := svc.SetApproval(ctx, "d1", ApprovalSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if ok, _ := svc.Eligible(ctx, "d1"); ok {
		t.Fatal("suspended driver reported eligible")
	}
}

func TestEarningsRequireProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Earnings(ctx, "nobody"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mustProfile(t, svc, "d1")
	earnings, err := svc.Earnings(ctx, "d1")
	if err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if earnings.CompletedRides != 2 || earnings.Total.Amount != 5000 {
		t.Fatalf("earnings = %+v", earnings)
	}

	monthly, err := svc.MonthlyEarnings(ctx, "d1")
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(monthly) != 1 || monthly[0].Rides != 2 {
		t.Fatalf("monthly = %+v", monthly)
	}
}
