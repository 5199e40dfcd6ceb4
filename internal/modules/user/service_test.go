// README: Account service tests against an in-memory store.
package user

import (
	"context"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"hail/internal/types"
)

type memStore struct {
	mu    sync.Mutex
	users map[types.ID]*User
}

func newMemStore() *memStore {
	return &memStore{users: map[types.ID]*User{}}
}

func (m *memStore) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.users {
		if strings.EqualFold(other.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) UpdateProfile(_ context.Context, id types.ID, p ProfileUpdate) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) SetBlocked(_ context.Context, id types.ID, blocked bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	u.IsBlocked = blocked
	return true, nil
}

func (m *memStore) List(_ context.Context, role, _ string, _, _ int) ([]User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

// profileRecorder records driver profile creations.
type profileRecorder struct {
	mu      sync.Mutex
	created map[types.ID]string
}

func (r *profileRecorder) CreateProfile(_ context.Context, userID types.ID, vehicleDetails, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.created == nil {
		r.created = map[types.ID]string{}
	}
	r.created[userID] = vehicleDetails
	return nil
}

func newTestService() (*Service, *memStore, *profileRecorder) {
	store := newMemStore()
	profiles := &profileRecorder{}
	return NewService(store, profiles), store, profiles
}

func TestRegisterRider(t *testing.T) {
	svc, _, profiles := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterCommand{
		Name:     "Nadia",
		Email:    "nadia@example.com",
		Password: "hunter22",
		Role:     RoleRider,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == "" || u.Role != RoleRider || u.IsBlocked {
		t.Fatalf("user = %+v", u)
	}
	if u.PasswordHash == "hunter22" {
		t.Fatal("password stored in plain text")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter22")) != nil {
		t.Fatal("stored hash does not verify the password")
	}
	if len(profiles.created) != 0 {
		t.Fatalf("rider registration created a driver profile: %v", profiles.created)
	}
}

func TestRegisterDriverCreatesProfile(t *testing.T) {
	svc, _, profiles := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterCommand{
		Name:           "Karim",
		Email:          "karim@example.com",
		Password:       "hunter22",
		Role:           RoleDriver,
		VehicleDetails: "Toyota Prius 2019",
		LicenseNumber:  "DL-123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if profiles.created[u.ID] != "Toyota Prius 2019" {
		t.Fatalf("driver profile not created: %v", profiles.created)
	}

	// Drivers without vehicle or license are rejected.
	_, err = svc.Register(ctx, RegisterCommand{
		Name: "NoCar", Email: "nocar@example.com", Password: "pw", Role: RoleDriver,
	})
	if err != ErrBadRequest {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []RegisterCommand{
		{Email: "a@b.c", Password: "pw", Role: RoleRider},
		{Name: "A", Password: "pw", Role: RoleRider},
		{Name: "A", Email: "a@b.c", Role: RoleRider},
		{Name: "A", Email: "a@b.c", Password: "pw", Role: "superuser"},
	}
	for i, cmd := range cases {
		if _, err := svc.Register(ctx, cmd); err != ErrBadRequest {
			t.Errorf("case %d: expected ErrBadRequest, got %v", i, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cmd := RegisterCommand{Name: "A", Email: "dup@example.com", Password: "pw", Role: RoleRider}
	if _, err := svc.Register(ctx, cmd); err != nil {
		t.Fatalf("first register: %v", err)
	}
	cmd.Name = "B"
	if _, err := svc.Register(ctx, cmd); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterCommand{
		Name: "Nadia", Email: "nadia@example.com", Password: "hunter22", Role: RoleRider,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.Login(ctx, "nadia@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("logged in as %s, want %s", got.ID, u.ID)
	}

	if _, err := svc.Login(ctx, "nadia@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	// Unknown email looks identical to a wrong password.
	if _, err := svc.Login(ctx, "ghost@example.com", "hunter22"); err != ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "", ""); err != ErrBadRequest {
		t.Fatalf("empty credentials: expected ErrBadRequest, got %v", err)
	}
}

func TestBlockedUserCannotLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterCommand{
		Name: "Nadia", Email: "nadia@example.com", Password: "hunter22", Role: RoleRider,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.SetBlocked(ctx, u.ID, true); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, err := svc.Login(ctx, "nadia@example.com", "hunter22"); err != ErrBlocked {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}

	got, err := svc.SetBlocked(ctx, u.ID, false)
	if err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if got.IsBlocked {
		t.Fatal("user still blocked after unblock")
	}
	if _, err := svc.Login(ctx, "nadia@example.com", "hunter22"); err != nil {
		t.Fatalf("login after unblock: %v", err)
	}

	if _, err := svc.SetBlocked(ctx, "missing", true); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterCommand{
		Name: "Nadia", Email: "nadia@example.com", Password: "hunter22", Role: RoleRider,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	phone := "+8801711111111"
	got, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Phone != phone || got.Name != "Nadia" {
		t.Fatalf("partial update touched other fields: %+v", got)
	}

	empty := ""
	if _, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Name: &empty}); err != ErrBadRequest {
		t.Fatalf("empty name: expected ErrBadRequest, got %v", err)
	}
}
