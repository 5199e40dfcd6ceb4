// README: Account service: registration, login, profile editing, blocking, listings.
package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hail/internal/types"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBlocked            = errors.New("account is blocked")
	ErrBadRequest         = errors.New("bad request")
)

// Store is the persistence port for user accounts.
type Store interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id types.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id types.ID, p ProfileUpdate) (*User, error)
	SetBlocked(ctx context.Context, id types.ID, blocked bool) (bool, error)
	// List returns users of the given role matching search, plus total count.
	List(ctx context.Context, role, search string, offset, limit int) ([]User, int, error)
}

// DriverProfiles creates the driver profile that accompanies a driver account.
type DriverProfiles interface {
	CreateProfile(ctx context.Context, userID types.ID, vehicleDetails, licenseNumber string) error
}

type Service struct {
	store   Store
	drivers DriverProfiles
}

func NewService(store Store, drivers DriverProfiles) *Service {
	return &Service{store: store, drivers: drivers}
}

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Role     string
	// Driver-only fields.
	VehicleDetails string
	LicenseNumber  string
}

type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
}

// Register creates the account; a driver registration also creates the
// pending driver profile.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*User, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" || !ValidRole(cmd.Role) {
		return nil, ErrBadRequest
	}
	if cmd.Role == RoleDriver && (cmd.VehicleDetails == "" || cmd.LicenseNumber == "") {
		return nil, ErrBadRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           types.ID(uuid.NewString()),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: string(hash),
		Role:         cmd.Role,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	if cmd.Role == RoleDriver {
		if err := s.drivers.CreateProfile(ctx, u.ID, cmd.VehicleDetails, cmd.LicenseNumber); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Login verifies credentials and the blocked flag; token issuance happens at
// the HTTP boundary.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrBadRequest
	}
	u, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsBlocked {
		return nil, ErrBlocked
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*User, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id types.ID, p ProfileUpdate) (*User, error) {
	if p.Name != nil && *p.Name == "" {
		return nil, ErrBadRequest
	}
	return s.store.UpdateProfile(ctx, id, p)
}

func (s *Service) SetBlocked(ctx context.Context, id types.ID, blocked bool) (*User, error) {
	ok, err := s.store.SetBlocked(ctx, id, blocked)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, role, search string, offset, limit int) ([]User, int, error) {
	return s.store.List(ctx, role, search, offset, limit)
}
