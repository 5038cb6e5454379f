package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/pkg/config"
	"github.com/sheltersync/sheltersync-backend/pkg/db"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
	"github.com/sheltersync/sheltersync-backend/pkg/security"
	"gorm.io/gorm"
)

// Seed values for the first boot. The PIN must be rotated after the first
// login.
const (
	defaultAdminUsername = "admin"
	defaultAdminPIN      = "1234"
	defaultAdminName     = "System Admin"
	defaultAdminEmail    = "admin@sheltersync.com"
	defaultAdminNotes    = "Primary system administrator."

	generatedPINLength = 4
)

// Actor identifies the authenticated staff member performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role enums.StaffRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.StaffRoleAdmin
}

// Service manages staff accounts. Admins have full control; staff members
// may only edit their own profile and PIN.
type Service interface {
	List(ctx context.Context, actor Actor) ([]StaffDTO, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*StaffDTO, error)
	Create(ctx context.Context, actor Actor, req CreateStaffRequest) (*CreateStaffResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateStaffRequest) (*StaffDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	EnsureDefaultAdmin(ctx context.Context) error
}

type service struct {
	repo   Repository
	pinCfg config.PinConfig
	log    *logger.Logger
}

// ServiceParams bundles the dependencies required to build a staff service.
type ServiceParams struct {
	Repo      Repository
	PinConfig config.PinConfig
	Logger    *logger.Logger
}

// NewService wires staff dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "staff repository required")
	}
	return &service{
		repo:   params.Repo,
		pinCfg: params.PinConfig,
		log:    params.Logger,
	}, nil
}

// List returns the roster to any authenticated staff member; the DTO never
// carries PIN hashes, and write access stays gated per operation.
func (s *service) List(ctx context.Context, actor Actor) ([]StaffDTO, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	out := make([]StaffDTO, 0, len(accounts))
	for i := range accounts {
		out = append(out, *FromModel(&accounts[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*StaffDTO, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access limited to own profile")
	}
	account, err := s.getAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(account), nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateStaffRequest) (*CreateStaffResponse, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)
	if username == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and name are required")
	}

	role := enums.StaffRoleStaff
	if req.Role != "" {
		parsed, err := enums.ParseStaffRole(req.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		role = parsed
	}

	pin := req.PIN
	var generated *string
	if pin == "" {
		value, err := security.GeneratePIN(generatedPINLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate pin")
		}
		pin = value
		generated = &value
	}
	hash, err := security.HashPIN(pin, s.pinCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
	}

	account := &models.StaffAccount{
		ID:       uuid.New(),
		Username: username,
		PinHash:  hash,
		Role:     role,
		Name:     name,
		PhotoURL: req.PhotoURL,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create staff")
	}
	return &CreateStaffResponse{Staff: FromModel(account), GeneratedPIN: generated}, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateStaffRequest) (*StaffDTO, error) {
	self := actor.ID == id
	if !actor.IsAdmin() && !self {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access limited to own profile")
	}
	if !actor.IsAdmin() && req.Role != nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may change roles")
	}

	account, err := s.getAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		if username := strings.TrimSpace(*req.Username); username != "" {
			account.Username = username
		}
	}
	if req.Role != nil {
		role, err := enums.ParseStaffRole(*req.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		account.Role = role
	}
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			account.Name = name
		}
	}
	if req.PhotoURL != nil {
		account.PhotoURL = req.PhotoURL
	}
	if req.Phone != nil {
		account.Phone = req.Phone
	}
	if req.Email != nil {
		account.Email = req.Email
	}
	if req.Notes != nil {
		account.Notes = req.Notes
	}
	if req.PIN != nil {
		if *req.PIN == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pin must not be empty")
		}
		hash, err := security.HashPIN(*req.PIN, s.pinCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
		}
		account.PinHash = hash
	}

	if err := s.repo.Update(ctx, account); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update staff")
	}
	return FromModel(account), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if actor.ID == id {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot delete your own account")
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete staff")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "staff account not found")
	}
	return nil
}

// EnsureDefaultAdmin seeds the initial admin account when the staff table is
// empty, so a fresh deployment can always log in.
func (s *service) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count staff")
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPIN(defaultAdminPIN, s.pinCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash default pin")
	}
	email := defaultAdminEmail
	notes := defaultAdminNotes
	account := &models.StaffAccount{
		ID:       uuid.New(),
		Username: defaultAdminUsername,
		PinHash:  hash,
		Role:     enums.StaffRoleAdmin,
		Name:     defaultAdminName,
		Email:    &email,
		Notes:    &notes,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		// another instance may have seeded concurrently
		if db.IsUniqueViolation(err, "") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed default admin")
	}
	if s.log != nil {
		s.log.Warn(s.log.WithField(ctx, "username", defaultAdminUsername), "seeded default admin account; rotate its PIN")
	}
	return nil
}

func (s *service) getAccount(ctx context.Context, id uuid.UUID) (*models.StaffAccount, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get staff")
	}
	return account, nil
}
