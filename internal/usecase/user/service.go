package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"msme-logistics/internal/config"
	domUser "msme-logistics/internal/domain/user"
	appErrors "msme-logistics/pkg/errors"
	"msme-logistics/pkg/utils"
)

type Service struct {
	repo   domUser.Repository
	config *config.Config
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo domUser.Repository, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidationError, "Invalid input", err)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidationError, err.Error(), nil)
	}

	email := utils.SanitizeEmail(req.Email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		s.logger.Warn("registration attempt with existing email", zap.String("email", email))
		return nil, appErrors.NewAppError(appErrors.CodeValidationError, "User already exists with this email", appErrors.ErrUserAlreadyExists)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domUser.User{
		ID:               uuid.New(),
		Name:             utils.SanitizeString(req.Name),
		Email:            email,
		Phone:            utils.SanitizePhone(req.Phone),
		PasswordHash:     passwordHash,
		Role:             domUser.Role(req.Role),
		Language:         req.Language,
		IsActive:         true,
		Address:          req.Address,
		MSMEDetails:      req.MSMEDetails,
		DriverDetails:    req.DriverDetails,
		WarehouseDetails: req.WarehouseDetails,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domUser.ErrUserAlreadyExists) {
			return nil, appErrors.NewAppError(appErrors.CodeValidationError, "User already exists with this email", err)
		}
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to register user", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role), s.config.JWT.Secret, s.config.JWT.Expiry())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &AuthResponse{User: ToUserResponse(user), Token: token}, nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidationError, "Invalid input", err)
	}

	email := utils.SanitizeEmail(req.Email)
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domUser.ErrUserNotFound) {
			return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Invalid email or password", appErrors.ErrInvalidCredentials)
		}
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to log in", err)
	}

	if !user.IsActive {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Account is deactivated", domUser.ErrUserInactive)
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("failed login attempt", zap.String("email", email))
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Invalid email or password", appErrors.ErrInvalidCredentials)
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role), s.config.JWT.Secret, s.config.JWT.Expiry())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{User: ToUserResponse(user), Token: token}, nil
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrFailure(err)
	}
	return ToUserResponse(user), nil
}

// UpdateProfile applies whitelisted fields to the caller's own record. Email,
// role and password are not updatable here.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidationError, "Invalid input", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrFailure(err)
	}

	if req.Name != nil {
		user.Name = utils.SanitizeString(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = utils.SanitizePhone(*req.Phone)
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.MSMEDetails != nil {
		user.MSMEDetails = req.MSMEDetails
	}
	if req.DriverDetails != nil {
		user.DriverDetails = req.DriverDetails
	}
	if req.WarehouseDetails != nil {
		user.WarehouseDetails = req.WarehouseDetails
	}
	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to update profile", err)
	}
	return ToUserResponse(user), nil
}

// visibleRoles limits which roles each role may browse: MSMEs see their
// counterparties, drivers likewise, warehouses see everyone.
var visibleRoles = map[domUser.Role][]domUser.Role{
	domUser.RoleMSME:      {domUser.RoleDriver, domUser.RoleWarehouse},
	domUser.RoleDriver:    {domUser.RoleMSME, domUser.RoleWarehouse},
	domUser.RoleWarehouse: {domUser.RoleMSME, domUser.RoleDriver, domUser.RoleWarehouse},
}

func (s *Service) List(ctx context.Context, principal domUser.Principal, req *ListFilterRequest) (*ListResponse, error) {
	roles, ok := visibleRoles[principal.Role]
	if !ok {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Invalid user role", nil)
	}

	filter := domUser.Filter{
		Roles:      roles,
		Search:     req.Search,
		OnlyActive: true,
		Page:       req.Page,
		Limit:      req.Limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	if req.Role != "" {
		requested := domUser.Role(req.Role)
		for _, r := range roles {
			if r == requested {
				filter.Roles = []domUser.Role{requested}
				break
			}
		}
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to fetch users", err)
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(u))
	}

	pages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		pages++
	}
	return &ListResponse{
		Users: responses,
		Pagination: Pagination{
			Current: filter.Page,
			Pages:   int(pages),
			Total:   total,
			Limit:   filter.Limit,
		},
	}, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrFailure(err)
	}
	if !user.IsActive {
		return nil, appErrors.NewAppError(appErrors.CodeNotFound, "User not found", domUser.ErrUserInactive)
	}
	return ToUserResponse(user), nil
}

// AvailableDrivers lists active drivers for assignment, best rated first,
// optionally narrowed by vehicle type.
func (s *Service) AvailableDrivers(ctx context.Context, principal domUser.Principal, vehicleType string) ([]*UserResponse, error) {
	if principal.Role != domUser.RoleWarehouse && principal.Role != domUser.RoleMSME {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Access denied", nil)
	}

	drivers, _, err := s.repo.List(ctx, domUser.Filter{
		Roles:      []domUser.Role{domUser.RoleDriver},
		OnlyActive: true,
		Limit:      100,
		Page:       1,
	})
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to fetch available drivers", err)
	}

	responses := make([]*UserResponse, 0, len(drivers))
	for _, d := range drivers {
		if vehicleType != "" && (d.DriverDetails == nil || d.DriverDetails.VehicleType != vehicleType) {
			continue
		}
		responses = append(responses, ToUserResponse(d))
	}
	return responses, nil
}

// Deactivate soft-disables an account. Users may deactivate themselves;
// nobody else's.
func (s *Service) Deactivate(ctx context.Context, principal domUser.Principal, userID uuid.UUID) error {
	if principal.ID != userID {
		return appErrors.NewAppError(appErrors.CodeUnauthorized, "Can only deactivate your own account", nil)
	}
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return notFoundOrFailure(err)
	}
	s.logger.Info("user deactivated", zap.String("user_id", userID.String()))
	return nil
}

func notFoundOrFailure(err error) error {
	if errors.Is(err, domUser.ErrUserNotFound) {
		return appErrors.NewAppError(appErrors.CodeNotFound, "User not found", err)
	}
	return appErrors.NewAppError(appErrors.CodePersistenceFailure, "User lookup failed", err)
}
