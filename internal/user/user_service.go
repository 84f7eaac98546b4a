package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rthunborg/Masterdata-sub001/internal/auth"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	usererrors "github.com/rthunborg/Masterdata-sub001/internal/user/errors"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, actingRole domain.Role) ([]UserResponse, error)
	GetByID(ctx context.Context, actingRole domain.Role, id string) (UserResponse, error)
	Create(ctx context.Context, actingRole domain.Role, req CreateUserRequest) (UserResponse, error)
	ToggleStatus(ctx context.Context, actingRole domain.Role, id string, isActive bool) (UserResponse, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, actingRole domain.Role, id, newPassword string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context, actingRole domain.Role) ([]UserResponse, error) {
	if actingRole != domain.RoleHRAdmin {
		return nil, usererrors.ErrAdminOnly
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actingRole domain.Role, id string) (UserResponse, error) {
	if actingRole != domain.RoleHRAdmin {
		return UserResponse{}, usererrors.ErrAdminOnly
	}
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Create(ctx context.Context, actingRole domain.Role, req CreateUserRequest) (UserResponse, error) {
	if actingRole != domain.RoleHRAdmin {
		return UserResponse{}, usererrors.ErrAdminOnly
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return UserResponse{}, usererrors.ErrUnknownRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return UserResponse{}, err
	}

	u := &auth.User{
		ID:       uuid.New(),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Name:     req.Name,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Warn("create user failed", zap.String("email", u.Email), zap.Error(err))
		return UserResponse{}, usererrors.ErrUserAlreadyExists
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role.String()),
	)
	return mapToResponse(*u), nil
}

// ToggleStatus flips the active flag. Deactivating the last active HR admin
// is rejected so the system cannot lock itself out.
func (s *service) ToggleStatus(ctx context.Context, actingRole domain.Role, id string, isActive bool) (UserResponse, error) {
	if actingRole != domain.RoleHRAdmin {
		return UserResponse{}, usererrors.ErrAdminOnly
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if !isActive && u.Role == domain.RoleHRAdmin && u.IsActive {
		count, err := s.repo.CountActiveByRole(ctx, domain.RoleHRAdmin)
		if err != nil {
			return UserResponse{}, err
		}
		if count <= 1 {
			return UserResponse{}, usererrors.ErrLastAdmin
		}
	}

	u.IsActive = isActive
	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("user status changed",
		zap.String("user_id", u.ID.String()),
		zap.Bool("is_active", isActive),
	)
	return mapToResponse(*u), nil
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return s.repo.Update(ctx, u)
}

func (s *service) ResetPassword(ctx context.Context, actingRole domain.Role, id, newPassword string) error {
	if actingRole != domain.RoleHRAdmin {
		return usererrors.ErrAdminOnly
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)

	s.logger.Info("password reset", zap.String("user_id", u.ID.String()))
	return s.repo.Update(ctx, u)
}

func mapToResponse(u auth.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
