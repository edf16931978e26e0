package services

import (
	"context"
	"fmt"

	"clinic-backend/internal/auth"
	"clinic-backend/internal/cache"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
)

var validRoles = map[string]bool{
	"admin":          true,
	"doctor":         true,
	"receptionist":   true,
	"accountant":     true,
	"platform_admin": true,
}

type UserService struct {
	Repo       *repositories.UserRepository
	jwtManager *auth.JWTManager
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager) *UserService {
	return &UserService{Repo: repo, jwtManager: jwtManager}
}

// Signup registers a staff user under a tenant. Platform admins carry no
// tenant.
func (s *UserService) Signup(ctx context.Context, tenantID *int, req *models.SignupRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if req.Role == "" {
		req.Role = "receptionist"
	}
	if !validRoles[req.Role] {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		TenantID:     tenantID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a JWT. Verified credentials are
// cached briefly so repeated logins skip the bcrypt comparison.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account suspended")
	}

	if _, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); !ok {
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			return nil, fmt.Errorf("invalid credentials")
		}
		cache.CacheAuth(ctx, req.Email, req.Password, int64(user.ID))
	}

	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *UserService) ListByTenant(ctx context.Context, tenantID int) ([]*models.User, error) {
	return s.Repo.ListByTenant(ctx, tenantID)
}
