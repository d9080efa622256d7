package auth

import (
	"context"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/auth"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/security"
)

// Service handles the demo login. Users are seeded; there is no signup.
type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordComparer
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordComparer) *Service {
	return &Service{userRepo: userRepo, jwtSvc: jwtSvc, hasher: hasher}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// same response for unknown email and bad password
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	token, err := s.jwtSvc.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}
