package services

import (
	"context"
	"fmt"

	"github.com/pquerna/otp/totp"

	"clinic-backend/internal/repositories"
)

// TOTPService manages 2FA enrollment for platform admins
type TOTPService struct {
	userRepo *repositories.UserRepository
	totpRepo *repositories.TOTPRepository
}

func NewTOTPService(userRepo *repositories.UserRepository, totpRepo *repositories.TOTPRepository) *TOTPService {
	return &TOTPService{userRepo: userRepo, totpRepo: totpRepo}
}

// Enroll generates a new secret for the user and returns the otpauth URL
// for the authenticator app. The secret stays unconfirmed until the first
// code is verified.
func (s *TOTPService) Enroll(ctx context.Context, userID int) (string, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "clinic-backend",
		AccountName: user.Email,
	})
	if err != nil {
		return "", err
	}

	if err := s.totpRepo.SaveSecret(ctx, userID, key.Secret()); err != nil {
		return "", err
	}

	return key.URL(), nil
}

// Verify checks a code; on first success the enrollment is confirmed and
// 2FA is switched on for the user
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) error {
	secret, confirmed, err := s.totpRepo.GetSecret(ctx, userID)
	if err != nil {
		return err
	}

	if !totp.Validate(code, secret) {
		return fmt.Errorf("%w: invalid code", ErrValidation)
	}

	if !confirmed {
		if err := s.totpRepo.Confirm(ctx, userID); err != nil {
			return err
		}
		if err := s.userRepo.SetTOTPEnabled(ctx, userID, true); err != nil {
			return err
		}
	}
	return nil
}
