package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fermalla/golf-league-system/utils"
	"golang.org/x/crypto/bcrypt"
)

// AdminRole is the only role the system issues. Reads are public, writes
// require a token carrying this role.
const AdminRole = "admin"

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (string, error)
}

type LoginInput struct {
	AccessKey string `json:"access_key"`
}

type authService struct {
	accessKeyHash string
}

// NewAuthService takes the bcrypt hash of the admin access key, never the
// key itself.
func NewAuthService(accessKeyHash string) AuthService {
	return &authService{accessKeyHash: accessKeyHash}
}

func (s *authService) Login(_ context.Context, input LoginInput) (string, error) {
	if input.AccessKey == "" {
		return "", ErrAuthInvalidAccessKey
	}
	if err := utils.CheckAccessKey(input.AccessKey, s.accessKeyHash); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", ErrAuthInvalidAccessKey
		}
		return "", fmt.Errorf("failed to compare access key hash: %w", err)
	}
	return AdminRole, nil
}
