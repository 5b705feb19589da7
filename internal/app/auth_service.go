package app

import (
	"context"
	"fmt"

	"compboard/internal/auth"
	"compboard/internal/domain"
)

// MinPasswordLength is the minimum accepted password length for changes and imports.
const MinPasswordLength = 6

// AuthService handles login, identity lookup and password changes.
type AuthService struct {
	teams  TeamRepository
	tokens *auth.TokenService
}

func NewAuthService(teams TeamRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{teams: teams, tokens: tokens}
}

// Login verifies credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, name, password string) (string, error) {
	team, err := s.teams.GetByName(ctx, name)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if !auth.VerifyPassword(password, team.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.GenerateToken(team.ID)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// CurrentTeam resolves the team a validated token belongs to.
func (s *AuthService) CurrentTeam(ctx context.Context, teamID int64) (domain.Team, error) {
	return s.teams.GetByID(ctx, teamID)
}

// ChangePassword verifies the old password and applies the new one.
// The new password must be at least MinPasswordLength runes and differ from the old.
func (s *AuthService) ChangePassword(ctx context.Context, teamID int64, oldPassword, newPassword string) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(oldPassword, team.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if len([]rune(newPassword)) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", domain.ErrPasswordPolicy, MinPasswordLength)
	}
	if newPassword == oldPassword {
		return fmt.Errorf("%w: new password must differ from the old one", domain.ErrPasswordPolicy)
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.teams.UpdatePasswordHash(ctx, teamID, hash)
}
