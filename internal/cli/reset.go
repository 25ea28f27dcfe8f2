package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/ovumcy-insights/internal/db"
	"github.com/terraincognita07/ovumcy-insights/internal/security"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
	"gorm.io/gorm"
)

const (
	temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	temporaryPasswordAttempts = 16
)

// RunResetPasswordCommand replaces the user's password with a generated one
// and prints it to out.
func RunResetPasswordCommand(ctx context.Context, database *gorm.DB, email string, out io.Writer) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return errors.New("a valid email is required")
	}

	temporaryPassword, err := generateTemporaryPassword(12)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}

	authService := services.NewAuthService(db.NewRepositories(database).Users)
	if err := authService.ResetPassword(ctx, normalizedEmail, temporaryPassword); err != nil {
		return err
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	return nil
}

// generateTemporaryPassword draws until the result passes the password policy.
func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	for attempt := 0; attempt < temporaryPasswordAttempts; attempt++ {
		candidate, err := security.RandomString(length, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if services.ValidatePasswordStrength(candidate) == nil {
			return candidate, nil
		}
	}
	return "", services.ErrWeakPassword
}
