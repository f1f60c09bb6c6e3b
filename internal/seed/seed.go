// Package seed creates the data a fresh installation needs to be usable
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/pkg/auth"
)

// AccountStore is the subset of the user repository the seeder needs
type AccountStore interface {
	EmailExists(ctx context.Context, email string, excluded int64) (bool, error)
	Create(ctx context.Context, user *appModels.User) error
}

// AdminAccount describes the bootstrap administrator
type AdminAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateDefaultAdmin inserts the bootstrap administrator unless an account with
// the same email already exists. A blank email or password disables seeding.
func CreateDefaultAdmin(ctx context.Context, users AccountStore, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Debug().Msg("No bootstrap admin configured, skipping seed")
		return nil
	}

	taken, err := users.EmailExists(ctx, email, 0)
	if err != nil {
		return fmt.Errorf("failed to check bootstrap admin: %w", err)
	}
	if taken {
		lgr.Info().Str("email", email).Msg("Bootstrap admin already exists")
		return nil
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	user := &appModels.User{
		Email:     email,
		Password:  hash,
		FirstName: orDefault(admin.FirstName, "System"),
		LastName:  orDefault(admin.LastName, "Administrator"),
		Role:      appModels.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	lgr.Info().Str("email", email).Int64("userID", user.ID).Msg("Bootstrap admin created")
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
