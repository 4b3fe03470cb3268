package database

import (
	"context"

	"github.com/zaqqye/signage_backend/internal/config"
	xlog "github.com/zaqqye/signage_backend/internal/log"
	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/playlist"
	"github.com/zaqqye/signage_backend/internal/utils"
)

// SeedContent writes the default content document when none exists, and
// makes sure at least one user is present.
func SeedContent(ctx context.Context, s Store, cfg *config.Config) error {
	logger := xlog.WithComponent("seed")
	_, err := UpdateContent(ctx, s, func(c *models.Content) error {
		if len(c.Users) > 0 {
			return ErrUnchanged
		}

		name := cfg.AdminUser
		if name == "" {
			name = "admin"
		}
		password := cfg.AdminPassword
		if password == "" {
			password = "password"
		}
		if cfg.HashPasswords {
			hashed, err := utils.HashPassword(password)
			if err != nil {
				return err
			}
			password = hashed
		}
		c.Users = append(c.Users, models.User{User: name, Password: password})
		logger.Info().Str("user", name).Msg("seeded initial admin")
		return nil
	})
	return err
}

// MigrateLegacyLinks moves device playlistId links into playlist deviceIds.
func MigrateLegacyLinks(ctx context.Context, s Store) (int, error) {
	migrated := 0
	_, err := UpdateContent(ctx, s, func(c *models.Content) error {
		migrated = playlist.MigrateLegacyLinks(c)
		if migrated == 0 {
			return ErrUnchanged
		}
		return nil
	})
	return migrated, err
}
