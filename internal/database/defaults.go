package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/panelkit/internal/database/repository"
)

// ProfileID derives the stable id for a profile name.
func ProfileID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("profile:"+strings.ToLower(strings.TrimSpace(name)))).String()
}

// SeedDefaults ensures the named profile exists and returns its id.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	profiles := repository.NewProfileRepo(db)
	existing, err := profiles.ByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("lookup profile: %w", err)
	}
	if existing != nil {
		return existing.ID, nil
	}
	p := repository.Profile{
		ID:            ProfileID(name),
		Name:          name,
		ControlScheme: "pointer",
	}
	if err := profiles.Upsert(ctx, p); err != nil {
		return "", fmt.Errorf("seed profile: %w", err)
	}
	return p.ID, nil
}
