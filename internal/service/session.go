package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jask/panelkit/internal/database"
	"github.com/jask/panelkit/internal/database/repository"
	"github.com/jask/panelkit/internal/panel"
)

// ErrNoProfile is returned when the session's profile row is missing.
var ErrNoProfile = errors.New("profile not found")

// SessionService persists the open panel set of a profile between runs.
type SessionService struct {
	DB       *sql.DB
	Profiles *repository.ProfileRepo
	Manager  *panel.Manager
	Logger   *log.Logger
}

// Snapshot lists the open panels grouped by layer, front first then the
// queue behind it, followed by ungrouped panels in open order. Panels that
// are already closing are left out.
func (s *SessionService) Snapshot() []repository.SavedPanel {
	var out []repository.SavedPanel
	for _, g := range s.Manager.Groups() {
		items := s.Manager.Stack(g)
		for i := len(items) - 1; i >= 0; i-- {
			p := items[i]
			if s.Manager.IsClosing(p.ID()) {
				continue
			}
			out = append(out, repository.SavedPanel{TemplateID: p.Template().ID, Group: g})
		}
	}
	for _, p := range s.Manager.Active() {
		if p.Group() != "" || s.Manager.IsClosing(p.ID()) {
			continue
		}
		out = append(out, repository.SavedPanel{TemplateID: p.Template().ID})
	}
	return out
}

// Restore reopens the saved panels of profileID. Group fronts start SHOWN;
// the rest of each group waits behind them. Panels whose template no
// longer exists are skipped with a warning.
func (s *SessionService) Restore(ctx context.Context, profileID string) (*repository.Profile, error) {
	p, err := s.Profiles.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("restore %s: %w", profileID, ErrNoProfile)
	}

	fronts := make(map[string]bool)
	for _, sp := range p.OpenPanels {
		cfg := panel.Config{StartingState: panel.Shown, LimitOverride: panel.Replace}
		if sp.Group != "" {
			cfg.Group = panel.InGroup(sp.Group)
			if fronts[sp.Group] {
				cfg.LimitOverride = panel.Wait
			}
		}
		if _, err := s.Manager.Open(sp.TemplateID, &cfg); err != nil {
			s.logf("warn: restore panel %s: %v", sp.TemplateID, err)
			continue
		}
		fronts[sp.Group] = true
	}
	return p, nil
}

// Save stores the current panel set plus the host's scheme and mute flag.
func (s *SessionService) Save(ctx context.Context, profileID string, scheme panel.ControlScheme, muted bool) error {
	p, err := s.Profiles.Get(ctx, profileID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		return fmt.Errorf("save %s: %w", profileID, ErrNoProfile)
	}
	p.ControlScheme = scheme.String()
	p.Muted = muted
	if err := s.Profiles.Upsert(ctx, *p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if err := s.Profiles.ReplacePanels(ctx, profileID, s.Snapshot()); err != nil {
		return fmt.Errorf("save panels: %w", err)
	}
	return nil
}

// Reset forgets every saved panel set. Profiles themselves are kept.
func (s *SessionService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("session: db not configured")
	}
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM profile_panels"); err != nil {
			return fmt.Errorf("reset panels: %w", err)
		}
		return nil
	})
}

func (s *SessionService) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
