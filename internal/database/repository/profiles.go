package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ProfileRepo handles profiles and their saved panel sets.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `id, name, control_scheme, muted, created_at, updated_at`

func (r *ProfileRepo) Upsert(ctx context.Context, p Profile) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO profiles(id, name, control_scheme, muted, created_at, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 control_scheme=excluded.control_scheme,
	 muted=excluded.muted,
	 updated_at=CURRENT_TIMESTAMP;
	`, p.ID, p.Name, p.ControlScheme, p.Muted)
	return err
}

// Get returns the profile with its panels, or nil when it does not exist.
func (r *ProfileRepo) Get(ctx context.Context, id string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id=?`, id)
	return r.load(ctx, row)
}

// ByName returns the profile called name, or nil when it does not exist.
func (r *ProfileRepo) ByName(ctx context.Context, name string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE name=?`, name)
	return r.load(ctx, row)
}

func (r *ProfileRepo) load(ctx context.Context, row *sql.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.Name, &p.ControlScheme, &p.Muted, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	panels, err := r.Panels(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.OpenPanels = panels
	return &p, nil
}

func (r *ProfileRepo) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.ControlScheme, &p.Muted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfileRepo) Panels(ctx context.Context, profileID string) ([]SavedPanel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT template_id, grp FROM profile_panels WHERE profile_id=? ORDER BY position`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SavedPanel
	for rows.Next() {
		var sp SavedPanel
		if err := rows.Scan(&sp.TemplateID, &sp.Group); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// ReplacePanels swaps the saved panel set of a profile in one transaction.
func (r *ProfileRepo) ReplacePanels(ctx context.Context, profileID string, panels []SavedPanel) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := replacePanels(ctx, tx, profileID, panels); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func replacePanels(ctx context.Context, tx *sql.Tx, profileID string, panels []SavedPanel) error {
	res, err := tx.ExecContext(ctx, `UPDATE profiles SET updated_at=CURRENT_TIMESTAMP WHERE id=?`, profileID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("profile %s: %w", profileID, sql.ErrNoRows)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM profile_panels WHERE profile_id=?`, profileID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO profile_panels(profile_id, position, template_id, grp) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, sp := range panels {
		if _, err := stmt.ExecContext(ctx, profileID, i, sp.TemplateID, sp.Group); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id=?`, id)
	return err
}
