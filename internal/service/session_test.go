package service

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/panelkit/internal/database"
	"github.com/jask/panelkit/internal/database/repository"
	"github.com/jask/panelkit/internal/panel"
)

type instantResource struct{}

func (instantResource) Show() *panel.Future  { return panel.Resolved() }
func (instantResource) Hide() *panel.Future  { return panel.Resolved() }
func (instantResource) Snap(panel.State)     {}
func (instantResource) SetInteractable(bool) {}

type instantFactory struct{}

func (instantFactory) Acquire(*panel.Template, string, panel.Position) (panel.Resource, error) {
	return instantResource{}, nil
}
func (instantFactory) Release(panel.Resource) {}

func newTestManager(t *testing.T) *panel.Manager {
	t.Helper()
	cat, err := panel.NewCatalog(
		panel.Template{ID: "pause", Group: "menu"},
		panel.Template{ID: "settings", Group: "menu"},
		panel.Template{ID: "confirm", Group: "modal"},
		panel.Template{ID: "hud"},
	)
	require.NoError(t, err)
	m, err := panel.NewManager(panel.Options{Catalog: cat, Factory: instantFactory{}, Logger: panel.DiscardLogger()})
	require.NoError(t, err)
	return m
}

func setupSessionTest(t *testing.T) (*SessionService, string, *bytes.Buffer, context.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	id, err := database.SeedDefaults(ctx, db, "tester")
	require.NoError(t, err)

	var buf bytes.Buffer
	svc := &SessionService{
		DB:       db,
		Profiles: repository.NewProfileRepo(db),
		Manager:  newTestManager(t),
		Logger:   log.New(&buf, "", 0),
	}
	return svc, id, &buf, ctx
}

func TestSessionSnapshotOrdersFrontFirst(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := setupSessionTest(t)
	m := svc.Manager

	_, err := m.Open("hud", nil)
	require.NoError(t, err)
	_, err = m.Open("pause", nil)
	require.NoError(t, err)
	_, err = m.Open("settings", &panel.Config{LimitOverride: panel.Wait})
	require.NoError(t, err)
	_, err = m.Open("confirm", nil)
	require.NoError(t, err)

	require.Equal(t, []repository.SavedPanel{
		{TemplateID: "pause", Group: "menu"},
		{TemplateID: "settings", Group: "menu"},
		{TemplateID: "confirm", Group: "modal"},
		{TemplateID: "hud"},
	}, svc.Snapshot())
}

func TestSessionSaveThenRestore(t *testing.T) {
	t.Parallel()
	svc, id, _, ctx := setupSessionTest(t)
	m := svc.Manager

	_, err := m.Open("pause", nil)
	require.NoError(t, err)
	_, err = m.Open("settings", &panel.Config{LimitOverride: panel.Wait})
	require.NoError(t, err)
	_, err = m.Open("hud", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, id, panel.Directional, true))

	fresh := newTestManager(t)
	restorer := &SessionService{Profiles: svc.Profiles, Manager: fresh, Logger: svc.Logger}
	p, err := restorer.Restore(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "directional", p.ControlScheme)
	require.True(t, p.Muted)

	require.Equal(t, "pause", fresh.Front("menu").ID())
	require.Equal(t, panel.Shown, fresh.Front("menu").State())
	st, ok := fresh.StateOf("settings")
	require.True(t, ok)
	require.Equal(t, panel.Hidden, st)
	require.True(t, fresh.IsActive("hud"))
	require.Equal(t, svc.Snapshot(), restorer.Snapshot())
}

func TestSessionRestoreSkipsUnknownTemplates(t *testing.T) {
	t.Parallel()
	svc, id, logs, ctx := setupSessionTest(t)

	require.NoError(t, svc.Profiles.ReplacePanels(ctx, id, []repository.SavedPanel{
		{TemplateID: "inventroy", Group: "menu"},
		{TemplateID: "pause", Group: "menu"},
	}))
	_, err := svc.Restore(ctx, id)
	require.NoError(t, err)
	require.Contains(t, logs.String(), "warn: restore panel inventroy")
	require.Equal(t, panel.Shown, svc.Manager.Front("menu").State())
}

func TestSessionUnknownProfile(t *testing.T) {
	t.Parallel()
	svc, _, _, ctx := setupSessionTest(t)

	_, err := svc.Restore(ctx, "ghost")
	require.ErrorIs(t, err, ErrNoProfile)
	require.ErrorIs(t, svc.Save(ctx, "ghost", panel.Pointer, false), ErrNoProfile)
}

func TestSessionReset(t *testing.T) {
	t.Parallel()
	svc, id, _, ctx := setupSessionTest(t)

	_, err := svc.Manager.Open("pause", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, id, panel.Pointer, false))
	require.NoError(t, svc.Reset(ctx))

	p, err := svc.Profiles.Get(ctx, id)
	require.NoError(t, err)
	require.Empty(t, p.OpenPanels)
}
