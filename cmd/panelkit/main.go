package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/panelkit/internal/config"
	"github.com/jask/panelkit/internal/cue"
	"github.com/jask/panelkit/internal/database"
	"github.com/jask/panelkit/internal/database/repository"
	"github.com/jask/panelkit/internal/panel"
	"github.com/jask/panelkit/internal/service"
	"github.com/jask/panelkit/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrationsWithDB(db, cfg.Database.Migrations); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	profileID, err := database.SeedDefaults(ctx, db, cfg.Profile.Name)
	if err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	identity, limit, err := cfg.ManagerPolicy()
	if err != nil {
		log.Fatalf("panels: %v", err)
	}

	factory := tui.NewFactory(cfg.Host.PoolSize, cfg.Host.ShowFrames, cfg.Host.HideFrames)
	focus := tui.NewFocus(panel.Pointer)
	manager, err := panel.NewManager(panel.Options{
		Catalog:      catalog,
		Factory:      factory,
		Focus:        focus,
		Identity:     identity,
		DefaultLimit: limit,
	})
	if err != nil {
		log.Fatalf("panels: %v", err)
	}

	session := &service.SessionService{DB: db, Profiles: repository.NewProfileRepo(db), Manager: manager}
	profile, err := session.Restore(ctx, profileID)
	if err != nil {
		log.Printf("warn: session not restored: %v", err)
	} else {
		focus.SetScheme(panel.ParseControlScheme(profile.ControlScheme))
	}

	var cues *cue.Cues
	if cfg.Audio.Enabled {
		player := cue.NewSpeakerPlayer()
		if err := player.Init(); err != nil {
			log.Printf("warn: audio disabled: %v", err)
		} else {
			defer player.Close()
			cues = cue.New(player, cfg.Audio.Volume)
			cues.SetMuted(profile != nil && profile.Muted)
			cues.Attach(manager)
		}
	}

	// SIGHUP clears the screen of panels without quitting.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for range hup {
			manager.Post(func(m *panel.Manager) { m.CloseAll() })
		}
	}()

	app := tui.New(cfg, tui.Host{Manager: manager, Factory: factory, Focus: focus, Cues: cues})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}

	muted := profile != nil && profile.Muted
	if cues != nil {
		muted = cues.Muted()
	}
	if err := session.Save(ctx, profileID, focus.ControlScheme(), muted); err != nil {
		log.Printf("warn: session not saved: %v", err)
	}
}
