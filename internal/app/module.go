// Package app composes the client's components with fx.
package app

import (
	"context"
	"time"

	"github.com/matheus3301/lmekki/internal/ai"
	"github.com/matheus3301/lmekki/internal/bus"
	"github.com/matheus3301/lmekki/internal/chat"
	"github.com/matheus3301/lmekki/internal/config"
	"github.com/matheus3301/lmekki/internal/lock"
	"github.com/matheus3301/lmekki/internal/logging"
	"github.com/matheus3301/lmekki/internal/media"
	"github.com/matheus3301/lmekki/internal/notify"
	"github.com/matheus3301/lmekki/internal/paths"
	"github.com/matheus3301/lmekki/internal/profile"
	"github.com/matheus3301/lmekki/internal/seed"
	"github.com/matheus3301/lmekki/internal/simulator"
	"github.com/matheus3301/lmekki/internal/speech"
	"github.com/matheus3301/lmekki/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the startup options passed to the fx module.
type Params struct {
	ConfigPath string
	// BaseDir overrides ~/.lmekki for the instance lock; empty = default.
	BaseDir string
	// Logger, when set, replaces the file logger (tests).
	Logger *zap.Logger
	// SimulatorPeriod and ToastLifetime override the defaults when non-zero.
	SimulatorPeriod time.Duration
	ToastLifetime   time.Duration
}

// Client is everything the UI needs, resolved from the graph.
type Client struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Bus       *bus.Bus
	Directory *store.Directory
	Convs     *store.Conversations
	Chat      *chat.Service
	AI        *ai.Adapter `optional:"true"`
	Presenter *notify.Presenter
	Media     media.Provider
	Speech    speech.Recognizer `optional:"true"`
	Profile   *profile.Holder
}

// Module returns the fx module for the client, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("lmekki",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			seed.Load,
			provideStore,
			provideAI,
			provideChat,
			providePresenter,
			provideSimulator,
			provideMedia,
			provideProfile,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = paths.ConfigPath()
	}
	return config.LoadOrDefault(path)
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	if p.Logger != nil {
		return p.Logger, nil
	}
	path := cfg.LogPath
	if path == "" {
		path = paths.LogPath("lmekki")
	}
	return logging.New(logging.Options{Path: path, App: "lmekki"})
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	dir := p.BaseDir
	if dir == "" {
		dir = paths.BaseDir()
	}
	l, err := lock.Acquire(dir)
	if err != nil {
		return nil, err
	}
	logger.Info("instance lock acquired", zap.String("path", l.Path()))
	return l, nil
}

type storeOut struct {
	fx.Out

	Directory *store.Directory
	Convs     *store.Conversations
}

func provideStore(s *seed.Seed, b *bus.Bus, logger *zap.Logger) storeOut {
	dir, convs := store.FromSeed(s, b)
	logger.Info("directory seeded", zap.Int("contacts", len(s.Contacts)), zap.String("ai_contact", s.AI.ContactID))
	return storeOut{Directory: dir, Convs: convs}
}

func provideAI(cfg *config.Config, s *seed.Seed, logger *zap.Logger) (*ai.Adapter, error) {
	adapter, err := ai.New(context.Background(), ai.Options{
		APIKey:     cfg.ResolveAPIKey(),
		Persona:    s.AI.Persona,
		ChatModel:  s.AI.ChatModel,
		ImageModel: s.AI.ImageModel,
	}, logger)
	if err != nil {
		// A broken credential degrades like a missing one.
		logger.Error("failed to initialize AI session", zap.Error(err))
		return nil, nil
	}
	return adapter, nil
}

func provideChat(dir *store.Directory, convs *store.Conversations, adapter *ai.Adapter, logger *zap.Logger) *chat.Service {
	return chat.NewService(dir, convs, adapter, logger.Named("chat"))
}

func providePresenter(p Params, b *bus.Bus) *notify.Presenter {
	return notify.NewPresenter(p.ToastLifetime, b)
}

func provideSimulator(p Params, s *seed.Seed, dir *store.Directory, convs *store.Conversations, presenter *notify.Presenter, logger *zap.Logger) *simulator.Simulator {
	return simulator.New(dir, convs, presenter, s.InboundPool, p.SimulatorPeriod, logger.Named("simulator"))
}

func provideMedia() media.Provider {
	return media.NewLoopback()
}

func provideProfile(cfg *config.Config) *profile.Holder {
	return profile.NewHolder(profile.FromConfig(cfg))
}

func registerLifecycle(lc fx.Lifecycle, sim *simulator.Simulator, presenter *notify.Presenter, svc *chat.Service, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sim.Start(context.Background())
			logger.Info("client started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sim.Stop()
			presenter.Stop()
			done := make(chan struct{})
			go func() {
				svc.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				logger.Warn("AI exchanges still in flight at shutdown")
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
