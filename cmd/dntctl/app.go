package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/config"
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv"
	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv/bolt"
	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv/memory"
	"github.com/haukened/discourse-new-tab/internal/dnt/repos/settings"
	"github.com/haukened/discourse-new-tab/internal/dnt/repos/sitelist"
	"github.com/haukened/discourse-new-tab/internal/dnt/repos/sitelist/bloom"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules/custom"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/activation"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/classify"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/debuglog"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/detector"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/engine"
)

// Application holds every component the commands use.
type Application struct {
	config     *config.AppConfig
	store      kv.Store
	settings   *settings.Store
	lists      *sitelist.Repository
	rules      []domain.Rule
	classifier *classify.Classifier
	report     *debuglog.Reporter
	engine     *engine.Engine
	detector   *detector.Detector
	gate       *activation.Gate
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	store, err := buildStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build store: %w", err)
	}

	classifier, err := classify.NewClassifier(cfg.ClassifyCacheSize)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	ruleSet, err := buildRules(cfg, classifier)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	set := settings.New(store, rules.IDs(ruleSet), logger)
	// A nil base follows the global logger, so a later log.Configure applies.
	report := debuglog.New(log.NewCategoryLogger(nil, set, cfg.Label))
	lists := sitelist.New(store, bloom.NewFactory(), logger)
	det := detector.New(report)

	return &Application{
		config:     cfg,
		store:      store,
		settings:   set,
		lists:      lists,
		rules:      ruleSet,
		classifier: classifier,
		report:     report,
		engine:     engine.New(set, report),
		detector:   det,
		gate:       activation.New(lists, det, logger),
	}, nil
}

// buildStore opens the bbolt file backed by an in-memory fallback. An
// empty path, or a file that cannot be opened, keeps settings in memory.
func buildStore(cfg *config.AppConfig, logger log.Logger) (kv.Store, error) {
	mem := memory.New()
	if cfg.StorePath == "" {
		logger.Info(map[string]any{"backend": "memory"}, "Settings store configured")
		return mem, nil
	}
	db, err := bolt.Open(cfg.StorePath, cfg.StoreTimeout)
	if err != nil {
		logger.Warn(map[string]any{
			"path":  cfg.StorePath,
			"error": err.Error(),
		}, "Settings file unavailable, keeping settings in memory")
		return mem, nil
	}
	logger.Info(map[string]any{
		"backend": "bbolt",
		"path":    cfg.StorePath,
	}, "Settings store configured")
	return kv.Fallback(db, mem, logger), nil
}

// buildRules returns the built-in catalogue with any custom rules slotted in.
func buildRules(cfg *config.AppConfig, classifier *classify.Classifier) ([]domain.Rule, error) {
	var extra []domain.Rule
	if cfg.RulesDir != "" {
		compiler, err := custom.NewCompiler(classifier)
		if err != nil {
			return nil, err
		}
		extra, err = custom.LoadDirectory(cfg.RulesDir, compiler, rules.BuiltinIDs())
		if err != nil {
			return nil, fmt.Errorf("failed to load custom rules: %w", err)
		}
		log.Info(map[string]any{
			"rules_dir": cfg.RulesDir,
			"rules":     len(extra),
		}, "Custom rules loaded")
	}
	all := rules.All(extra...)
	if err := rules.Validate(all); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}
	return all, nil
}

// knownRule reports whether id names a switch of the loaded rule set.
func (app *Application) knownRule(id string) bool {
	for _, known := range rules.IDs(app.rules) {
		if known == id {
			return true
		}
	}
	return false
}

// debugEnabled reads the master debug switch.
func (app *Application) debugEnabled(ctx context.Context) bool {
	return app.settings.DebugEnabled(ctx)
}

// Close releases the store.
func (app *Application) Close() error {
	if app == nil || app.store == nil {
		return nil
	}
	err := app.store.Close()
	if errors.Is(err, kv.ErrClosed) {
		return nil
	}
	return err
}
