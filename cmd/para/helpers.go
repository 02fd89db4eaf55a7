package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/parabrain/para-flow/internal/classify"
	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/config"
	"github.com/parabrain/para-flow/internal/feedback"
	"github.com/parabrain/para-flow/internal/llm"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/routing"
	"github.com/parabrain/para-flow/internal/service"
	"github.com/parabrain/para-flow/internal/storage"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

// app bundles the wired-up components shared by the commands.
type app struct {
	store      *storage.SQLiteStorage
	classifier *classify.Service
	engine     *routing.Engine
	tracker    *feedback.Tracker
	ai         *llm.Classifier
}

// newApp opens storage, runs migrations, and wires the classification and
// routing stack. withAI additionally builds the external model chain; wiring
// still succeeds without API keys, the chain just fails at call time.
func newApp(ctx context.Context, withAI bool) (*app, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	weightStore, err := storage.NewPersistentWeightStore(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	resolver := taxonomy.NewPathResolver(config.LoadBasePaths())
	classifier := classify.NewWithConfig(weightStore, resolver, classify.SystemClock{}, config.LoadClassifyConfig())

	var ai *llm.Classifier
	var contentClassifier service.ContentClassifier
	if withAI {
		ai, err = llm.NewClassifier(config.LoadChainConfig(), store)
		if err != nil {
			slog.Warn("External model chain unavailable, heuristics only", "error", err)
		} else {
			contentClassifier = ai
		}
	}

	engine := routing.New(classifier, routing.DefaultRules(classifier, contentClassifier), nil, store)

	return &app{
		store:      store,
		classifier: classifier,
		engine:     engine,
		tracker:    feedback.NewTracker(weightStore),
		ai:         ai,
	}, nil
}

// Close releases storage and the model chain.
func (a *app) Close() {
	if a.ai != nil {
		_ = a.ai.Close()
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}

// parseHistory validates --history values against the taxonomy and returns
// them in order, oldest first.
func parseHistory(names []string) ([]model.CategoryName, error) {
	if len(names) == 0 {
		return nil, nil
	}

	history := make([]model.CategoryName, 0, len(names))
	for _, name := range names {
		cat := model.CategoryName(strings.TrimSpace(name))
		if !taxonomy.Contains(cat) {
			return nil, &common.TaxonomyError{Name: string(cat)}
		}
		history = append(history, cat)
	}
	return history, nil
}

// readInput returns args joined, or stdin when no args were given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
