// SPDX-License-Identifier: Apache-2.0

// Package vision adapts external image-to-text services to the roster
// extractor. Providers register themselves by name; the job picks one from
// configuration.
package vision

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/config"
	"github.com/rosterproj/roster-mcp/internal/roster"
)

// TextSource turns a roster image into raw text.
type TextSource interface {
	TextOf(ctx context.Context, image []byte) (string, error)
	Name() string
}

// Factory builds a TextSource from configuration.
type Factory func(ctx context.Context, cfg config.VisionConfig, logger *zap.Logger) (TextSource, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a provider available under name. Later registrations
// replace earlier ones.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the provider named in cfg.
func New(ctx context.Context, cfg config.VisionConfig, logger *zap.Logger) (TextSource, error) {
	mu.RLock()
	f, ok := factories[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown vision provider %q (registered: %s)", cfg.Provider, strings.Join(Providers(), ", "))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return f(ctx, cfg, logger)
}

// checkText enforces the boundary contract: a service that returns no text is
// reported as roster.ErrEmptyInput before segmentation runs.
func checkText(source, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s returned no text: %w", source, roster.ErrEmptyInput)
	}
	return text, nil
}

// TranscriptSource treats its input as an already transcribed roster, for
// manual transcriptions and for replaying saved service output.
type TranscriptSource struct{}

func NewTranscriptSource() *TranscriptSource {
	return &TranscriptSource{}
}

func (s *TranscriptSource) Name() string {
	return "text"
}

func (s *TranscriptSource) TextOf(_ context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("transcript is not valid UTF-8")
	}
	return checkText(s.Name(), string(data))
}

func init() {
	Register("text", func(context.Context, config.VisionConfig, *zap.Logger) (TextSource, error) {
		return NewTranscriptSource(), nil
	})
	Register("gemini", func(ctx context.Context, cfg config.VisionConfig, logger *zap.Logger) (TextSource, error) {
		return NewGeminiSource(ctx, cfg.APIKey, cfg.Model, cfg.Prompt, logger)
	})
}
