// SPDX-License-Identifier: Apache-2.0

// Package tesseract registers a local OCR provider backed by gosseract.
// Import it for its side effect:
//
//	import _ "github.com/rosterproj/roster-mcp/internal/vision/tesseract"
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/config"
	"github.com/rosterproj/roster-mcp/internal/roster"
	"github.com/rosterproj/roster-mcp/internal/vision"
)

func init() {
	vision.Register("tesseract", func(_ context.Context, cfg config.VisionConfig, logger *zap.Logger) (vision.TextSource, error) {
		return New(logger, cfg.Languages...), nil
	})
}

// Source runs Tesseract OCR over the roster image.
type Source struct {
	languages     []string
	clientFactory func() *gosseract.Client
	logger        *zap.Logger
}

// New constructs a Tesseract-backed TextSource.
func New(logger *zap.Logger, languages ...string) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
		logger:        logger,
	}
}

func (s *Source) Name() string { return "tesseract" }

// TextOf recognizes the whole image. Inter-word spacing is preserved so the
// Duty Teams columns stay on one line per row.
func (s *Source) TextOf(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := s.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(s.languages) > 0 {
		if err := c.SetLanguage(s.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetVariable(gosseract.SettableVariable("preserve_interword_spaces"), "1"); err != nil {
		return "", fmt.Errorf("set variable: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	s.logger.Debug("ocr complete", zap.Int("chars", len(text)))

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s returned no text: %w", s.Name(), roster.ErrEmptyInput)
	}
	return text, nil
}
