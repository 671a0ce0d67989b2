// SPDX-License-Identifier: Apache-2.0

package vision

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSource asks a Gemini vision model to transcribe the roster image.
type GeminiSource struct {
	models contentGenerator
	model  string
	prompt string
	logger *zap.Logger
}

// NewGeminiSource creates a Gemini-backed TextSource.
func NewGeminiSource(ctx context.Context, apiKey, model, prompt string, logger *zap.Logger) (*GeminiSource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiSource(client.Models, model, prompt, logger), nil
}

func newGeminiSource(models contentGenerator, model, prompt string, logger *zap.Logger) *GeminiSource {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiSource{models: models, model: model, prompt: prompt, logger: logger}
}

func (s *GeminiSource) Name() string {
	return fmt.Sprintf("gemini:%s", s.model)
}

// TextOf sends the prompt and the image in one user turn and returns the
// model's text with any Markdown code fence removed.
func (s *GeminiSource) TextOf(ctx context.Context, image []byte) (string, error) {
	mime := http.DetectContentType(image)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("unsupported image type %q", mime)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(s.prompt),
		genai.NewPartFromBytes(image, mime),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	s.logger.Debug("requesting transcription",
		zap.String("model", s.model),
		zap.String("mime", mime),
		zap.Int("bytes", len(image)))

	resp, err := s.models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return checkText(s.Name(), "")
	}
	return checkText(s.Name(), stripCodeFence(resp.Text()))
}

// stripCodeFence removes a surrounding ``` block, which models add even when
// asked for raw text.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		trimmed = trimmed[i+1:]
	} else {
		trimmed = ""
	}
	return strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
}
