// SPDX-License-Identifier: Apache-2.0

package vision

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/rosterproj/roster-mcp/internal/config"
	"github.com/rosterproj/roster-mcp/internal/roster"
)

type fakeModels struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
	}, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestGeminiSource_TextOf(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    string
		wantErr error
	}{
		{name: "plain text", reply: "SURGICAL BLOCK\nDuty JR - Dr. C", want: "SURGICAL BLOCK\nDuty JR - Dr. C"},
		{name: "fenced text", reply: "```text\nMCH BLOCK\nDuty JR - A, B\n```", want: "MCH BLOCK\nDuty JR - A, B"},
		{name: "blank reply", reply: "  \n", wantErr: roster.ErrEmptyInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			models := &fakeModels{text: tt.reply}
			src := newGeminiSource(models, "gemini-test", "transcribe", nil)

			got, err := src.TextOf(context.Background(), pngBytes(t))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.Equal(t, "gemini-test", models.model)
			require.Len(t, models.contents, 1)
			parts := models.contents[0].Parts
			require.Len(t, parts, 2)
			assert.Equal(t, "transcribe", parts[0].Text)
			require.NotNil(t, parts[1].InlineData)
			assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
		})
	}
}

func TestGeminiSource_RejectsNonImage(t *testing.T) {
	src := newGeminiSource(&fakeModels{text: "x"}, "", "p", nil)
	_, err := src.TextOf(context.Background(), []byte("just some text"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image type")
	assert.Equal(t, "gemini:gemini-2.0-flash", src.Name())
}

func TestGeminiSource_ServiceError(t *testing.T) {
	src := newGeminiSource(&fakeModels{err: errors.New("quota exceeded")}, "m", "p", nil)
	_, err := src.TextOf(context.Background(), pngBytes(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNewGeminiSource_RequiresKey(t *testing.T) {
	_, err := NewGeminiSource(context.Background(), "", "m", "p", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestTranscriptSource(t *testing.T) {
	src := NewTranscriptSource()

	got, err := src.TextOf(context.Background(), []byte("MCH BLOCK\nDuty JR - A"))
	require.NoError(t, err)
	assert.Equal(t, "MCH BLOCK\nDuty JR - A", got)

	_, err = src.TextOf(context.Background(), []byte("\n\n"))
	assert.ErrorIs(t, err, roster.ErrEmptyInput)

	_, err = src.TextOf(context.Background(), []byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	src, err := New(context.Background(), config.VisionConfig{Provider: "text"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "text", src.Name())

	_, err = New(context.Background(), config.VisionConfig{Provider: "paddle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown vision provider")

	assert.Contains(t, Providers(), "gemini")
}
