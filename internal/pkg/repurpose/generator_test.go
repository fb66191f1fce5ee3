package repurpose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/repurpose_server/internal/pkg/logging"
)

type stubLLM struct {
	reply  string
	err    error
	prompt string
}

func (s *stubLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestGenerator_Generate(t *testing.T) {
	llm := &stubLLM{reply: "```json\n{\"twitter\":[\"t1 #a\",\"t2 #b\"],\"linkedin\":\"A solid LinkedIn post.\",\"email\":\"extra key ignored\"}\n```"}
	g := NewGenerator(llm, logging.Discard())

	res, err := g.Generate(context.Background(), "source", "casual", []string{"Twitter", "linkedin", "twitter"})

	require.NoError(t, err)
	assert.Equal(t, []string{PlatformTwitter, PlatformLinkedin}, res.Platforms)
	assert.Equal(t, []string{"t1 #a", "t2 #b"}, res.Twitter)
	assert.Nil(t, res.Email)
	assert.Contains(t, llm.prompt, "relaxed, friendly, and conversational")
}

func TestGenerator_DefaultsToAllPlatforms(t *testing.T) {
	llm := &stubLLM{reply: `{"twitter":["t"],"linkedin":"long enough!","instagram":"long enough!","facebook":"long enough!","email":"long enough!"}`}
	g := NewGenerator(llm, logging.Discard())

	res, err := g.Generate(context.Background(), "source", "", nil)

	require.NoError(t, err)
	assert.Equal(t, AllPlatforms, res.Platforms)
	assert.Len(t, res.Map(), 5)
}

func TestGenerator_Failures(t *testing.T) {
	tests := []struct {
		name      string
		llm       *stubLLM
		platforms []string
		wantKind  Kind
	}{
		{"upstream error", &stubLLM{err: errors.New("503")}, nil, KindUpstream},
		{"malformed", &stubLLM{reply: "not json"}, nil, KindMalformedResponse},
		{"validation", &stubLLM{reply: `{"linkedin":"short"}`}, []string{PlatformLinkedin}, KindValidationFailed},
		{"unknown platform", &stubLLM{reply: `{}`}, []string{"tiktok"}, KindValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.llm, logging.Discard())

			res, err := g.Generate(context.Background(), "source", "professional", tt.platforms)

			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestNormalizePlatforms(t *testing.T) {
	got, err := NormalizePlatforms([]string{" EMAIL", "twitter", "email"})
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "twitter"}, got)

	_, err = NormalizePlatforms([]string{"myspace"})
	assert.ErrorIs(t, err, ErrUnknownPlatform)

	all, err := NormalizePlatforms(nil)
	require.NoError(t, err)
	all[0] = "mutated"
	assert.Equal(t, PlatformTwitter, AllPlatforms[0])
}
