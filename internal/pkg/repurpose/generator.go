package repurpose

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TextGenerator is the LLM capability the generator depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Generator turns source text into per-platform posts.
type Generator struct {
	llm    TextGenerator
	logger *slog.Logger
}

// NewGenerator creates a Generator backed by llm.
func NewGenerator(llm TextGenerator, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: llm, logger: logger}
}

// NormalizePlatforms lower-cases and de-duplicates platforms, keeping request
// order. An empty list selects every platform.
func NormalizePlatforms(platforms []string) ([]string, error) {
	if len(platforms) == 0 {
		return append([]string(nil), AllPlatforms...), nil
	}
	seen := make(map[string]bool, len(platforms))
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		p = strings.ToLower(strings.TrimSpace(p))
		if !IsPlatform(p) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

// Generate prompts the model and returns the validated assets for platforms.
func (g *Generator) Generate(ctx context.Context, sourceText, tone string, platforms []string) (*Result, error) {
	platforms, err := NormalizePlatforms(platforms)
	if err != nil {
		return nil, &Error{Kind: KindValidationFailed, Err: err}
	}

	prompt := BuildPrompt(sourceText, tone, platforms)
	raw, err := g.llm.GenerateText(ctx, prompt)
	if err != nil {
		return nil, newError(KindUpstream, err)
	}

	obj, err := ParseResponse(raw)
	if err != nil {
		g.logger.Warn("model returned unparsable output", "error", err, "length", len(raw))
		return nil, err
	}

	res, err := Validate(obj, platforms)
	if err != nil {
		g.logger.Warn("model output failed validation", "error", err)
		return nil, err
	}
	if len(res.Fallbacks) > 0 {
		g.logger.Info("soft platforms replaced with fallback", "platforms", res.Fallbacks)
	}
	return res, nil
}
