package repurpose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTone(t *testing.T) {
	assert.Equal(t, "funny", NormalizeTone("Funny"))
	assert.Equal(t, "casual", NormalizeTone("  casual "))
	assert.Equal(t, DefaultTone, NormalizeTone(""))
	assert.Equal(t, DefaultTone, NormalizeTone("sarcastic"))
}

func TestBuildPrompt_RequestedPlatformsOnly(t *testing.T) {
	prompt := BuildPrompt("SOURCE TEXT", "funny", []string{PlatformTwitter, PlatformEmail})

	assert.Contains(t, prompt, `following keys: "twitter", "email".`)
	assert.Contains(t, prompt, "exactly 5 unique tweets")
	assert.Contains(t, prompt, "email newsletter summary")
	assert.NotContains(t, prompt, `"linkedin":`)
	assert.NotContains(t, prompt, `"instagram":`)
	assert.Contains(t, prompt, "humorous, witty, and entertaining")
	assert.Contains(t, prompt, "Do NOT include")
	assert.True(t, strings.HasSuffix(prompt, "Content:\nSOURCE TEXT"))
}

func TestBuildPrompt_UnknownToneUsesProfessional(t *testing.T) {
	prompt := BuildPrompt("x", "weird", AllPlatforms)

	assert.Contains(t, prompt, `selected a "professional" tone`)
	assert.Contains(t, prompt, "polished, insightful, and business-appropriate")
	for _, p := range AllPlatforms {
		assert.Contains(t, prompt, `"`+p+`":`)
	}
}

func TestIsPlatform(t *testing.T) {
	assert.True(t, IsPlatform("linkedin"))
	assert.False(t, IsPlatform("tiktok"))
	assert.False(t, IsPlatform("Twitter"))
}
