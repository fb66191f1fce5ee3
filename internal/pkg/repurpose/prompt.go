// Package repurpose builds the multi-platform prompt, parses the model's JSON
// answer and validates it per platform.
package repurpose

import (
	"fmt"
	"strings"
)

// Platform identifiers accepted in requests and used as JSON keys.
const (
	PlatformTwitter   = "twitter"
	PlatformLinkedin  = "linkedin"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformEmail     = "email"
)

// DefaultTone is used when the request names no tone or an unknown one.
const DefaultTone = "professional"

// AllPlatforms lists every platform in prompt order.
var AllPlatforms = []string{PlatformTwitter, PlatformLinkedin, PlatformInstagram, PlatformFacebook, PlatformEmail}

// Tone is a named writing style with the phrase injected into the prompt.
type Tone struct {
	Name        string
	Description string
}

// Tones lists the supported tones in display order.
var Tones = []Tone{
	{"professional", "polished, insightful, and business-appropriate"},
	{"casual", "relaxed, friendly, and conversational"},
	{"funny", "humorous, witty, and entertaining with light-hearted jokes"},
	{"controversial", "bold, thought-provoking, and debate-sparking (while remaining respectful)"},
	{"inspirational", "motivational, uplifting, and empowering"},
	{"educational", "informative, clear, and teaching-focused"},
}

// NormalizeTone lower-cases tone and falls back to DefaultTone when unknown.
func NormalizeTone(tone string) string {
	tone = strings.ToLower(strings.TrimSpace(tone))
	for _, t := range Tones {
		if t.Name == tone {
			return tone
		}
	}
	return DefaultTone
}

func toneDescription(tone string) string {
	tone = NormalizeTone(tone)
	for _, t := range Tones {
		if t.Name == tone {
			return t.Description
		}
	}
	return Tones[0].Description
}

// IsPlatform reports whether p is a known platform identifier.
func IsPlatform(p string) bool {
	for _, known := range AllPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

func platformInstruction(platform, tone string) string {
	switch platform {
	case PlatformTwitter:
		return fmt.Sprintf(`"twitter": (For X/Twitter)
Must be an array containing exactly 5 unique tweets.
Each tweet must be under 280 characters.
The tone should be %s.
Must include 2-3 relevant, high-traffic hashtags.
Must include at least one relevant emoji.
Each tweet must highlight a different angle or key takeaway.`, tone)
	case PlatformLinkedin:
		return fmt.Sprintf(`"linkedin":
Must be a single string containing a professional LinkedIn post (approx 150 words).
Start with a strong hook. Tone: %s.
Structure with short paragraphs for readability.
End with a clear CTA or question.`, tone)
	case PlatformInstagram:
		return fmt.Sprintf(`"instagram":
Must be a single string containing an Instagram caption.
Tone: %s.
Include "Link in bio" or similar CTA if relevant.
Must include a block of 10-15 relevant hashtags at the end.`, tone)
	case PlatformFacebook:
		return fmt.Sprintf(`"facebook":
Must be a single string containing a Facebook post.
Tone: %s.
Slightly longer form than Twitter but more casual than LinkedIn.
Encourage discussion/comments.`, tone)
	case PlatformEmail:
		return fmt.Sprintf(`"email":
Must be a single string containing a concise email newsletter summary (approx 100 words).
Tone: %s.
Subject line style hook. Clear value proposition.`, tone)
	}
	return ""
}

// BuildPrompt renders the single instruction block followed by the source text.
// platforms must already be normalized.
func BuildPrompt(sourceText, tone string, platforms []string) string {
	tone = NormalizeTone(tone)
	desc := toneDescription(tone)

	quoted := make([]string, 0, len(platforms))
	instructions := make([]string, 0, len(platforms))
	for _, p := range platforms {
		quoted = append(quoted, `"`+p+`"`)
		if ins := platformInstruction(p, desc); ins != "" {
			instructions = append(instructions, ins)
		}
	}
	keys := strings.Join(quoted, ", ")

	var b strings.Builder
	b.WriteString("You are an expert social media marketing assistant and content repurposing specialist. ")
	b.WriteString("Your task is to take a piece of source content and transform it into a structured JSON object containing assets for different platforms.\n\n")
	fmt.Fprintf(&b, "IMPORTANT: The user has selected a %q tone. All content you generate must reflect this tone: %s.\n\n", tone, desc)
	fmt.Fprintf(&b, "Based only on the source content I provide below, generate a single, valid JSON object with the following keys: %s.\n\n", keys)
	b.WriteString("Key Requirements:\n\n")
	b.WriteString(strings.Join(instructions, "\n\n"))
	b.WriteString("\n\nOutput Constraints:\n")
	b.WriteString("Return ONLY the raw, valid JSON object starting with { and ending with }.\n")
	b.WriteString("Do NOT include any introductory text, explanations, or markdown formatting like ```json ...```\n")
	fmt.Fprintf(&b, "Only include the platforms requested: %s\n", keys)
	b.WriteString("\n\nContent:\n")
	b.WriteString(sourceText)
	return b.String()
}
