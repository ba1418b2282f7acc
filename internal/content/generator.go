// Package content defines the contracts for content generation and social
// publishing that the automation core depends on.
package content

import (
	"context"
	"fmt"
	"strings"
)

// Platform character limits enforced by the demo generator.
var platformLimits = map[string]int{
	"twitter":   280,
	"linkedin":  3000,
	"instagram": 2200,
	"facebook":  63206,
}

// DefaultPlatformLimit applies when the platform is unknown.
const DefaultPlatformLimit = 1000

// Request describes one content generation call.
type Request struct {
	Topic           string `json:"topic"`
	Platform        string `json:"platform"`
	Tone            string `json:"tone"`
	Length          string `json:"length"`
	IncludeHashtags bool   `json:"include_hashtags"`
}

// GeneratedContent is the result of a content generation call.
type GeneratedContent struct {
	Text            string   `json:"text"`
	Hashtags        []string `json:"hashtags"`
	CharacterCount  int      `json:"character_count"`
	PlatformLimit   int      `json:"platform_limit"`
	EngagementScore float64  `json:"engagement_score"`
}

// Generator produces social media content. Implementations may call an
// external provider and can fail with rate-limit or provider errors.
type Generator interface {
	Generate(ctx context.Context, req Request) (*GeneratedContent, error)
}

// PlatformLimit returns the character limit for a platform.
func PlatformLimit(platform string) int {
	if limit, ok := platformLimits[strings.ToLower(platform)]; ok {
		return limit
	}
	return DefaultPlatformLimit
}

// DemoGenerator produces deterministic template-based content without any
// external provider. It backs local development and demo accounts.
type DemoGenerator struct{}

// NewDemoGenerator creates a demo content generator.
func NewDemoGenerator() *DemoGenerator {
	return &DemoGenerator{}
}

// Generate builds templated content for the requested topic and platform.
func (g *DemoGenerator) Generate(_ context.Context, req Request) (*GeneratedContent, error) {
	if req.Topic == "" {
		return nil, fmt.Errorf("content request: topic is required")
	}
	if req.Platform == "" {
		return nil, fmt.Errorf("content request: platform is required")
	}

	limit := PlatformLimit(req.Platform)
	text := g.buildText(req)
	if len(text) > limit {
		text = text[:limit-3] + "..."
	}

	var hashtags []string
	if req.IncludeHashtags {
		hashtags = buildHashtags(req.Topic, req.Platform)
	}

	return &GeneratedContent{
		Text:            text,
		Hashtags:        hashtags,
		CharacterCount:  len(text),
		PlatformLimit:   limit,
		EngagementScore: engagementScore(req),
	}, nil
}

func (g *DemoGenerator) buildText(req Request) string {
	var b strings.Builder
	switch req.Tone {
	case "casual":
		b.WriteString("Been thinking a lot about " + req.Topic + " lately. ")
	case "enthusiastic":
		b.WriteString("Incredibly excited about " + req.Topic + "! ")
	default:
		b.WriteString("Key insights on " + req.Topic + ": ")
	}

	b.WriteString("Consistency beats intensity. Small daily improvements in " +
		req.Topic + " compound into outsized results over time.")

	if req.Length == "long" {
		b.WriteString(" The teams that win are the ones that treat " + req.Topic +
			" as a system, not an event. Measure what matters, iterate weekly, and share what you learn.")
	}
	return b.String()
}

func buildHashtags(topic, platform string) []string {
	var b strings.Builder
	for _, word := range strings.Fields(topic) {
		b.WriteString(strings.ToUpper(word[:1]) + word[1:])
	}
	tags := []string{"#" + b.String(), "#Growth"}
	if strings.ToLower(platform) == "linkedin" {
		tags = append(tags, "#Leadership")
	}
	return tags
}

// engagementScore is a rough predicted-engagement heuristic keyed on tone
// and length, bounded to [0, 10].
func engagementScore(req Request) float64 {
	score := 6.0
	switch req.Tone {
	case "casual":
		score += 0.5
	case "enthusiastic":
		score += 1.0
	}
	if req.Length == "short" {
		score += 0.5
	}
	if req.IncludeHashtags {
		score += 0.5
	}
	if score > 10 {
		score = 10
	}
	return score
}
