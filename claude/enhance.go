package claude

import (
	"context"
	"sort"
	"strings"

	"github.com/vinayprograms/wavekit/errors"
)

// Style selects the artistic direction the enhancer applies.
type Style string

// Enhancement styles.
const (
	StylePhotorealistic Style = "photorealistic"
	StyleCinematic      Style = "cinematic"
	StyleFantasyArt     Style = "fantasy_art"
	StyleCyberpunk      Style = "cyberpunk"
	StyleSteampunk      Style = "steampunk"
	StyleAnime          Style = "anime"
	StyleOilPainting    Style = "oil_painting"
	StyleWatercolor     Style = "watercolor"
	StyleDigitalArt     Style = "digital_art"
	StyleConceptArt     Style = "concept_art"
	StyleMinimalist     Style = "minimalist"
	StyleNoir           Style = "noir"
)

// DetailLevel selects how much the enhancer elaborates.
type DetailLevel string

// Detail levels.
const (
	DetailMinimal  DetailLevel = "minimal"
	DetailModerate DetailLevel = "moderate"
	DetailDetailed DetailLevel = "detailed"
	DetailUltra    DetailLevel = "ultra-detailed"
)

// stylePrompts maps each style to its system prompt.
var stylePrompts = map[Style]string{
	StylePhotorealistic: `You are an expert photography director. Transform the user's simple prompt into a detailed, photorealistic description.
Include: lighting setup, camera settings, lens choice, depth of field, composition, mood, and technical photography details.
Focus on realism and technical precision.`,

	StyleCinematic: `You are a cinematography expert. Transform the user's prompt into a cinematic scene description.
Include: dramatic lighting, camera angles, depth, atmosphere, color grading style, film-like qualities.
Emphasize mood, drama, and visual storytelling.`,

	StyleFantasyArt: `You are a fantasy art director. Transform the user's prompt into a rich fantasy artwork description.
Include: magical elements, ethereal lighting, mystical atmosphere, intricate details, fantastical colors.
Emphasize wonder, magic, and imaginative elements.`,

	StyleCyberpunk: `You are a cyberpunk art director. Transform the user's prompt into a cyberpunk-styled description.
Include: neon lighting, futuristic tech, urban decay, high contrast, vibrant colors, technological elements.
Emphasize dystopian future aesthetics and technological integration.`,

	StyleSteampunk: `You are a steampunk art director. Transform the user's prompt into a steampunk-styled description.
Include: Victorian era elements, brass and copper, gears and mechanisms, steam-powered technology, vintage aesthetics.
Emphasize industrial revolution meets fantasy.`,

	StyleAnime: `You are an anime art director. Transform the user's prompt into an anime-style description.
Include: expressive features, dynamic poses, vibrant colors, characteristic anime aesthetics, emotional intensity.
Emphasize Japanese animation style and visual conventions.`,

	StyleOilPainting: `You are a classical oil painting expert. Transform the user's prompt into a description suitable for an oil painting.
Include: brushstroke qualities, color palette, texture, classical composition, artistic techniques.
Emphasize painterly qualities and traditional art aesthetics.`,

	StyleWatercolor: `You are a watercolor painting expert. Transform the user's prompt into a watercolor artwork description.
Include: soft edges, color bleeding, transparency, delicate washes, paper texture, gentle transitions.
Emphasize fluidity and delicate watercolor characteristics.`,

	StyleDigitalArt: `You are a digital art director. Transform the user's prompt into a modern digital artwork description.
Include: digital techniques, layer effects, precise details, modern aesthetics, digital rendering qualities.
Emphasize contemporary digital art style.`,

	StyleConceptArt: `You are a concept art director. Transform the user's prompt into professional concept art description.
Include: design principles, functionality, visual development, clear silhouettes, purposeful details.
Emphasize professional game/film concept art quality.`,

	StyleMinimalist: `You are a minimalist design expert. Transform the user's prompt into a minimalist description.
Include: essential elements only, clean lines, simple color palette, negative space, geometric simplicity.
Emphasize "less is more" philosophy and elegant simplicity.`,

	StyleNoir: `You are a film noir expert. Transform the user's prompt into a noir-styled description.
Include: high contrast shadows, dramatic lighting, moody atmosphere, urban settings, mysterious elements.
Emphasize dark, atmospheric, and dramatic qualities.`,
}

// detailInstructions maps each detail level to its instruction line.
var detailInstructions = map[DetailLevel]string{
	DetailMinimal:  "Add just essential details. Keep it concise and focused.",
	DetailModerate: "Add good detail and atmosphere. Balance detail with readability.",
	DetailDetailed: "Add rich detail, atmosphere, and context. Be descriptive and vivid.",
	DetailUltra:    "Add maximum detail, nuance, and specificity. Be extremely descriptive.",
}

// enhanceGuidelines closes every enhancement system prompt.
const enhanceGuidelines = `Guidelines:
- Transform simple prompts into rich, detailed descriptions
- Maintain the core subject and intent
- Add atmospheric and contextual details
- Use vivid, specific language
- Don't add irrelevant elements
- Output ONLY the enhanced prompt, no explanation or preamble`

// Styles returns the available enhancement styles, sorted.
func Styles() []Style {
	out := make([]Style, 0, len(stylePrompts))
	for s := range stylePrompts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SystemPrompt builds the enhancement system prompt for a style and
// detail level. Unknown values fall back to photorealistic/detailed.
func SystemPrompt(style Style, level DetailLevel) string {
	styleText, ok := stylePrompts[style]
	if !ok {
		styleText = stylePrompts[StylePhotorealistic]
	}
	detailText, ok := detailInstructions[level]
	if !ok {
		detailText = detailInstructions[DetailDetailed]
	}
	return styleText + "\n\nDetail Level: " + detailText + "\n\n" + enhanceGuidelines
}

// Enhancer elaborates simple prompts into detailed, styled descriptions
// for image generation.
type Enhancer struct {
	client *Client
}

// NewEnhancer creates an enhancer backed by the client.
func NewEnhancer(client *Client) *Enhancer {
	return &Enhancer{client: client}
}

// Enhance rewrites the prompt in the given style and returns only the
// enhanced text.
func (e *Enhancer) Enhance(ctx context.Context, prompt string, style Style, level DetailLevel) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.InvalidInput("prompt cannot be empty")
	}

	resp, err := e.client.Complete(ctx, CompletionRequest{
		Messages: []Message{
			{Role: RoleUser, Content: "Enhance this prompt: " + prompt},
		},
		System: SystemPrompt(style, level),
	})
	if err != nil {
		return "", errors.Wrap(err, "enhancing prompt")
	}
	return strings.TrimSpace(resp.Text), nil
}
