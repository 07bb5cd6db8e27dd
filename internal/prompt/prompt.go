// Package prompt holds the translator system instructions and builds prompts.
package prompt

import (
	"fmt"

	"github.com/pricofy/bedrock-translator/internal/domain"
)

// Style selects one of the built-in system instructions.
type Style string

const (
	StyleDetailed Style = "detailed"
	StyleBrief    Style = "brief"
)

// Detailed is the multi-guideline Japanese-English instruction.
const Detailed = `You are a professional translator specialized in Japanese-English translation.

Task: Detect the input language and translate accurately to the other language (Japanese to English or English to Japanese).

Guidelines:
- Preserve the original meaning, tone, and nuance
- Maintain formality level of the source text
- If input contains slang, idioms, or cultural references, translate appropriately
- Do not add explanations or notes unless the meaning would be lost without them
- Translate names only when necessary for cultural context
- Output only the translation with no additional text

For ambiguous phrases, choose the most likely interpretation based on context.

Only output the translation, no other text or explanations.`

// Brief is the one-line instruction.
const Brief = "You are a helpful translator. Translate the user sentence between Japanese and English."

// ForStyle returns the built-in instruction for style.
func ForStyle(style Style) (string, error) {
	switch style {
	case StyleDetailed:
		return Detailed, nil
	case StyleBrief:
		return Brief, nil
	default:
		return "", fmt.Errorf("unknown system prompt style %q", style)
	}
}

// Build returns the two-message prompt: the system instruction followed by the user text.
func Build(system, input string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Text: system},
		{Role: domain.RoleHuman, Text: input},
	}
}
