package pipeline

import (
	"fmt"
	"strings"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"
)

// defaultMessage keeps the turn-taking contract stable when the caller sent
// no message: providers always receive a trailing user turn.
const defaultMessage = " "

// imageInstruction precedes the rendered image list in the system prompt.
const imageInstruction = "Select one of the following images:"

// BuildImageChoices renders candidates as newline-joined "key: url" lines.
// An empty list renders as the empty string and is left out of the prompt.
func BuildImageChoices(imgList []domain.ImageChoice) string {
	if len(imgList) == 0 {
		return ""
	}
	lines := make([]string, 0, len(imgList))
	for _, img := range imgList {
		lines = append(lines, fmt.Sprintf("%s: %s", img.Key, img.URL))
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt concatenates the trimmed non-empty segments in fixed order:
// public prompt, character prompt, note, image instruction + choices.
// Identical inputs always yield a byte-identical prompt.
func BuildPrompt(publicPrompt, characterPrompt, imgChoices, note string) string {
	parts := []string{
		strings.TrimSpace(publicPrompt),
		strings.TrimSpace(characterPrompt),
	}
	if strings.TrimSpace(note) != "" {
		parts = append(parts, strings.TrimSpace(note))
	}
	if strings.TrimSpace(imgChoices) != "" {
		parts = append(parts, imageInstruction, strings.TrimSpace(imgChoices))
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// BuildMessages returns the prior turns with exactly one appended user turn.
// The caller's slice is never mutated.
func BuildMessages(previous []domain.Turn, message string) []domain.Turn {
	if message == "" {
		message = defaultMessage
	}
	messages := make([]domain.Turn, 0, len(previous)+1)
	messages = append(messages, previous...)
	messages = append(messages, domain.Turn{Role: domain.RoleUser, Content: message})
	return messages
}
