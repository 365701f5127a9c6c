package lesson

import (
	"fmt"
	"strings"
)

// Mode selects the correction discipline of a typing session.
type Mode string

const (
	// ModeStrict requires the expected character before the cursor moves on.
	ModeStrict Mode = "strict"
	// ModePractice always advances, keeping mistakes on screen.
	ModePractice Mode = "practice"
)

// ParseMode parses a mode name. An empty name selects strict mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStrict:
		return ModeStrict, nil
	case ModePractice:
		return ModePractice, nil
	default:
		return "", fmt.Errorf("unknown mode %q (use strict or practice)", s)
	}
}

// Lesson describes a code snippet to type.
type Lesson struct {
	ID          string   `json:"id" toml:"id"`
	Title       string   `json:"title" toml:"title"`
	Language    string   `json:"language" toml:"language"`
	Concept     string   `json:"concept,omitempty" toml:"concept"`
	Description string   `json:"description,omitempty" toml:"description"`
	Code        string   `json:"code" toml:"code"`
	Exclude     []string `json:"exclude,omitempty" toml:"exclude"`
	Mode        Mode     `json:"mode" toml:"mode"`
	Difficulty  string   `json:"difficulty,omitempty" toml:"difficulty"`
	Order       int      `json:"order" toml:"order"`
	Tags        []string `json:"tags,omitempty" toml:"tags"`
	Level       string   `json:"level,omitempty" toml:"level"`
}

// Compile compiles the lesson code with its exclude list.
func (l *Lesson) Compile() []Target {
	return Compile(l.Code, l.Exclude)
}

// EffectiveMode returns the lesson mode, or fallback when the lesson does not set one.
func (l *Lesson) EffectiveMode(fallback Mode) Mode {
	if l.Mode == "" {
		return fallback
	}
	return l.Mode
}

// DisplayTitle returns the title, falling back to the ID.
func (l *Lesson) DisplayTitle() string {
	if strings.TrimSpace(l.Title) != "" {
		return l.Title
	}
	return l.ID
}

func (l *Lesson) validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("lesson id is empty")
	}
	if l.Mode != "" {
		mode, err := ParseMode(string(l.Mode))
		if err != nil {
			return fmt.Errorf("lesson %s: %w", l.ID, err)
		}
		l.Mode = mode
	}
	return nil
}
