package domain

import (
	"errors"
	"strings"
)

// Kana-specific validation errors
var (
	// ErrKanaCharEmpty is returned when a kana has no glyph.
	ErrKanaCharEmpty = errors.New("kana character cannot be empty")

	// ErrKanaRomajiEmpty is returned when a kana has no accepted readings.
	ErrKanaRomajiEmpty = errors.New("kana must have at least one romaji reading")
)

// Script identifies which Japanese syllabary a kana belongs to.
type Script string

// Possible script values
const (
	ScriptHiragana Script = "hiragana"
	ScriptKatakana Script = "katakana"
)

// Class identifies the phonetic class of a kana.
type Class string

// Possible class values
const (
	ClassSeion     Class = "seion"     // unvoiced base syllables
	ClassDakuon    Class = "dakuon"    // voiced (゛) syllables
	ClassHandakuon Class = "handakuon" // semi-voiced (゜) syllables
	ClassYoon      Class = "yoon"      // contracted (ゃゅょ) syllables
)

// Kana is an immutable quiz item: a single glyph and its accepted
// romanizations. The glyph itself is the item's identity; scheduling
// state lives in KanaProgress and references a Kana by its Char.
type Kana struct {
	Char   string   `json:"char"`
	Romaji []string `json:"romaji"`
	Script Script   `json:"script"`
	Class  Class    `json:"class"`
}

// Validate checks if the Kana has valid data.
func (k *Kana) Validate() error {
	if k.Char == "" {
		return ErrKanaCharEmpty
	}
	if len(k.Romaji) == 0 {
		return ErrKanaRomajiEmpty
	}
	return nil
}

// MatchesAnswer reports whether the user's free-text input is an accepted
// reading of this kana. Comparison is case-insensitive and whitespace-trimmed
// exact match; no fuzzy matching is attempted.
func (k *Kana) MatchesAnswer(input string) bool {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return false
	}
	for _, r := range k.Romaji {
		if normalized == r {
			return true
		}
	}
	return false
}

// PrimaryRomaji returns the canonical reading shown in feedback messages.
func (k *Kana) PrimaryRomaji() string {
	if len(k.Romaji) == 0 {
		return ""
	}
	return k.Romaji[0]
}
