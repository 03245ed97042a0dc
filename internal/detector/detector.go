// Package detector finds passages where an author signals a change of mind.
// The default implementation is a lexical heuristic; the Detector interface
// keeps it swappable for a real classifier.
package detector

import (
	"sort"
	"strings"

	"github.com/alethic/forumdigest/internal/models"
)

// Detector extracts belief updates from an activity item. Implementations
// must be deterministic: the same item always yields the same passages.
type Detector interface {
	Detect(item models.ActivityItem) []models.BeliefUpdate
}

// Phrases that tend to introduce a stated change of opinion.
var defaultLexicon = []string{
	"i was wrong",
	"i've updated",
	"i have updated",
	"i now think",
	"i no longer think",
	"changed my mind",
	"used to believe",
	"reconsidering",
	"less confident",
	"on reflection",
}

// Lexicon detects belief updates by case-insensitive substring match against
// a fixed phrase list, quoting the enclosing sentence for each hit.
type Lexicon struct {
	phrases []string
}

// NewLexicon creates a lexicon detector. With no arguments the default
// phrase list is used.
func NewLexicon(phrases ...string) *Lexicon {
	if len(phrases) == 0 {
		phrases = defaultLexicon
	}
	lowered := make([]string, len(phrases))
	for i, phrase := range phrases {
		lowered[i] = lowerASCII(phrase)
	}
	return &Lexicon{phrases: lowered}
}

// Detect scans the item body and returns one update per distinct quoted
// passage, in order of appearance. Duplicate passages are dropped.
func (d *Lexicon) Detect(item models.ActivityItem) []models.BeliefUpdate {
	body := item.MarkdownBody
	if body == "" {
		return nil
	}
	lower := lowerASCII(body)

	var positions []int
	for _, phrase := range d.phrases {
		offset := 0
		for {
			idx := strings.Index(lower[offset:], phrase)
			if idx < 0 {
				break
			}
			positions = append(positions, offset+idx)
			offset += idx + len(phrase)
		}
	}
	if len(positions) == 0 {
		return nil
	}
	sort.Ints(positions)

	seen := make(map[string]struct{})
	var updates []models.BeliefUpdate
	for _, pos := range positions {
		passage := enclosingSentence(body, pos)
		if passage == "" {
			continue
		}
		if _, dup := seen[passage]; dup {
			continue
		}
		seen[passage] = struct{}{}
		updates = append(updates, models.BeliefUpdate{
			Item:          item,
			QuotedPassage: passage,
		})
	}
	return updates
}

// enclosingSentence returns the sentence containing the byte offset, bounded
// by the enclosing paragraph. Falls back to the whole paragraph when sentence
// boundaries cannot be found.
func enclosingSentence(text string, pos int) string {
	paraStart := 0
	if idx := strings.LastIndex(text[:pos], "\n\n"); idx >= 0 {
		paraStart = idx + 2
	}
	paraEnd := len(text)
	if idx := strings.Index(text[pos:], "\n\n"); idx >= 0 {
		paraEnd = pos + idx
	}
	para := text[paraStart:paraEnd]
	rel := pos - paraStart

	start := 0
	for i := rel - 1; i > 0; i-- {
		if isSentenceEnd(para[i]) && i+1 < len(para) && isSpace(para[i+1]) {
			start = i + 1
			break
		}
	}
	end := len(para)
	for i := rel; i < len(para); i++ {
		if isSentenceEnd(para[i]) {
			end = i + 1
			break
		}
	}

	sentence := strings.TrimSpace(para[start:end])
	if sentence == "" {
		return strings.TrimSpace(para)
	}
	return sentence
}

// lowerASCII lowercases ASCII letters only. Unlike strings.ToLower it is
// byte-length-preserving, so match offsets in the result index the original
// string directly. The lexicon is ASCII.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t'
}
