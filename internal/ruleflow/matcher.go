// Package ruleflow implements the deterministic keyword trigger matcher.
// A question that matches a configured keyword is routed to an external
// rule-based workflow instead of the generative answering pipeline.
package ruleflow

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/codeware/chatbot-backend/internal/entity"
	"golang.org/x/text/unicode/norm"
)

// Observer receives diagnostic callbacks from the matcher. Callbacks must
// not influence the match result; the matcher stays pure with respect to
// its inputs.
type Observer interface {
	RuleChecked(rule entity.KeywordRule)
	RuleMatched(rule entity.KeywordRule)
}

type nopObserver struct{}

func (nopObserver) RuleChecked(entity.KeywordRule) {}
func (nopObserver) RuleMatched(entity.KeywordRule) {}

// Matcher holds the flattened, ordered keyword rule list. It is immutable
// after construction and safe for concurrent use.
type Matcher struct {
	rules    []entity.KeywordRule
	observer Observer
}

// NewMatcher builds a matcher from an ordered list of flows. Flows are
// flattened in order: every keyword of flow i precedes every keyword of
// flow i+1. A flow without an id is a configuration error.
func NewMatcher(flows []entity.Flow, observer Observer) (*Matcher, error) {
	if observer == nil {
		observer = nopObserver{}
	}

	var rules []entity.KeywordRule
	for i, flow := range flows {
		if flow.ID == "" {
			return nil, fmt.Errorf("flow at position %d: %w", i, entity.ErrFlowMissingID)
		}
		for _, kw := range flow.Keywords {
			rules = append(rules, entity.KeywordRule{Keyword: kw, TriggerID: flow.ID})
		}
	}

	return &Matcher{rules: rules, observer: observer}, nil
}

// NewMatcherFromFile loads flow definitions from a JSON file: an ordered
// array of {"id": ..., "keywords": [...]} objects. A missing or unparsable
// file is a fatal startup error.
func NewMatcherFromFile(path string, observer Observer) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrFlowFileMissing, path, err)
	}

	var flows []entity.Flow
	if err := json.Unmarshal(data, &flows); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrFlowFileMalformed, path, err)
	}

	return NewMatcher(flows, observer)
}

// Rules returns the number of flattened keyword rules.
func (m *Matcher) Rules() int {
	return len(m.rules)
}

// Check classifies a question against the configured rules. The first rule
// (in configured order) whose keyword matches wins; later rules are not
// evaluated. Returns nil when no rule matches.
//
// Keywords containing an internal space are phrases and match as a plain
// substring of the normalized question. Single-word keywords match only on
// word boundaries, so "bill" does not fire inside "billing".
func (m *Matcher) Check(question string) *entity.TriggerMatch {
	normQuestion := Normalize(question)

	for _, rule := range m.rules {
		m.observer.RuleChecked(rule)

		normKeyword := Normalize(rule.Keyword)

		var matched bool
		if strings.Contains(strings.TrimSpace(normKeyword), " ") {
			matched = strings.Contains(normQuestion, normKeyword)
		} else {
			matched = containsWord(normQuestion, normKeyword)
		}

		if matched {
			m.observer.RuleMatched(rule)
			return &entity.TriggerMatch{
				TriggerID:      rule.TriggerID,
				MatchedKeyword: rule.Keyword,
			}
		}
	}

	return nil
}

// Normalize produces the canonical form used for matching: lower case,
// then Unicode canonical composition (NFC). Visually identical text encoded
// with different combining sequences compares equal after this.
func Normalize(s string) string {
	return norm.NFC.String(strings.ToLower(s))
}

// containsWord reports whether word occurs in s bounded by non-word runes
// (or the ends of s) on both sides.
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; start <= len(s)-len(word); {
		idx := strings.Index(s[start:], word)
		if idx < 0 {
			return false
		}
		idx += start

		before, _ := utf8.DecodeLastRuneInString(s[:idx])
		after, _ := utf8.DecodeRuneInString(s[idx+len(word):])

		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		start = idx + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
