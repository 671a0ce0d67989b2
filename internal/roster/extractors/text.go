// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nameSeparators split a "label - name" capture; the name follows the last one.
const nameSeparators = "-:–—"

// tableNoise is trimmed from both ends of tokens; vision models often render
// the Duty Teams table with pipes and dashes.
const tableNoise = "|:-–—*"

// labelPattern matches any of labels as a whole word, ignoring case.
func labelPattern(labels []string) *regexp.Regexp {
	quoted := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			quoted = append(quoted, regexp.QuoteMeta(l))
		}
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// markerPattern matches a literal marker while tolerating extra or missing
// whitespace between its words, e.g. "Duty SR(M)" for "Duty SR (M)".
func markerPattern(marker string) *regexp.Regexp {
	fields := strings.Fields(marker)
	for i, f := range fields {
		fields[i] = regexp.QuoteMeta(f)
	}
	return regexp.MustCompile(strings.Join(fields, `\s*`))
}

// nameTokens splits a table row into whitespace-delimited name tokens,
// dropping cells that are only table punctuation.
func nameTokens(row string) []string {
	var tokens []string
	for _, f := range strings.Fields(row) {
		if f = strings.Trim(f, tableNoise); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// nameAfterSeparator returns the trimmed text after the last separator in s,
// or all of s when there is none.
func nameAfterSeparator(s string) string {
	if i := strings.LastIndexAny(s, nameSeparators); i >= 0 {
		_, size := utf8.DecodeRuneInString(s[i:])
		s = s[i+size:]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "|*"))
}

// restOfLine returns s up to the first line break.
func restOfLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
