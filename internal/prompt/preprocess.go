package prompt

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	terminalMarks  = ".!?:;"
	repeatableMark = ".,!?;:"
)

// Preprocess flattens scattered input into one paragraph-like body.
//
// Every non-blank line without terminal punctuation gets a period, lines are
// joined by single spaces, whitespace runs collapse to one space and runs of
// the same punctuation character collapse to one character.
func Preprocess(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.ContainsRune(terminalMarks, lastRune(line)) {
			line += "."
		}
		parts = append(parts, line)
	}

	out := whitespaceRun.ReplaceAllString(strings.Join(parts, " "), " ")
	return collapsePunctuation(out)
}

// collapsePunctuation turns "!!!" into "!" and "..." into "." without
// touching mixed sequences such as "?!".
func collapsePunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		if r == prev && strings.ContainsRune(repeatableMark, r) {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}
