package areafile

import (
	"regexp"
	"strings"
)

var (
	bracketColorRe = regexp.MustCompile(`\[[0-9#-]+\]`)
	hashColorRe    = regexp.MustCompile(`#[A-Za-z0-9]`)
	caretColorRe   = regexp.MustCompile(`\^[A-Za-z]`)
)

// StripColor removes MUD color escapes from s: bracketed [digits-#] spans,
// #<alnum> pairs, ^<letter> pairs and raw ANSI ESC[...m sequences.
//
// Postcondition: Returns s without escapes and surrounding whitespace.
func StripColor(s string) string {
	s = stripANSI(s)
	s = bracketColorRe.ReplaceAllString(s, "")
	s = hashColorRe.ReplaceAllString(s, "")
	s = caretColorRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// stripANSI drops \033[...m terminal sequences that some builders pasted
// straight into room names.
func stripANSI(s string) string {
	if !strings.Contains(s, "\033") {
		return s
	}
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}
