package net

import "strings"

// In-band color markup: {X escapes with a one-letter palette. The
// server strips or translates them to ANSI based on the client's
// preference flag.

var ansiCodes = map[byte]string{
	'x': "\x1b[0m",
	'r': "\x1b[0;31m",
	'g': "\x1b[0;32m",
	'y': "\x1b[0;33m",
	'b': "\x1b[0;34m",
	'm': "\x1b[0;35m",
	'c': "\x1b[0;36m",
	'w': "\x1b[0;37m",
	'R': "\x1b[1;31m",
	'G': "\x1b[1;32m",
	'Y': "\x1b[1;33m",
	'B': "\x1b[1;34m",
	'M': "\x1b[1;35m",
	'C': "\x1b[1;36m",
	'W': "\x1b[1;37m",
	'D': "\x1b[1;30m",
}

// ProcessColor translates {X escapes to ANSI when ansi is true, or
// strips them otherwise. {{ always renders a literal brace.
func ProcessColor(text string, ansi bool) string {
	if !strings.ContainsRune(text, '{') {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '{' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(text) {
			break
		}
		i++
		code := text[i]
		if code == '{' {
			sb.WriteByte('{')
			continue
		}
		if ansi {
			if seq, ok := ansiCodes[code]; ok {
				sb.WriteString(seq)
			}
		}
	}
	return sb.String()
}
