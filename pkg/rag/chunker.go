package rag

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const DefaultChunkSize = 800

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// SplitText splits text into pieces of at most size runes. Paragraphs are packed
// together while they fit; an oversized paragraph falls back to its lines, an
// oversized line to its words, and a single oversized word is cut.
func SplitText(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	cutWords := func(s string) []string { return hardCut(s, size) }
	splitLines := func(p string) []string {
		return pack(nonEmpty(strings.Split(p, "\n")), "\n", size, func(line string) []string {
			return pack(strings.Fields(line), " ", size, cutWords)
		})
	}
	return pack(nonEmpty(paragraphBreak.Split(text, -1)), "\n\n", size, splitLines)
}

// pack greedily joins parts with sep while the result stays within size.
// Parts longer than size are handed to split and emitted on their own.
func pack(parts []string, sep string, size int, split func(string) []string) []string {
	var out []string
	cur := ""
	flush := func() {
		if cur != "" {
			out = append(out, cur)
			cur = ""
		}
	}

	for _, p := range parts {
		n := utf8.RuneCountInString(p)
		switch {
		case n > size:
			flush()
			out = append(out, split(p)...)
		case cur == "":
			cur = p
		case utf8.RuneCountInString(cur)+utf8.RuneCountInString(sep)+n <= size:
			cur += sep + p
		default:
			flush()
			cur = p
		}
	}
	flush()
	return out
}

func hardCut(s string, size int) []string {
	runes := []rune(s)
	var out []string
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		out = append(out, string(runes[i:end]))
	}
	return out
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
