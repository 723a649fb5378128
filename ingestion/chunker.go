package ingestion

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"doc-assistant/vectordb"
)

// ChunkText splits raw document text into bounded chunks. Paragraphs
// (blank-line separated, whitespace-only ones discarded) accumulate
// into a buffer until the next paragraph plus a two-character separator
// would push it past maxChars; a single paragraph longer than maxChars
// is hard-split into consecutive slices. Ids are assigned as
// "{source}_chunk_{n}" with n counting up from zero.
func ChunkText(text, source string, maxChars int) []vectordb.Chunk {
	if maxChars <= 0 {
		return nil
	}

	clean := strings.ReplaceAll(text, "\r\n", "\n")
	paragraphs := strings.Split(clean, "\n\n")

	chunks := make([]vectordb.Chunk, 0)
	current := ""

	emit := func(text string) {
		chunks = append(chunks, vectordb.Chunk{
			ID:      fmt.Sprintf("%s_chunk_%d", source, len(chunks)),
			Source:  source,
			Ordinal: len(chunks),
			Text:    text,
		})
	}

	for _, paragraph := range paragraphs {
		p := strings.TrimSpace(paragraph)
		if p == "" {
			continue
		}

		if len(p) > maxChars {
			if current != "" {
				emit(current)
				current = ""
			}
			for _, slice := range splitOversized(p, maxChars) {
				emit(slice)
			}
			continue
		}

		if len(current)+len(p)+2 > maxChars {
			if current != "" {
				emit(current)
			}
			current = p
		} else if current != "" {
			current += "\n\n" + p
		} else {
			current = p
		}
	}

	if current != "" {
		emit(current)
	}

	return chunks
}

// splitOversized cuts a paragraph into slices of at most maxChars bytes,
// backing each cut off to a rune boundary so a split never produces
// invalid UTF-8.
func splitOversized(paragraph string, maxChars int) []string {
	parts := make([]string, 0, len(paragraph)/maxChars+1)

	for len(paragraph) > maxChars {
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(paragraph[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxChars
		}
		parts = append(parts, paragraph[:cut])
		paragraph = paragraph[cut:]
	}

	if paragraph != "" {
		parts = append(parts, paragraph)
	}

	return parts
}
