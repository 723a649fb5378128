package ingestion

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkTextKeepsShortParagraphsTogether(t *testing.T) {
	text := "Paragraph one.\n\nParagraph two.\n\nParagraph three."

	chunks := ChunkText(text, "doc.txt", 1024)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].ID != "doc.txt_chunk_0" {
		t.Fatalf("unexpected id: %q", chunks[0].ID)
	}
	if chunks[0].Source != "doc.txt" {
		t.Fatalf("unexpected source: %q", chunks[0].Source)
	}
	if chunks[0].Text != text {
		t.Fatalf("unexpected chunk text: %q", chunks[0].Text)
	}
}

func TestChunkTextSplitsWhenBudgetExceeded(t *testing.T) {
	paragraphs := []string{
		strings.Repeat("a", 60),
		strings.Repeat("b", 60),
		strings.Repeat("c", 60),
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := ChunkText(text, "doc.txt", 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		want := fmt.Sprintf("doc.txt_chunk_%d", i)
		if chunk.ID != want {
			t.Fatalf("expected id %q, got %q", want, chunk.ID)
		}
		if chunk.Ordinal != i {
			t.Fatalf("expected ordinal %d, got %d", i, chunk.Ordinal)
		}
		if chunk.Text != paragraphs[i] {
			t.Fatalf("expected chunk %d to hold one paragraph, got %q", i, chunk.Text)
		}
	}
}

func TestChunkTextHardSplitsOversizedParagraph(t *testing.T) {
	text := strings.Repeat("x", 2500)

	chunks := ChunkText(text, "doc.txt", 1000)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	total := 0
	for i, chunk := range chunks {
		if len(chunk.Text) > 1000 {
			t.Fatalf("chunk %d exceeds budget: %d bytes", i, len(chunk.Text))
		}
		total += len(chunk.Text)
	}
	if total != 2500 {
		t.Fatalf("expected hard split to preserve all bytes, got %d", total)
	}
}

func TestChunkTextFlushesBufferBeforeOversizedParagraph(t *testing.T) {
	text := "short intro\n\n" + strings.Repeat("y", 150)

	chunks := ChunkText(text, "doc.txt", 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "short intro" {
		t.Fatalf("expected buffered intro first, got %q", chunks[0].Text)
	}
	if len(chunks[1].Text) != 100 || len(chunks[2].Text) != 50 {
		t.Fatalf("unexpected split sizes: %d and %d", len(chunks[1].Text), len(chunks[2].Text))
	}
}

func TestChunkTextHardSplitKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("ก", 100)

	chunks := ChunkText(text, "doc.txt", 10)
	var rebuilt strings.Builder
	for i, chunk := range chunks {
		if len(chunk.Text) > 10 {
			t.Fatalf("chunk %d exceeds budget: %d bytes", i, len(chunk.Text))
		}
		if !utf8.ValidString(chunk.Text) {
			t.Fatalf("chunk %d split inside a rune", i)
		}
		rebuilt.WriteString(chunk.Text)
	}
	if rebuilt.String() != text {
		t.Fatal("hard split dropped bytes")
	}
}

func TestChunkTextNormalizesCRLF(t *testing.T) {
	chunks := ChunkText("one\r\n\r\ntwo", "doc.txt", 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "one\n\ntwo" {
		t.Fatalf("expected normalized separator, got %q", chunks[0].Text)
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	if chunks := ChunkText("", "doc.txt", 100); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty input, got %d", len(chunks))
	}
	if chunks := ChunkText("\n\n   \n\n", "doc.txt", 100); len(chunks) != 0 {
		t.Fatalf("expected no chunks for blank input, got %d", len(chunks))
	}
}
