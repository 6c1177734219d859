package ingest

import (
	"strings"

	"github.com/google/uuid"

	"github.com/claimsight/claimsight/internal/model"
)

const (
	// maxChunkRunes bounds chunk size so a single retrieval hit stays
	// within a useful prompt budget.
	maxChunkRunes = 1200
	minChunkRunes = 40
)

// ChunkText splits extracted document text into ordered, provenance-tagged
// chunks. Paragraph boundaries are preferred; oversized paragraphs fall back
// to sentence packing.
func ChunkText(text, source string) []model.Chunk {
	var chunks []model.Chunk

	appendChunk := func(content string) {
		content = strings.TrimSpace(content)
		if len([]rune(content)) < minChunkRunes {
			return
		}
		chunks = append(chunks, model.Chunk{
			ID:      uuid.NewString(),
			Content: content,
			Source:  source,
			Index:   len(chunks),
		})
	}

	for _, para := range splitParagraphs(text) {
		if len([]rune(para)) <= maxChunkRunes {
			appendChunk(para)
			continue
		}

		var buffer strings.Builder
		for _, sentence := range splitSentences(para) {
			if buffer.Len() > 0 && len([]rune(buffer.String()))+len([]rune(sentence)) > maxChunkRunes {
				appendChunk(buffer.String())
				buffer.Reset()
			}
			buffer.WriteString(sentence)
			buffer.WriteString(" ")
		}
		appendChunk(buffer.String())
	}

	return chunks
}

// splitParagraphs splits on blank lines, dropping markdown horizontal rules
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || block == "---" {
			continue
		}
		paragraphs = append(paragraphs, block)
	}
	return paragraphs
}

// splitSentences splits text on sentence terminators followed by whitespace
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				sentence := strings.TrimSpace(current.String())
				if sentence != "" {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
