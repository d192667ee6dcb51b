// ABOUTME: Chunker splits raw knowledge documents into bounded overlapping chunks
// ABOUTME: Packs paragraphs greedily, seeds overlap across flushes, hard-splits oversized paragraphs
package chunker

import (
	"regexp"
	"strings"

	"github.com/uniqlabs/ragbot/internal/models"
)

// paragraphSeparator joins paragraphs inside a chunk buffer.
const paragraphSeparator = "\n\n"

var blankRuns = regexp.MustCompile(`\n{3,}`)

// cleanText normalizes line endings and collapses runs of 3+ newlines
// into a single paragraph separator.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = blankRuns.ReplaceAllString(text, paragraphSeparator)
	return strings.TrimSpace(text)
}

// Chunk splits text into chunks of at most chunkSize bytes, carrying the
// last overlap bytes of each flushed chunk into the next buffer so content
// stays continuous across chunk boundaries.
//
// overlap >= chunkSize is a caller configuration error and is not validated
// here; behavior is undefined in that case.
func Chunk(source, text string, chunkSize, overlap int) []models.Chunk {
	text = cleanText(text)
	if text == "" {
		return nil
	}

	var paragraphs []string
	for _, p := range strings.Split(text, paragraphSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []models.Chunk
	buf := ""
	cid := 0

	flush := func(b string) {
		if b = strings.TrimSpace(b); b != "" {
			chunks = append(chunks, models.Chunk{Source: source, ChunkID: cid, Text: b})
			cid++
		}
	}

	for _, p := range paragraphs {
		switch {
		case buf == "":
			buf = p
		case len(buf)+len(paragraphSeparator)+len(p) <= chunkSize:
			buf = buf + paragraphSeparator + p
		default:
			flush(buf)
			// Seed the next buffer with the tail of the flushed one.
			buf = strings.TrimSpace(tail(buf, overlap) + paragraphSeparator + p)
		}

		// A paragraph larger than the limit: hard-split until it fits, so
		// no emitted chunk ever exceeds chunkSize.
		for len(buf) > chunkSize {
			flush(buf[:chunkSize])
			seed := ""
			if overlap > 0 {
				seed = buf[chunkSize-overlap : chunkSize]
			}
			buf = strings.TrimSpace(seed + buf[chunkSize:])
		}
	}

	flush(buf)
	return chunks
}

// tail returns the last n bytes of s, or all of s if it is shorter.
func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
