package parser

import (
	"fmt"
	"strings"

	"ats-optimizer-go/internal/types"
)

// Hard floors for chunking parameters. Configured values below a floor are
// raised to it; overlap is additionally capped at half the window so the
// cursor always moves forward.
const (
	FloorMaxChars     = 400
	FloorMinChars     = 120
	FloorOverlapChars = 40
)

// ChunkerConfig bounds the size and overlap of produced chunks, in runes.
type ChunkerConfig struct {
	MaxChars     int
	MinChars     int
	OverlapChars int
}

// withFloors returns the config with floors and the overlap cap applied.
func (c ChunkerConfig) withFloors() ChunkerConfig {
	if c.MaxChars < FloorMaxChars {
		c.MaxChars = FloorMaxChars
	}
	if c.MinChars < FloorMinChars {
		c.MinChars = FloorMinChars
	}
	if c.OverlapChars < FloorOverlapChars {
		c.OverlapChars = FloorOverlapChars
	}
	if c.OverlapChars > c.MaxChars/2 {
		c.OverlapChars = c.MaxChars / 2
	}
	return c
}

// Chunker splits labeled sections into bounded overlapping chunks.
type Chunker struct {
	cfg ChunkerConfig
}

// NewChunker builds a chunker, applying parameter floors.
func NewChunker(cfg ChunkerConfig) *Chunker {
	return &Chunker{cfg: cfg.withFloors()}
}

// ChunkText splits one section's text into chunks. Text within MaxChars is
// a single chunk. Longer text is cut at the last newline, sentence break
// or space found inside [cursor+MinChars, cursor+MaxChars), falling back
// to the hard boundary; the cursor then backs up by OverlapChars so
// adjacent chunks share context. A trailing chunk shorter than MinChars is
// merged into its predecessor.
func (c *Chunker) ChunkText(text string) []string {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return nil
	}
	runes := []rune(stripped)
	if len(runes) <= c.cfg.MaxChars {
		return []string{stripped}
	}

	var chunks []string
	cursor := 0
	total := len(runes)

	for cursor < total {
		hardEnd := cursor + c.cfg.MaxChars
		if hardEnd > total {
			hardEnd = total
		}
		end := hardEnd

		if hardEnd < total {
			boundary := lastIndexWithin(runes, "\n", cursor+c.cfg.MinChars, hardEnd)
			if boundary == -1 {
				boundary = lastIndexWithin(runes, ". ", cursor+c.cfg.MinChars, hardEnd)
			}
			if boundary == -1 {
				boundary = lastIndexWithin(runes, " ", cursor+c.cfg.MinChars, hardEnd)
			}
			if boundary != -1 {
				end = boundary + 1
			}
		}

		if end <= cursor {
			end = hardEnd
		}

		if chunk := strings.TrimSpace(string(runes[cursor:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= total {
			break
		}

		next := end - c.cfg.OverlapChars
		if next <= cursor {
			next = cursor + 1
		}
		cursor = next
	}

	if len(chunks) >= 2 && len([]rune(chunks[len(chunks)-1])) < c.cfg.MinChars {
		last := chunks[len(chunks)-1]
		chunks[len(chunks)-2] = strings.TrimSpace(chunks[len(chunks)-2] + "\n" + last)
		chunks = chunks[:len(chunks)-1]
	}

	return chunks
}

// BuildChunks segments the resume and chunks every section, assigning
// stable S<sectionIndex>C<chunkIndex> ids (both 1-based). A resume with no
// chunkable sections falls back to a single "other" chunk holding the
// whole trimmed text.
func (c *Chunker) BuildChunks(resumeText string) []types.Chunk {
	sections := SplitSections(resumeText)

	var chunks []types.Chunk
	for sectionIndex, section := range sections {
		for chunkIndex, text := range c.ChunkText(section.Text) {
			chunks = append(chunks, types.Chunk{
				ID:      fmt.Sprintf("S%dC%d", sectionIndex+1, chunkIndex+1),
				Section: section.Section,
				Text:    text,
			})
		}
	}

	if len(chunks) == 0 {
		if stripped := strings.TrimSpace(resumeText); stripped != "" {
			chunks = append(chunks, types.Chunk{ID: "S1C1", Section: types.SectionOther, Text: stripped})
		}
	}

	return chunks
}

// lastIndexWithin finds the highest start position of sep fully contained
// in runes[lo:hi), or -1.
func lastIndexWithin(runes []rune, sep string, lo, hi int) int {
	sepRunes := []rune(sep)
	if lo < 0 {
		lo = 0
	}
	if hi > len(runes) {
		hi = len(runes)
	}
	for start := hi - len(sepRunes); start >= lo; start-- {
		match := true
		for k, r := range sepRunes {
			if runes[start+k] != r {
				match = false
				break
			}
		}
		if match {
			return start
		}
	}
	return -1
}
