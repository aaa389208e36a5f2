package processor

import (
	"sort"

	"ats-optimizer-go/internal/types"
)

// Sections that get a reserved slot in the optimization selection, in
// document order.
var preferredSections = map[types.Section]struct{}{
	types.SectionHeader:     {},
	types.SectionSummary:    {},
	types.SectionExperience: {},
	types.SectionSkills:     {},
}

// SelectFactsChunks picks the subset sent to the facts-extraction stage,
// maximizing section diversity: the first chunk of each not-yet-covered
// section in document order, then the earliest unselected chunks until the
// limit max(3, min(len(chunks), maxSelected+2)).
func SelectFactsChunks(chunks []types.Chunk, maxSelected int) []types.Chunk {
	if len(chunks) == 0 {
		return nil
	}

	limit := maxSelected + 2
	if limit > len(chunks) {
		limit = len(chunks)
	}
	if limit < 3 {
		limit = 3
	}

	selected := make(map[int]struct{})
	var order []int
	covered := make(map[types.Section]struct{})

	for index, chunk := range chunks {
		if _, done := covered[chunk.Section]; !done {
			selected[index] = struct{}{}
			order = append(order, index)
			covered[chunk.Section] = struct{}{}
		}
		if len(order) >= limit {
			break
		}
	}

	for index := range chunks {
		if len(order) >= limit {
			break
		}
		if _, dup := selected[index]; !dup {
			selected[index] = struct{}{}
			order = append(order, index)
		}
	}

	return pickSorted(chunks, order)
}

// SelectOptimizationChunks picks the rewrite-stage subset: up to one slot
// per preferred section by document order, then the ranker's ordering
// fills the rest up to maxSelected. The result keeps document order.
func SelectOptimizationChunks(chunks []types.Chunk, ranked []types.RankedChunk, maxSelected int) []types.Chunk {
	if len(chunks) == 0 {
		return nil
	}
	if maxSelected < 1 {
		maxSelected = 1
	}

	selected := make(map[int]struct{})
	var order []int
	remaining := make(map[types.Section]struct{}, len(preferredSections))
	for section := range preferredSections {
		remaining[section] = struct{}{}
	}

	for index, chunk := range chunks {
		if _, want := remaining[chunk.Section]; want {
			selected[index] = struct{}{}
			order = append(order, index)
			delete(remaining, chunk.Section)
		}
		if len(order) >= maxSelected {
			break
		}
	}

	for _, entry := range ranked {
		if len(order) >= maxSelected {
			break
		}
		if _, dup := selected[entry.Index]; !dup {
			selected[entry.Index] = struct{}{}
			order = append(order, entry.Index)
		}
	}

	return pickSorted(chunks, order)
}

func pickSorted(chunks []types.Chunk, indexes []int) []types.Chunk {
	sort.Ints(indexes)
	picked := make([]types.Chunk, 0, len(indexes))
	for _, index := range indexes {
		picked = append(picked, chunks[index])
	}
	return picked
}
