package processor

import (
	"sort"
	"strings"

	"ats-optimizer-go/internal/textkit"
	"ats-optimizer-go/internal/types"
)

// Relevance weights for keyword overlap with the job requirements.
const (
	weightMustHave = 6
	weightNiceHave = 3
	weightVerb     = 2
)

// Fixed per-section score bonus. Experience carries the most signal for a
// rewrite, skills and summary follow, boilerplate sections barely count.
var sectionBonus = map[types.Section]int{
	types.SectionHeader:         1,
	types.SectionSummary:        2,
	types.SectionExperience:     4,
	types.SectionSkills:         3,
	types.SectionProjects:       2,
	types.SectionEducation:      1,
	types.SectionCertifications: 1,
	types.SectionLanguages:      1,
	types.SectionOther:          0,
}

// RankChunks scores every chunk against the job description and extracted
// requirements and returns (index, score) pairs sorted by score descending.
// Equal scores keep the earlier chunk first, so earlier document content is
// stably preferred.
func RankChunks(chunks []types.Chunk, jobDescription string, requirements types.JobRequirements) []types.RankedChunk {
	jobKeywords := textkit.Keywords(jobDescription)
	mustTerms := textkit.Keywords(strings.Join(requirements.MustHaveHardSkills, " "))
	niceTerms := textkit.Keywords(strings.Join(requirements.NiceToHaveHardSkills, " "))
	verbTerms := textkit.Keywords(strings.Join(requirements.ActionVerbs, " "))

	ranked := make([]types.RankedChunk, 0, len(chunks))
	for index, chunk := range chunks {
		chunkKeywords := textkit.Keywords(chunk.Text)
		score := weightMustHave*overlap(chunkKeywords, mustTerms) +
			weightNiceHave*overlap(chunkKeywords, niceTerms) +
			weightVerb*overlap(chunkKeywords, verbTerms) +
			overlap(chunkKeywords, jobKeywords) +
			sectionBonus[chunk.Section]
		ranked = append(ranked, types.RankedChunk{Index: index, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Index < ranked[j].Index
	})
	return ranked
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for token := range a {
		if _, ok := b[token]; ok {
			count++
		}
	}
	return count
}
