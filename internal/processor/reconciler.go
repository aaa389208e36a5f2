package processor

import (
	"fmt"
	"strings"

	"ats-optimizer-go/internal/textkit"
	"ats-optimizer-go/internal/types"
)

// Output lists are capped so one noisy generation cannot flood the result.
const (
	maxOutputListLen   = 20
	maxFallbackSkills  = 12
	maxFallbackVerbs   = 12
	maxSummaryTitles   = 2
	maxSummaryCompanys = 2
	maxSummarySkills   = 6
)

// Reconcile merges the rewrite draft against the factual ground truth:
// factual company/title/period always win over generated values, skills
// must be backed by facts or evidence, verbs must match the job's target
// verbs, and the change log records exactly which chunks fed the rewrite.
// The draft never reaches the caller unfiltered.
func Reconcile(draft RewriteDraft, facts types.ResumeFacts, requirements types.JobRequirements, selectedChunks []types.Chunk, totalChunks int) types.PipelineOutput {
	experience := reconcileExperience(draft.Experience, facts.Experience)

	evidenceTexts := make([]string, 0, len(selectedChunks))
	for _, chunk := range selectedChunks {
		evidenceTexts = append(evidenceTexts, chunk.Text)
	}
	evidence := strings.Join(evidenceTexts, "\n")

	factSkillByKey := make(map[string]string, len(facts.HardSkills))
	for _, skill := range facts.HardSkills {
		factSkillByKey[textkit.NormalizeKey(skill)] = skill
	}

	var required []string
	required = append(required, requirements.MustHaveHardSkills...)
	required = append(required, requirements.NiceToHaveHardSkills...)
	required = append(required, requirements.ATSKeywords...)
	required = textkit.Dedupe(required)

	candidates := append([]string{}, draft.HardSkills...)
	for _, skill := range required {
		if textkit.TermInText(skill, evidence) {
			candidates = append(candidates, skill)
		}
	}

	var filtered []string
	for _, skill := range textkit.Dedupe(candidates) {
		key := textkit.NormalizeKey(skill)
		factual, known := factSkillByKey[key]
		if !known && !textkit.TermInText(skill, evidence) {
			continue
		}
		if known {
			filtered = append(filtered, factual)
		} else {
			filtered = append(filtered, skill)
		}
	}
	if len(filtered) == 0 {
		for _, skill := range required {
			if textkit.TermInText(skill, evidence) {
				filtered = append(filtered, skill)
			}
		}
	}
	if len(filtered) == 0 {
		filtered = firstN(facts.HardSkills, maxFallbackSkills)
	}

	targetVerbs := textkit.Dedupe(requirements.ActionVerbs)
	targetVerbKeys := make(map[string]struct{}, len(targetVerbs))
	for _, verb := range targetVerbs {
		targetVerbKeys[textkit.NormalizeKey(verb)] = struct{}{}
	}
	var actionVerbs []string
	for _, verb := range draft.ActionVerbs {
		if _, ok := targetVerbKeys[textkit.NormalizeKey(verb)]; ok {
			actionVerbs = append(actionVerbs, verb)
		}
	}
	if len(actionVerbs) == 0 {
		actionVerbs = firstN(targetVerbs, maxFallbackVerbs)
	}

	var missing []string
	for _, skill := range requirements.MustHaveHardSkills {
		if textkit.TermInText(skill, evidence) {
			continue
		}
		if _, known := factSkillByKey[textkit.NormalizeKey(skill)]; known {
			continue
		}
		missing = append(missing, skill)
	}
	var warnings []string
	warnings = append(warnings, draft.Warnings...)
	warnings = append(warnings, draft.MissingHardSkills...)
	warnings = append(warnings, missing...)

	summary := draft.Summary
	if summary == "" {
		summary = buildDefaultSummary(facts, filtered, requirements)
	}

	selectedIDs := make([]string, 0, len(selectedChunks))
	for _, chunk := range selectedChunks {
		selectedIDs = append(selectedIDs, chunk.ID)
	}
	idList := strings.Join(selectedIDs, ", ")
	if idList == "" {
		idList = "none"
	}
	changeLog := append([]string{}, draft.ChangeLog...)
	changeLog = append(changeLog,
		"ATS pipeline applied in 3 stages: job requirements, resume facts and rewrite.",
		fmt.Sprintf("Section-aware chunking applied: %d/%d chunks sent to the model.", len(selectedChunks), totalChunks),
		fmt.Sprintf("Chunks used in the rewrite stage: %s.", idList),
	)

	return types.PipelineOutput{
		HardSkills:  firstN(textkit.Dedupe(filtered), maxOutputListLen),
		ActionVerbs: firstN(actionVerbs, maxOutputListLen),
		OptimizedResume: types.OptimizedResume{
			ProfessionalSummary: summary,
			Experience:          experience,
		},
		Warnings:  firstN(textkit.Dedupe(warnings), maxOutputListLen),
		ChangeLog: textkit.Dedupe(changeLog),
	}
}

// reconcileExperience pins every generated entry to a factual record:
// exact title+company key match first, company-only next, same-position
// fallback last. A matched factual record is marked used so two generated
// entries cannot claim it, and its company/title/period override the
// generated values. Without any generated entries the factual records pass
// through verbatim.
func reconcileExperience(candidates []types.OptimizedExperience, factual []types.ExperienceFact) []types.OptimizedExperience {
	var normalized []types.OptimizedExperience
	used := make(map[int]struct{})

	for idx, candidate := range candidates {
		factIndex, found := findFactualMatch(candidate, factual, used, idx)
		if found {
			used[factIndex] = struct{}{}
		}

		company := candidate.Company
		title := candidate.Title
		period := candidate.Period
		bullets := candidate.Bullets

		if found {
			fact := factual[factIndex]
			if fact.Company != "" {
				company = fact.Company
			}
			if fact.Title != "" {
				title = fact.Title
			}
			if fact.Period != "" {
				period = fact.Period
			}
			if len(bullets) == 0 {
				bullets = fact.Highlights
			}
		}

		normalized = append(normalized, types.OptimizedExperience{
			Title:   textkit.NormalizeSpace(title),
			Company: textkit.NormalizeSpace(company),
			Period:  textkit.NormalizeSpace(period),
			Bullets: textkit.Dedupe(bullets),
		})
	}

	if len(normalized) == 0 {
		for _, fact := range factual {
			normalized = append(normalized, types.OptimizedExperience{
				Title:   textkit.NormalizeSpace(fact.Title),
				Company: textkit.NormalizeSpace(fact.Company),
				Period:  textkit.NormalizeSpace(fact.Period),
				Bullets: textkit.Dedupe(fact.Highlights),
			})
		}
	}

	return normalized
}

// findFactualMatch resolves a generated entry to a factual index. The
// positional fallback deliberately ignores the used set: an ambiguous
// entry is never dropped, it inherits the record at its own position.
func findFactualMatch(candidate types.OptimizedExperience, factual []types.ExperienceFact, used map[int]struct{}, fallbackIndex int) (int, bool) {
	targetTitle := textkit.NormalizeKey(candidate.Title)
	targetCompany := textkit.NormalizeKey(candidate.Company)

	for index, fact := range factual {
		if _, taken := used[index]; taken {
			continue
		}
		titleKey := textkit.NormalizeKey(fact.Title)
		companyKey := textkit.NormalizeKey(fact.Company)
		if titleKey != "" && companyKey != "" && titleKey == targetTitle && companyKey == targetCompany {
			return index, true
		}
	}

	for index, fact := range factual {
		if _, taken := used[index]; taken {
			continue
		}
		if targetCompany != "" && textkit.NormalizeKey(fact.Company) == targetCompany {
			return index, true
		}
	}

	if fallbackIndex < len(factual) {
		return fallbackIndex, true
	}
	return 0, false
}

// buildDefaultSummary synthesizes a deterministic summary when the
// generator produced none, degrading from titles+companies+skills down to
// a generic fallback sentence.
func buildDefaultSummary(facts types.ResumeFacts, matchedSkills []string, requirements types.JobRequirements) string {
	var titles, companies []string
	for _, fact := range facts.Experience {
		if fact.Title != "" {
			titles = append(titles, fact.Title)
		}
		if fact.Company != "" {
			companies = append(companies, fact.Company)
		}
	}
	titleText := strings.Join(firstN(textkit.Dedupe(titles), maxSummaryTitles), ", ")
	companyText := strings.Join(firstN(textkit.Dedupe(companies), maxSummaryCompanys), ", ")

	skillPool := matchedSkills
	if len(skillPool) == 0 {
		skillPool = facts.HardSkills
	}
	skillsText := strings.Join(firstN(skillPool, maxSummarySkills), ", ")

	if titleText != "" && companyText != "" && skillsText != "" {
		return fmt.Sprintf("Professional with experience as %s, working at %s. "+
			"Skilled in %s, with a track record of consistent delivery.", titleText, companyText, skillsText)
	}
	if titleText != "" && skillsText != "" {
		return fmt.Sprintf("Professional with experience as %s, with technical focus on %s.", titleText, skillsText)
	}

	if must := strings.Join(firstN(requirements.MustHaveHardSkills, 4), ", "); must != "" {
		return fmt.Sprintf("Technical profile with proven experience and partial alignment with the %s requirements.", must)
	}

	return "Professional with technical experience and a consistent delivery record in corporate environments."
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
