// Package parser turns raw resume text into ordered, labeled sections and
// bounded overlapping chunks.
package parser

import (
	"regexp"
	"strings"

	"ats-optimizer-go/internal/types"
)

// ResumeSection is one labeled segment of the resume in document order.
type ResumeSection struct {
	Section types.Section
	Text    string
}

// Heading candidates longer than this (after stripping punctuation) are
// treated as content, not section titles.
const maxHeadingChars = 40

// Per-section heading patterns with bilingual (pt/en) synonyms. Matched in
// a fixed order so classification stays deterministic.
var sectionPatterns = []struct {
	section types.Section
	re      *regexp.Regexp
}{
	{types.SectionSummary, regexp.MustCompile(`^(resumo|resumo profissional|summary|professional summary)$`)},
	{types.SectionExperience, regexp.MustCompile(`^(experiencia|experiencia profissional|experience|work experience|professional experience)$`)},
	{types.SectionSkills, regexp.MustCompile(`^(habilidades|competencias|skills|technical skills)$`)},
	{types.SectionEducation, regexp.MustCompile(`^(educacao|formacao|education|academic background)$`)},
	{types.SectionCertifications, regexp.MustCompile(`^(certificacoes|certifications)$`)},
	{types.SectionLanguages, regexp.MustCompile(`^(idiomas|languages)$`)},
	{types.SectionProjects, regexp.MustCompile(`^(projetos|projects)$`)},
}

var headingStripRe = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)
var headingSpaceRe = regexp.MustCompile(`\s+`)

// matchSectionHeading reports which section a line opens, or "" when the
// line is ordinary content.
func matchSectionHeading(line string) types.Section {
	candidate := headingStripRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(line)), "")
	candidate = strings.TrimSpace(headingSpaceRe.ReplaceAllString(candidate, " "))
	if candidate == "" || len(candidate) > maxHeadingChars {
		return ""
	}
	for _, entry := range sectionPatterns {
		if entry.re.MatchString(candidate) {
			return entry.section
		}
	}
	return ""
}

// SplitSections scans the resume line by line, flushing the accumulated
// buffer whenever a heading switches the current section. Content before
// the first heading is labeled header; consecutive blank lines collapse to
// one; empty sections are omitted. When no heading is ever recognized the
// whole trimmed text comes back as a single "other" section.
func SplitSections(resumeText string) []ResumeSection {
	lines := strings.Split(resumeText, "\n")
	if resumeText == "" {
		return nil
	}

	var sections []ResumeSection
	current := types.SectionHeader
	matchedHeading := false
	var buffer []string

	flush := func() {
		content := strings.TrimSpace(strings.Join(buffer, "\n"))
		if content != "" {
			sections = append(sections, ResumeSection{Section: current, Text: content})
		}
		buffer = buffer[:0]
	}

	for _, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			if len(buffer) > 0 && buffer[len(buffer)-1] != "" {
				buffer = append(buffer, "")
			}
			continue
		}

		if section := matchSectionHeading(line); section != "" {
			flush()
			current = section
			matchedHeading = true
			continue
		}

		buffer = append(buffer, line)
	}

	flush()

	if !matchedHeading || len(sections) == 0 {
		if stripped := strings.TrimSpace(resumeText); stripped != "" {
			return []ResumeSection{{Section: types.SectionOther, Text: stripped}}
		}
		return nil
	}
	return sections
}
