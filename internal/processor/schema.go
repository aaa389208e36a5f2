package processor

import (
	"encoding/json"
	"fmt"
	"strconv"

	"ats-optimizer-go/internal/textkit"
	"ats-optimizer-go/internal/types"
)

// The oracle's output is loosely shaped: lists arrive as arrays or
// comma-separated strings, scalars arrive as numbers, entries use aliased
// keys. All of that is absorbed here, in one decode at the stage boundary;
// everything downstream reads typed structs only.

// FlexString decodes a JSON scalar of any type into a whitespace-normalized
// string. Objects and arrays decode to "".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		*f = ""
		return nil
	}
	*f = FlexString(textkit.NormalizeSpace(scalarString(value)))
	return nil
}

func (f FlexString) String() string { return string(f) }

// FlexList decodes either a JSON array or a single delimited string into a
// cleaned string slice. Non-scalar elements and empty items are dropped.
type FlexList []string

func (f *FlexList) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		*f = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		*f = FlexList(textkit.SplitList(v))
	case []any:
		var items []string
		for _, element := range v {
			if cleaned := textkit.NormalizeSpace(scalarString(element)); cleaned != "" {
				items = append(items, cleaned)
			}
		}
		*f = FlexList(items)
	default:
		*f = nil
	}
	return nil
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// rawExperience accepts every alias the generators use for an employment
// entry: highlights/bullets/description_bullets, period or start/end dates.
type rawExperience struct {
	Company            FlexString `json:"company"`
	Title              FlexString `json:"title"`
	Period             FlexString `json:"period"`
	Location           FlexString `json:"location"`
	StartDate          FlexString `json:"start_date"`
	EndDate            FlexString `json:"end_date"`
	Highlights         FlexList   `json:"highlights"`
	Bullets            FlexList   `json:"bullets"`
	DescriptionBullets FlexList   `json:"description_bullets"`
}

// composedPeriod prefers the period field and otherwise joins start/end.
func (e rawExperience) composedPeriod() string {
	if e.Period != "" {
		return e.Period.String()
	}
	start, end := e.StartDate.String(), e.EndDate.String()
	if start != "" && end != "" {
		return start + " - " + end
	}
	if start != "" {
		return start
	}
	return end
}

// rawExperienceList skips elements that are not objects instead of failing
// the whole document.
type rawExperienceList []rawExperience

func (l *rawExperienceList) UnmarshalJSON(data []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		*l = nil
		return nil
	}
	var entries []rawExperience
	for _, element := range elements {
		var entry rawExperience
		if err := json.Unmarshal(element, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	*l = entries
	return nil
}

type rawPersonalInfo struct {
	FullName  FlexString `json:"full_name"`
	Email     FlexString `json:"email"`
	Phone     FlexString `json:"phone"`
	Location  FlexString `json:"location"`
	LinkedIn  FlexString `json:"linkedin"`
	Portfolio FlexString `json:"portfolio"`
}

func (p *rawPersonalInfo) UnmarshalJSON(data []byte) error {
	type plain rawPersonalInfo
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		*p = rawPersonalInfo{}
		return nil
	}
	*p = rawPersonalInfo(decoded)
	return nil
}

// --- job requirements stage ---

type rawRequirements struct {
	MustHaveHardSkills   FlexList `json:"must_have_hard_skills"`
	HardSkills           FlexList `json:"hard_skills"`
	NiceToHaveHardSkills FlexList `json:"nice_to_have_hard_skills"`
	ActionVerbs          FlexList `json:"action_verbs"`
	ATSKeywords          FlexList `json:"ats_keywords"`
}

// validateJobRequirements coerces the four requirement lists, accepting
// hard_skills as an alias when must_have_hard_skills is absent. Fails when
// everything comes back empty.
func validateJobRequirements(data []byte) (types.JobRequirements, error) {
	var raw rawRequirements
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.JobRequirements{}, fmt.Errorf("invalid_json: %w", err)
	}

	mustHave := raw.MustHaveHardSkills
	if len(mustHave) == 0 {
		mustHave = raw.HardSkills
	}

	result := types.JobRequirements{
		MustHaveHardSkills:   textkit.Dedupe(mustHave),
		NiceToHaveHardSkills: textkit.Dedupe(raw.NiceToHaveHardSkills),
		ActionVerbs:          textkit.Dedupe(raw.ActionVerbs),
		ATSKeywords:          textkit.Dedupe(raw.ATSKeywords),
	}
	if result.Empty() {
		return types.JobRequirements{}, fmt.Errorf("schema_validation: %w", ErrEmptyRequirements)
	}
	return result, nil
}

// --- resume facts stage ---

type rawFacts struct {
	Language       FlexString        `json:"language"`
	PersonalInfo   rawPersonalInfo   `json:"personal_info"`
	HardSkills     FlexList          `json:"hard_skills"`
	SoftSkills     FlexList          `json:"soft_skills"`
	Experience     rawExperienceList `json:"experience"`
	Experiences    rawExperienceList `json:"experiences"`
	Education      FlexList          `json:"education"`
	Languages      FlexList          `json:"languages"`
	Certifications FlexList          `json:"certifications"`
}

// validateResumeFacts coerces the factual structure. Beyond JSON parsing it
// never fails: an empty resume yields an empty-but-valid ResumeFacts.
func validateResumeFacts(data []byte) (types.ResumeFacts, error) {
	var raw rawFacts
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.ResumeFacts{}, fmt.Errorf("invalid_json: %w", err)
	}

	source := raw.Experience
	if len(source) == 0 {
		source = raw.Experiences
	}
	var experience []types.ExperienceFact
	for _, entry := range source {
		highlights := entry.Highlights
		if len(highlights) == 0 {
			highlights = entry.Bullets
		}
		experience = append(experience, types.ExperienceFact{
			Company:    entry.Company.String(),
			Title:      entry.Title.String(),
			Period:     entry.composedPeriod(),
			Location:   entry.Location.String(),
			Highlights: textkit.Dedupe(highlights),
		})
	}

	return types.ResumeFacts{
		Language: raw.Language.String(),
		PersonalInfo: types.PersonalInfo{
			FullName:  raw.PersonalInfo.FullName.String(),
			Email:     raw.PersonalInfo.Email.String(),
			Phone:     raw.PersonalInfo.Phone.String(),
			Location:  raw.PersonalInfo.Location.String(),
			LinkedIn:  raw.PersonalInfo.LinkedIn.String(),
			Portfolio: raw.PersonalInfo.Portfolio.String(),
		},
		HardSkills:     textkit.Dedupe(raw.HardSkills),
		SoftSkills:     textkit.Dedupe(raw.SoftSkills),
		Experience:     experience,
		Education:      textkit.Dedupe(raw.Education),
		Languages:      textkit.Dedupe(raw.Languages),
		Certifications: textkit.Dedupe(raw.Certifications),
	}, nil
}

// --- rewrite stage ---

// rawOptimizedResume tracks whether the generator actually produced an
// object with content, since an empty or mistyped container means the
// top-level experience list is authoritative instead.
type rawOptimizedResume struct {
	ProfessionalSummary FlexString
	Experience          rawExperienceList
	isObject            bool
	hasContent          bool
}

func (o *rawOptimizedResume) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		*o = rawOptimizedResume{}
		return nil
	}
	o.isObject = true
	o.hasContent = len(fields) > 0
	if raw, ok := fields["professional_summary"]; ok {
		_ = o.ProfessionalSummary.UnmarshalJSON(raw)
	}
	if raw, ok := fields["experience"]; ok {
		_ = o.Experience.UnmarshalJSON(raw)
	}
	return nil
}

type rawGapAnalysis struct {
	MissingHardSkills FlexList `json:"missing_hard_skills"`
}

func (g *rawGapAnalysis) UnmarshalJSON(data []byte) error {
	type plain rawGapAnalysis
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		*g = rawGapAnalysis{}
		return nil
	}
	*g = rawGapAnalysis(decoded)
	return nil
}

type rawRewrite struct {
	OptimizedResume     *rawOptimizedResume `json:"optimized_resume"`
	ProfessionalSummary *FlexString         `json:"professional_summary"`
	Experience          *rawExperienceList  `json:"experience"`
	HardSkills          FlexList            `json:"hard_skills"`
	HardSkillsFound     FlexList            `json:"hard_skills_found"`
	Skills              FlexList            `json:"skills"`
	ActionVerbs         FlexList            `json:"action_verbs"`
	Warnings            FlexList            `json:"warnings"`
	GapAnalysis         rawGapAnalysis      `json:"gap_analysis"`
	ChangeLog           FlexList            `json:"change_log"`
}

// RewriteDraft is the typed, already-coerced view of the rewrite stage
// output that the reconciler consumes. Untrusted free-form structure stops
// here.
type RewriteDraft struct {
	Summary           string
	Experience        []types.OptimizedExperience
	HardSkills        []string
	ActionVerbs       []string
	Warnings          []string
	MissingHardSkills []string
	ChangeLog         []string
}

// validateRewrite requires at least one of the optimized-resume keys to be
// present, then extracts the candidate summary and experience entries,
// preferring the nested optimized_resume container over top-level fields.
func validateRewrite(data []byte) (RewriteDraft, error) {
	var raw rawRewrite
	if err := json.Unmarshal(data, &raw); err != nil {
		return RewriteDraft{}, fmt.Errorf("invalid_json: %w", err)
	}
	if raw.OptimizedResume == nil && raw.ProfessionalSummary == nil && raw.Experience == nil {
		return RewriteDraft{}, fmt.Errorf("schema_validation: rewrite output carries none of optimized_resume, professional_summary, experience")
	}

	var candidateSource rawExperienceList
	if raw.OptimizedResume != nil && raw.OptimizedResume.isObject && raw.OptimizedResume.hasContent {
		candidateSource = raw.OptimizedResume.Experience
	} else if raw.Experience != nil {
		candidateSource = *raw.Experience
	}

	var experience []types.OptimizedExperience
	for _, entry := range candidateSource {
		bullets := entry.Bullets
		if len(bullets) == 0 {
			bullets = entry.DescriptionBullets
		}
		experience = append(experience, types.OptimizedExperience{
			Title:   entry.Title.String(),
			Company: entry.Company.String(),
			Period:  entry.composedPeriod(),
			Bullets: textkit.Dedupe(bullets),
		})
	}

	summary := ""
	if raw.OptimizedResume != nil && raw.OptimizedResume.isObject {
		summary = raw.OptimizedResume.ProfessionalSummary.String()
	}
	if summary == "" && raw.ProfessionalSummary != nil {
		summary = raw.ProfessionalSummary.String()
	}

	skills := raw.HardSkills
	if len(skills) == 0 {
		skills = raw.HardSkillsFound
	}
	if len(skills) == 0 {
		skills = raw.Skills
	}

	return RewriteDraft{
		Summary:           summary,
		Experience:        experience,
		HardSkills:        textkit.Dedupe(skills),
		ActionVerbs:       textkit.Dedupe(raw.ActionVerbs),
		Warnings:          raw.Warnings,
		MissingHardSkills: raw.GapAnalysis.MissingHardSkills,
		ChangeLog:         textkit.Dedupe(raw.ChangeLog),
	}, nil
}
