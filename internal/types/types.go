package types

// Section labels a semantic segment of a resume. The set is closed: the
// segmenter never emits a label outside of it.
type Section string

const (
	SectionHeader         Section = "header"
	SectionSummary        Section = "summary"
	SectionExperience     Section = "experience"
	SectionSkills         Section = "skills"
	SectionEducation      Section = "education"
	SectionCertifications Section = "certifications"
	SectionLanguages      Section = "languages"
	SectionProjects       Section = "projects"
	SectionOther          Section = "other"
)

// Chunk is a bounded, section-tagged contiguous substring of resume text.
// IDs follow the S<sectionIndex>C<chunkIndex> format and are unique within
// a pipeline run. A chunk is immutable once produced.
type Chunk struct {
	ID      string  `json:"chunk_id"`
	Section Section `json:"section"`
	Text    string  `json:"text"`
}

// RankedChunk pairs a chunk's original index with its relevance score.
// Derived data, never persisted.
type RankedChunk struct {
	Index int
	Score int
}

// JobRequirements holds the deduplicated requirement lists extracted from
// a job description. At least one list must be non-empty.
type JobRequirements struct {
	MustHaveHardSkills   []string `json:"must_have_hard_skills"`
	NiceToHaveHardSkills []string `json:"nice_to_have_hard_skills"`
	ActionVerbs          []string `json:"action_verbs"`
	ATSKeywords          []string `json:"ats_keywords"`
}

// Empty reports whether every requirement list is empty.
func (r JobRequirements) Empty() bool {
	return len(r.MustHaveHardSkills) == 0 &&
		len(r.NiceToHaveHardSkills) == 0 &&
		len(r.ActionVerbs) == 0 &&
		len(r.ATSKeywords) == 0
}

// PersonalInfo carries the optional contact fields extracted from a resume.
type PersonalInfo struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

// ExperienceFact is one factual employment record from the resume.
type ExperienceFact struct {
	Company    string   `json:"company"`
	Title      string   `json:"title"`
	Period     string   `json:"period"`
	Location   string   `json:"location"`
	Highlights []string `json:"highlights"`
}

// ResumeFacts is the factual ground truth extracted from the resume. It is
// never mutated after creation within a pipeline run; the reconciler only
// reads from it.
type ResumeFacts struct {
	Language       string           `json:"language"`
	PersonalInfo   PersonalInfo     `json:"personal_info"`
	HardSkills     []string         `json:"hard_skills"`
	SoftSkills     []string         `json:"soft_skills"`
	Experience     []ExperienceFact `json:"experience"`
	Education      []string         `json:"education"`
	Languages      []string         `json:"languages"`
	Certifications []string         `json:"certifications"`
}

// OptimizedExperience is one rewritten employment entry. Company, title and
// period always come from the factual record when a match exists.
type OptimizedExperience struct {
	Title   string   `json:"title"`
	Company string   `json:"company"`
	Period  string   `json:"period"`
	Bullets []string `json:"bullets"`
}

// OptimizedResume is the rewritten resume body handed to the renderer.
type OptimizedResume struct {
	ProfessionalSummary string                `json:"professional_summary"`
	Experience          []OptimizedExperience `json:"experience"`
}

// PipelineOutput is the final, reconciled result of one pipeline run.
type PipelineOutput struct {
	HardSkills      []string        `json:"hard_skills"`
	ActionVerbs     []string        `json:"action_verbs"`
	OptimizedResume OptimizedResume `json:"optimized_resume"`
	Warnings        []string        `json:"warnings"`
	ChangeLog       []string        `json:"change_log"`
}
