package processor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-optimizer-go/internal/types"
)

func twoFacts() []types.ExperienceFact {
	return []types.ExperienceFact{
		{Company: "Acme", Title: "Engineer", Period: "2019-2021", Highlights: []string{"built the billing system"}},
		{Company: "Beta Labs", Title: "Manager", Period: "2021-2024", Highlights: []string{"led a team of five"}},
	}
}

func TestReconcileExperienceSwappedOrderKeepsFactualPeriods(t *testing.T) {
	candidates := []types.OptimizedExperience{
		{Title: "Manager", Company: "Beta Labs", Period: "wrong", Bullets: []string{"new bullet"}},
		{Title: "Engineer", Company: "Acme", Period: "also wrong"},
	}

	result := reconcileExperience(candidates, twoFacts())
	require.Len(t, result, 2)

	assert.Equal(t, "Beta Labs", result[0].Company)
	assert.Equal(t, "2021-2024", result[0].Period)
	assert.Equal(t, []string{"new bullet"}, result[0].Bullets)

	assert.Equal(t, "Acme", result[1].Company)
	assert.Equal(t, "2019-2021", result[1].Period)
	// no generated bullets, so the factual highlights carry over
	assert.Equal(t, []string{"built the billing system"}, result[1].Bullets)
}

func TestReconcileExperienceCompanyOnlyMatch(t *testing.T) {
	candidates := []types.OptimizedExperience{
		{Title: "Senior Engineer", Company: "Acme", Bullets: []string{"b"}},
	}

	result := reconcileExperience(candidates, twoFacts())
	require.Len(t, result, 1)
	// factual title and period override the generated ones
	assert.Equal(t, "Engineer", result[0].Title)
	assert.Equal(t, "2019-2021", result[0].Period)
}

func TestReconcileExperiencePositionalFallback(t *testing.T) {
	candidates := []types.OptimizedExperience{
		{Title: "Invented Role", Company: "Nowhere Inc", Bullets: []string{"b"}},
	}

	result := reconcileExperience(candidates, twoFacts())
	require.Len(t, result, 1)
	// an unmatched entry inherits the record at its own position
	assert.Equal(t, "Acme", result[0].Company)
	assert.Equal(t, "Engineer", result[0].Title)
	assert.Equal(t, "2019-2021", result[0].Period)
}

func TestReconcileExperienceNoCandidatesPassesFactsThrough(t *testing.T) {
	result := reconcileExperience(nil, twoFacts())
	require.Len(t, result, 2)
	assert.Equal(t, "Acme", result[0].Company)
	assert.Equal(t, []string{"led a team of five"}, result[1].Bullets)
}

func TestReconcileExperienceNoFactsKeepsCandidates(t *testing.T) {
	candidates := []types.OptimizedExperience{
		{Title: "  Engineer ", Company: "Acme", Period: "2020", Bullets: []string{"b", "b"}},
	}
	result := reconcileExperience(candidates, nil)
	require.Len(t, result, 1)
	assert.Equal(t, "Engineer", result[0].Title)
	assert.Equal(t, []string{"b"}, result[0].Bullets)
}

func evidenceChunk(id, text string) types.Chunk {
	return types.Chunk{ID: id, Section: types.SectionExperience, Text: text}
}

func TestReconcileSurfacesEvidenceBackedRequiredSkills(t *testing.T) {
	requirements := types.JobRequirements{MustHaveHardSkills: []string{"Terraform"}}
	chunks := []types.Chunk{evidenceChunk("S1C1", "Managed Terraform stacks in production")}

	output := Reconcile(RewriteDraft{Summary: "s"}, types.ResumeFacts{}, requirements, chunks, 1)
	assert.Equal(t, []string{"Terraform"}, output.HardSkills)
	assert.Empty(t, output.Warnings)
}

func TestReconcileDropsUnsupportedGeneratedSkills(t *testing.T) {
	draft := RewriteDraft{Summary: "s", HardSkills: []string{"Rust"}}
	facts := types.ResumeFacts{HardSkills: []string{"Go"}}
	chunks := []types.Chunk{evidenceChunk("S1C1", "wrote services in Go")}

	output := Reconcile(draft, facts, types.JobRequirements{}, chunks, 1)
	// "Rust" has no factual or evidence backing; fall back to factual skills
	assert.Equal(t, []string{"Go"}, output.HardSkills)
}

func TestReconcileFactualCasingWins(t *testing.T) {
	draft := RewriteDraft{Summary: "s", HardSkills: []string{"postgresql"}}
	facts := types.ResumeFacts{HardSkills: []string{"PostgreSQL"}}

	output := Reconcile(draft, facts, types.JobRequirements{}, nil, 0)
	assert.Equal(t, []string{"PostgreSQL"}, output.HardSkills)
}

func TestReconcileActionVerbsFilteredToTargets(t *testing.T) {
	draft := RewriteDraft{Summary: "s", ActionVerbs: []string{"built", "shipped"}}
	requirements := types.JobRequirements{ActionVerbs: []string{"Built", "Led"}}

	output := Reconcile(draft, types.ResumeFacts{}, requirements, nil, 0)
	assert.Equal(t, []string{"built"}, output.ActionVerbs)
}

func TestReconcileActionVerbsFallBackToTargets(t *testing.T) {
	requirements := types.JobRequirements{ActionVerbs: []string{"Built", "Led"}}
	output := Reconcile(RewriteDraft{Summary: "s"}, types.ResumeFacts{}, requirements, nil, 0)
	assert.Equal(t, []string{"Built", "Led"}, output.ActionVerbs)
}

func TestReconcileWarnsOnUncoveredMustHaves(t *testing.T) {
	requirements := types.JobRequirements{MustHaveHardSkills: []string{"Terraform", "Kubernetes"}}
	chunks := []types.Chunk{evidenceChunk("S1C1", "Terraform modules everywhere")}
	draft := RewriteDraft{Summary: "s", Warnings: []string{"model warning"}, MissingHardSkills: []string{"Rust"}}

	output := Reconcile(draft, types.ResumeFacts{}, requirements, chunks, 1)
	assert.Contains(t, output.Warnings, "model warning")
	assert.Contains(t, output.Warnings, "Rust")
	assert.Contains(t, output.Warnings, "Kubernetes")
	assert.NotContains(t, output.Warnings, "Terraform")
}

func TestReconcileKeepsGeneratedSummary(t *testing.T) {
	output := Reconcile(RewriteDraft{Summary: "Hand-written summary."}, types.ResumeFacts{}, types.JobRequirements{}, nil, 0)
	assert.Equal(t, "Hand-written summary.", output.OptimizedResume.ProfessionalSummary)
}

func TestReconcileDefaultSummaryFromFacts(t *testing.T) {
	facts := types.ResumeFacts{
		HardSkills: []string{"Go"},
		Experience: []types.ExperienceFact{{Title: "Engineer", Company: "Acme"}},
	}
	draft := RewriteDraft{HardSkills: []string{"Go"}}

	output := Reconcile(draft, facts, types.JobRequirements{}, nil, 0)
	summary := output.OptimizedResume.ProfessionalSummary
	assert.Contains(t, summary, "Engineer")
	assert.Contains(t, summary, "Acme")
	assert.Contains(t, summary, "Go")
}

func TestReconcileDefaultSummaryRequirementsTier(t *testing.T) {
	requirements := types.JobRequirements{MustHaveHardSkills: []string{"Go", "Docker"}}
	output := Reconcile(RewriteDraft{}, types.ResumeFacts{}, requirements, nil, 0)
	assert.Contains(t, output.OptimizedResume.ProfessionalSummary, "Go, Docker")
}

func TestReconcileDefaultSummaryGenericTier(t *testing.T) {
	output := Reconcile(RewriteDraft{}, types.ResumeFacts{}, types.JobRequirements{}, nil, 0)
	assert.NotEmpty(t, output.OptimizedResume.ProfessionalSummary)
}

func TestReconcileChangeLogRecordsChunkUsage(t *testing.T) {
	chunks := []types.Chunk{
		evidenceChunk("S1C1", "a"),
		evidenceChunk("S2C1", "b"),
	}
	output := Reconcile(RewriteDraft{Summary: "s"}, types.ResumeFacts{}, types.JobRequirements{}, chunks, 3)

	assert.Contains(t, output.ChangeLog, "ATS pipeline applied in 3 stages: job requirements, resume facts and rewrite.")
	assert.Contains(t, output.ChangeLog, "Section-aware chunking applied: 2/3 chunks sent to the model.")
	assert.Contains(t, output.ChangeLog, "Chunks used in the rewrite stage: S1C1, S2C1.")
}

func TestReconcileChangeLogWithoutChunks(t *testing.T) {
	output := Reconcile(RewriteDraft{Summary: "s"}, types.ResumeFacts{}, types.JobRequirements{}, nil, 0)
	assert.Contains(t, output.ChangeLog, "Chunks used in the rewrite stage: none.")
}

func TestReconcileCapsOutputLists(t *testing.T) {
	var warnings []string
	for i := 0; i < 30; i++ {
		warnings = append(warnings, fmt.Sprintf("warning number %d", i))
	}
	output := Reconcile(RewriteDraft{Summary: "s", Warnings: warnings}, types.ResumeFacts{}, types.JobRequirements{}, nil, 0)
	assert.Len(t, output.Warnings, maxOutputListLen)
}
