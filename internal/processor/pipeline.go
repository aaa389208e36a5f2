package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ats-optimizer-go/internal/logger"
	"ats-optimizer-go/internal/parser"
	"ats-optimizer-go/internal/redact"
	"ats-optimizer-go/internal/types"
)

// Stage names surfaced in diagnostics and change-log lines.
const (
	StageJobRequirements    = "job_requirements"
	StageResumeFacts        = "resume_facts"
	StageResumeOptimization = "resume_optimization"
)

// Pipeline runs the full resume/job matching chain: segmentation,
// chunking, two chunk selections, three ordered generation stages and the
// final reconciliation. A pipeline is safe for concurrent use; each run is
// a pure function of its inputs.
type Pipeline struct {
	oracle   Oracle
	chunker  *parser.Chunker
	settings Settings
	logger   zerolog.Logger
}

// NewPipeline builds a pipeline around a generation oracle.
func NewPipeline(oracle Oracle, options ...Option) (*Pipeline, error) {
	if oracle == nil {
		return nil, fmt.Errorf("oracle must not be nil")
	}

	p := &Pipeline{
		oracle: oracle,
		settings: Settings{
			Chunker: parser.ChunkerConfig{
				MaxChars:     DefaultChunkMaxChars,
				MinChars:     DefaultChunkMinChars,
				OverlapChars: DefaultChunkOverlapChars,
			},
			MaxSelectedChunks:       DefaultMaxSelectedChunks,
			MaxRetries:              DefaultMaxRetries,
			RequirementsTemperature: DefaultRequirementsTemperature,
			FactsTemperature:        DefaultFactsTemperature,
			RewriteTemperature:      DefaultRewriteTemperature,
		},
		logger: logger.Logger,
	}
	for _, option := range options {
		option(p)
	}

	if p.settings.MaxSelectedChunks < 1 {
		p.settings.MaxSelectedChunks = DefaultMaxSelectedChunks
	}
	if p.settings.MaxRetries < 0 {
		p.settings.MaxRetries = 0
	}
	p.chunker = parser.NewChunker(p.settings.Chunker)

	return p, nil
}

type requirementsPayload struct {
	JobDescription string `json:"job_description"`
}

type factsPayload struct {
	ResumeChunks        []types.Chunk         `json:"resume_chunks"`
	JobRequirementsHint types.JobRequirements `json:"job_requirements_hint"`
}

type chunkingMeta struct {
	Enabled        bool `json:"enabled"`
	TotalChunks    int  `json:"total_chunks"`
	SelectedChunks int  `json:"selected_chunks"`
}

type rewritePayload struct {
	JobDescription  string                `json:"job_description"`
	JobRequirements types.JobRequirements `json:"job_requirements"`
	ResumeFacts     types.ResumeFacts     `json:"resume_facts"`
	EvidenceChunks  []types.Chunk         `json:"evidence_chunks"`
	Chunking        chunkingMeta          `json:"chunking"`
}

// Optimize runs one pipeline invocation. The three oracle stages are
// strictly ordered; every later stage consumes the previous stage's
// validated output. Fatal errors carry the stage name and a truncated raw
// response, never the full payload.
func (p *Pipeline) Optimize(ctx context.Context, resumeText, jobDescription string) (*types.PipelineOutput, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrEmptyResume
	}

	runID := uuid.NewString()
	runLogger := p.logger.With().Str("run_id", runID).Logger()
	runLogger.Info().
		Int("resume_chars", len(resumeText)).
		Int("job_description_chars", len(jobDescription)).
		Str("resume_preview", redact.SafeResumeContent(resumeText)).
		Msg("pipeline run started")

	requirementsStage := &stageCall[types.JobRequirements]{
		oracle:       p.oracle,
		stage:        StageJobRequirements,
		systemPrompt: jobAnalysisPrompt,
		temperature:  p.settings.RequirementsTemperature,
		maxRetries:   p.settings.MaxRetries,
		validate:     validateJobRequirements,
	}
	requirements, err := requirementsStage.run(ctx, requirementsPayload{JobDescription: jobDescription})
	if err != nil {
		return nil, err
	}
	runLogger.Debug().
		Int("must_have", len(requirements.MustHaveHardSkills)).
		Int("nice_to_have", len(requirements.NiceToHaveHardSkills)).
		Msg("job requirements extracted")

	chunks := p.chunker.BuildChunks(resumeText)
	factsChunks := SelectFactsChunks(chunks, p.settings.MaxSelectedChunks)
	runLogger.Debug().
		Int("total_chunks", len(chunks)).
		Int("facts_chunks", len(factsChunks)).
		Msg("resume chunked")

	factsStage := &stageCall[types.ResumeFacts]{
		oracle:       p.oracle,
		stage:        StageResumeFacts,
		systemPrompt: resumeFactsPrompt,
		temperature:  p.settings.FactsTemperature,
		maxRetries:   p.settings.MaxRetries,
		validate:     validateResumeFacts,
	}
	facts, err := factsStage.run(ctx, factsPayload{
		ResumeChunks:        factsChunks,
		JobRequirementsHint: requirements,
	})
	if err != nil {
		return nil, err
	}
	if len(facts.Experience) == 0 && len(facts.HardSkills) == 0 {
		// Non-fatal: the reconciler degrades to evidence- and
		// requirement-based fallbacks.
		runLogger.Warn().Msg("resume facts came back empty, continuing with defaults")
	}

	ranked := RankChunks(chunks, jobDescription, requirements)
	selected := SelectOptimizationChunks(chunks, ranked, p.settings.MaxSelectedChunks)
	runLogger.Debug().
		Int("selected_chunks", len(selected)).
		Msg("optimization chunks selected")

	rewriteStage := &stageCall[RewriteDraft]{
		oracle:       p.oracle,
		stage:        StageResumeOptimization,
		systemPrompt: rewriteBasePrompt + "\n\n" + pipelineGuardPrompt,
		temperature:  p.settings.RewriteTemperature,
		maxRetries:   p.settings.MaxRetries,
		validate:     validateRewrite,
	}
	draft, err := rewriteStage.run(ctx, rewritePayload{
		JobDescription:  jobDescription,
		JobRequirements: requirements,
		ResumeFacts:     facts,
		EvidenceChunks:  selected,
		Chunking: chunkingMeta{
			Enabled:        true,
			TotalChunks:    len(chunks),
			SelectedChunks: len(selected),
		},
	})
	if err != nil {
		return nil, err
	}

	output := Reconcile(draft, facts, requirements, selected, len(chunks))
	runLogger.Info().
		Int("hard_skills", len(output.HardSkills)).
		Int("experience_entries", len(output.OptimizedResume.Experience)).
		Int("warnings", len(output.Warnings)).
		Msg("pipeline run finished")
	return &output, nil
}
