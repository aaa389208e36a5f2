package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-optimizer-go/internal/types"
)

// mockOracle replays scripted responses and records every payload it was
// given.
type mockOracle struct {
	responses []string
	errs      []error
	payloads  []any
	calls     int
}

func (m *mockOracle) Generate(_ context.Context, payload any, _ string, _ float64) (string, error) {
	index := m.calls
	m.calls++
	m.payloads = append(m.payloads, payload)

	var err error
	if index < len(m.errs) {
		err = m.errs[index]
	}
	response := ""
	if index < len(m.responses) {
		response = m.responses[index]
	}
	return response, err
}

func requirementsStage(oracle Oracle, maxRetries int) *stageCall[types.JobRequirements] {
	return &stageCall[types.JobRequirements]{
		oracle:       oracle,
		stage:        StageJobRequirements,
		systemPrompt: jobAnalysisPrompt,
		temperature:  0.1,
		maxRetries:   maxRetries,
		validate:     validateJobRequirements,
	}
}

const validRequirementsJSON = `{"must_have_hard_skills": ["Go"], "action_verbs": ["built"]}`

func TestStageCallSucceedsFirstAttempt(t *testing.T) {
	oracle := &mockOracle{responses: []string{validRequirementsJSON}}
	result, err := requirementsStage(oracle, 2).run(context.Background(), map[string]string{"job": "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, result.MustHaveHardSkills)
	assert.Equal(t, 1, oracle.calls)
}

func TestStageCallStripsMarkdownFence(t *testing.T) {
	oracle := &mockOracle{responses: []string{"```json\n" + validRequirementsJSON + "\n```"}}
	result, err := requirementsStage(oracle, 0).run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, result.MustHaveHardSkills)
}

func TestStageCallRepairsAfterInvalidResponse(t *testing.T) {
	original := map[string]string{"job_description": "hiring"}
	oracle := &mockOracle{responses: []string{"this is not json", validRequirementsJSON}}

	result, err := requirementsStage(oracle, 1).run(context.Background(), original)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, result.MustHaveHardSkills)
	require.Equal(t, 2, oracle.calls)

	// the first call carries the original payload, the retry a repair
	// envelope around it
	assert.Equal(t, original, oracle.payloads[0].(map[string]string))
	repair, ok := oracle.payloads[1].(repairPayload)
	require.True(t, ok)
	assert.Equal(t, original, repair.OriginalInput.(map[string]string))
	assert.Equal(t, "this is not json", repair.PreviousResponse)
	assert.Contains(t, repair.ValidationError, "invalid_json")
	assert.NotEmpty(t, repair.Instruction)
}

func TestStageCallExhaustsRetryBudget(t *testing.T) {
	oracle := &mockOracle{responses: []string{"{}", "{}", "{}"}}
	_, err := requirementsStage(oracle, 2).run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 3, oracle.calls)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageJobRequirements, stageErr.Stage)
	assert.Equal(t, 3, stageErr.Attempts)
	assert.Equal(t, "{}", stageErr.RawSnippet)
	assert.ErrorIs(t, err, ErrEmptyRequirements)
}

func TestStageCallZeroRetriesFailsImmediately(t *testing.T) {
	oracle := &mockOracle{responses: []string{"garbage"}}
	_, err := requirementsStage(oracle, 0).run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 1, oracle.calls)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, 1, stageErr.Attempts)
}

func TestStageCallTransportErrorConsumesAttempt(t *testing.T) {
	oracle := &mockOracle{
		responses: []string{"", validRequirementsJSON},
		errs:      []error{errors.New("upstream timeout"), nil},
	}
	result, err := requirementsStage(oracle, 1).run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, result.MustHaveHardSkills)
	assert.Equal(t, 2, oracle.calls)
}

func TestStageCallOracleUnavailableIsTerminal(t *testing.T) {
	oracle := &mockOracle{errs: []error{fmt.Errorf("no api key: %w", ErrOracleUnavailable)}}
	_, err := requirementsStage(oracle, 5).run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOracleUnavailable)
	assert.Equal(t, 1, oracle.calls)

	var stageErr *StageError
	assert.False(t, errors.As(err, &stageErr))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1}  `))
	assert.Equal(t, "", stripCodeFence(""))
}
