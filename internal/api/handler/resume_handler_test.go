package handler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-optimizer-go/internal/config"
	"ats-optimizer-go/internal/processor"
	"ats-optimizer-go/internal/store"
)

type scriptedOracle struct {
	responses []string
	calls     int
}

func (o *scriptedOracle) Generate(context.Context, any, string, float64) (string, error) {
	index := o.calls
	o.calls++
	if index < len(o.responses) {
		return o.responses[index], nil
	}
	return "", errors.New("script exhausted")
}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText([]byte) (string, error) {
	return s.text, s.err
}

var stageResponses = []string{
	`{"must_have_hard_skills": ["Go"], "action_verbs": ["built"]}`,
	`{"hard_skills": ["Go"], "experience": [{"company": "Acme", "title": "Engineer", "period": "2020", "highlights": ["built services in Go"]}]}`,
	`{"optimized_resume": {"professional_summary": "Engineer.", "experience": [{"title": "Engineer", "company": "Acme", "bullets": ["Built services in Go"]}]}, "hard_skills": ["Go"]}`,
}

func testLimits() config.LimitsConfig {
	return config.LimitsConfig{MaxPDFSizeMB: 5, MaxJobDescriptionChars: 1000}
}

func newTestHandler(t *testing.T, oracle processor.Oracle, extractor processor.TextExtractor, runs store.Store) *ResumeHandler {
	t.Helper()
	pipeline, err := processor.NewPipeline(oracle)
	require.NoError(t, err)
	h, err := NewResumeHandler(pipeline, extractor, runs, testLimits(), time.Minute)
	require.NoError(t, err)
	return h
}

const handlerResume = "Experience\nAcme - Engineer (2020)\nbuilt services in Go\n"

func TestHandleOptimizeWithRawText(t *testing.T) {
	runs := store.NewMemory(8)
	h := newTestHandler(t, &scriptedOracle{responses: stageResponses}, nil, runs)

	resp, err := h.HandleOptimize(context.Background(), "run-1", OptimizeRequest{
		ResumeText:     handlerResume,
		JobDescription: "Go engineer wanted",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, resp.HardSkills)
	assert.Contains(t, resp.OriginalResumeText, "Acme - Engineer")

	status, ok, err := runs.Get(context.Background(), "runs:run-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "completed", status)
}

func TestHandleOptimizePrefersPDFOverText(t *testing.T) {
	runs := store.NewMemory(8)
	extractor := &stubExtractor{text: handlerResume}
	h := newTestHandler(t, &scriptedOracle{responses: stageResponses}, extractor, runs)

	resp, err := h.HandleOptimize(context.Background(), "run-2", OptimizeRequest{
		ResumeText:     "ignored raw text",
		PDFBytes:       []byte("%PDF-1.4 fake"),
		PDFContentType: "application/pdf",
		JobDescription: "Go engineer wanted",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.OriginalResumeText, "Acme - Engineer")
}

func TestHandleOptimizeMissingInputs(t *testing.T) {
	h := newTestHandler(t, &scriptedOracle{}, nil, store.NewMemory(8))

	var reqErr *RequestError
	_, err := h.HandleOptimize(context.Background(), "", OptimizeRequest{JobDescription: "jd"})
	require.Error(t, err)
	assert.ErrorAs(t, err, &reqErr)

	_, err = h.HandleOptimize(context.Background(), "", OptimizeRequest{ResumeText: handlerResume})
	require.Error(t, err)
	assert.ErrorAs(t, err, &reqErr)
}

func TestHandleOptimizeJobDescriptionTooLong(t *testing.T) {
	h := newTestHandler(t, &scriptedOracle{}, nil, store.NewMemory(8))

	var reqErr *RequestError
	_, err := h.HandleOptimize(context.Background(), "", OptimizeRequest{
		ResumeText:     handlerResume,
		JobDescription: strings.Repeat("x", 1001),
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, &reqErr)
}

func TestHandleOptimizeRejectsBadUpload(t *testing.T) {
	h := newTestHandler(t, &scriptedOracle{}, &stubExtractor{text: "x"}, store.NewMemory(8))

	var reqErr *RequestError
	_, err := h.HandleOptimize(context.Background(), "", OptimizeRequest{
		PDFBytes:       []byte("GIF89a"),
		PDFContentType: "image/gif",
		JobDescription: "jd",
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, &reqErr)

	h = newTestHandler(t, &scriptedOracle{}, &stubExtractor{err: errors.New("broken file")}, store.NewMemory(8))
	_, err = h.HandleOptimize(context.Background(), "", OptimizeRequest{
		PDFBytes:       []byte("%PDF-1.4"),
		PDFContentType: "application/pdf",
		JobDescription: "jd",
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, &reqErr)
}

func TestHandleOptimizePipelineFailureRecordsRun(t *testing.T) {
	runs := store.NewMemory(8)
	h := newTestHandler(t, &scriptedOracle{responses: []string{"garbage", "garbage", "garbage"}}, nil, runs)

	var reqErr *RequestError
	_, err := h.HandleOptimize(context.Background(), "run-3", OptimizeRequest{
		ResumeText:     handlerResume,
		JobDescription: "jd",
	})
	require.Error(t, err)
	assert.False(t, errors.As(err, &reqErr))

	status, ok, _ := runs.Get(context.Background(), "runs:run-3")
	assert.True(t, ok)
	assert.Equal(t, "failed", status)
}

func TestReadAllEnforcesLimit(t *testing.T) {
	data, err := ReadAll(strings.NewReader("12345"), 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("12345"), data)

	_, err = ReadAll(strings.NewReader("12345678901"), 10)
	assert.Error(t, err)
}
