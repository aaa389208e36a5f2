// Package handler implements the HTTP-facing side of the service. It
// validates uploads, extracts text and delegates to the pipeline; all
// matching logic lives below it.
package handler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ats-optimizer-go/internal/config"
	"ats-optimizer-go/internal/logger"
	"ats-optimizer-go/internal/processor"
	"ats-optimizer-go/internal/store"
	"ats-optimizer-go/internal/textkit"
	"ats-optimizer-go/internal/types"
)

// Accepted upload content types for the resume file.
var acceptedPDFTypes = map[string]bool{
	"application/pdf":          true,
	"application/octet-stream": true,
}

// OptimizeRequest is the parsed form of one optimize call: either raw
// resume text or an uploaded PDF, plus the job description.
type OptimizeRequest struct {
	ResumeText     string
	PDFBytes       []byte
	PDFContentType string
	JobDescription string
}

// OptimizeResponse is the wire response: the pipeline output plus the
// extracted resume text the frontend renders alongside it.
type OptimizeResponse struct {
	types.PipelineOutput
	OriginalResumeText string `json:"original_resume_text"`
}

// RequestError marks a client-side problem (bad upload, missing fields).
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// ResumeHandler wires the pipeline, the PDF extractor and the run store.
type ResumeHandler struct {
	pipeline  *processor.Pipeline
	extractor processor.TextExtractor
	runs      store.Store
	limits    config.LimitsConfig
	runTTL    time.Duration
}

// NewResumeHandler builds a handler. extractor may be nil when only raw
// text input is served.
func NewResumeHandler(pipeline *processor.Pipeline, extractor processor.TextExtractor, runs store.Store, limits config.LimitsConfig, runTTL time.Duration) (*ResumeHandler, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline must not be nil")
	}
	if runs == nil {
		return nil, fmt.Errorf("run store must not be nil")
	}
	return &ResumeHandler{
		pipeline:  pipeline,
		extractor: extractor,
		runs:      runs,
		limits:    limits,
		runTTL:    runTTL,
	}, nil
}

// HandleOptimize validates the request, extracts and cleans the texts,
// runs the pipeline and records the run outcome in the store. A
// *RequestError means the client must fix its input; any other error is an
// upstream pipeline failure.
func (h *ResumeHandler) HandleOptimize(ctx context.Context, runID string, req OptimizeRequest) (*OptimizeResponse, error) {
	resumeText, err := h.resolveResumeText(req)
	if err != nil {
		return nil, err
	}

	jobDescription := textkit.CleanText(req.JobDescription)
	if jobDescription == "" {
		return nil, &RequestError{Message: "job description is empty"}
	}
	if len(jobDescription) > h.limits.MaxJobDescriptionChars {
		return nil, &RequestError{Message: fmt.Sprintf(
			"job description exceeds %d characters", h.limits.MaxJobDescriptionChars)}
	}

	h.recordRun(ctx, runID, "running")
	output, err := h.pipeline.Optimize(ctx, resumeText, jobDescription)
	if err != nil {
		h.recordRun(ctx, runID, "failed")
		return nil, err
	}
	h.recordRun(ctx, runID, "completed")

	return &OptimizeResponse{
		PipelineOutput:     *output,
		OriginalResumeText: resumeText,
	}, nil
}

// resolveResumeText prefers the uploaded PDF and falls back to the raw
// text field.
func (h *ResumeHandler) resolveResumeText(req OptimizeRequest) (string, error) {
	if len(req.PDFBytes) > 0 {
		if h.extractor == nil {
			return "", &RequestError{Message: "PDF uploads are not enabled"}
		}
		if req.PDFContentType != "" && !acceptedPDFTypes[req.PDFContentType] {
			return "", &RequestError{Message: "upload a valid PDF file"}
		}
		maxBytes := int64(h.limits.MaxPDFSizeMB) * 1024 * 1024
		if int64(len(req.PDFBytes)) > maxBytes {
			return "", &RequestError{Message: fmt.Sprintf("PDF exceeds %d MB", h.limits.MaxPDFSizeMB)}
		}
		text, err := h.extractor.ExtractText(req.PDFBytes)
		if err != nil {
			return "", &RequestError{Message: "could not extract text from the PDF"}
		}
		if strings.TrimSpace(text) == "" {
			return "", &RequestError{Message: "the PDF contains no extractable text"}
		}
		return text, nil
	}

	text := textkit.CleanText(req.ResumeText)
	if text == "" {
		return "", &RequestError{Message: "send a resume PDF or resume text"}
	}
	return text, nil
}

// recordRun stores the run status marker. Bookkeeping must never fail a
// request, so errors are only logged.
func (h *ResumeHandler) recordRun(ctx context.Context, runID, status string) {
	if runID == "" {
		return
	}
	if err := h.runs.Put(ctx, "runs:"+runID, status, h.runTTL); err != nil {
		logger.Warn().Err(err).Str("run_id", runID).Msg("run bookkeeping write failed")
	}
}

// ReadAll drains an uploaded file into memory, capped at limit bytes.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("upload exceeds %d bytes", limit)
	}
	return data, nil
}
