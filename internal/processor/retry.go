package processor

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"ats-optimizer-go/internal/redact"
)

// Limits on how much raw oracle output is carried forward. A repair prompt
// gets a generous slice; a terminal diagnostic gets a short one, never the
// full payload.
const (
	maxRepairResponseChars = 8000
	maxErrorResponseChars  = 600
)

// stagePhase enumerates the states of one retry-repair cycle.
type stagePhase int

const (
	phasePending stagePhase = iota
	phaseValidating
	phaseRepairing
	phaseSucceeded
	phaseFailed
)

// repairPayload is the mutated input sent on every retry after a parse or
// validation failure.
type repairPayload struct {
	OriginalInput    any    `json:"original_input"`
	PreviousResponse string `json:"previous_response"`
	ValidationError  string `json:"validation_error"`
	Instruction      string `json:"instruction"`
}

// stageCall wraps one oracle stage with the retry-repair protocol. The
// validator receives the fence-stripped raw response and must produce the
// stage's typed entity or fail.
type stageCall[T any] struct {
	oracle       Oracle
	stage        string
	systemPrompt string
	temperature  float64
	maxRetries   int
	validate     func(data []byte) (T, error)
}

// run drives the bounded state machine Pending -> Validating ->
// (Succeeded | Repairing -> Pending) until success or the attempt budget
// is gone. Repair retries are issued immediately, without backoff: the run
// sits inside a single request budget and every retry carries a changed
// payload. An oracle transport failure consumes an attempt like any other
// malformed output, except ErrOracleUnavailable, which is terminal at
// once.
func (s *stageCall[T]) run(ctx context.Context, payload any) (T, error) {
	var (
		zero     T
		result   T
		lastErr  error
		raw      string
		stripped string
		attempts int
		current  any = payload
	)

	for phase := phasePending; ; {
		switch phase {
		case phasePending:
			var err error
			raw, err = s.oracle.Generate(ctx, current, s.systemPrompt, s.temperature)
			attempts++
			stripped = stripCodeFence(raw)
			if err != nil {
				if errors.Is(err, ErrOracleUnavailable) {
					return zero, err
				}
				lastErr = err
				phase = phaseRepairing
				continue
			}
			phase = phaseValidating

		case phaseValidating:
			var err error
			result, err = s.validate([]byte(stripped))
			if err != nil {
				lastErr = err
				phase = phaseRepairing
				continue
			}
			phase = phaseSucceeded

		case phaseRepairing:
			if attempts > s.maxRetries {
				phase = phaseFailed
				continue
			}
			current = repairPayload{
				OriginalInput:    payload,
				PreviousResponse: redact.Clip(stripped, maxRepairResponseChars),
				ValidationError:  lastErr.Error(),
				Instruction:      repairInstruction,
			}
			phase = phasePending

		case phaseSucceeded:
			return result, nil

		case phaseFailed:
			return zero, &StageError{
				Stage:      s.stage,
				Attempts:   attempts,
				LastErr:    lastErr,
				RawSnippet: redact.Clip(stripped, maxErrorResponseChars),
			}
		}
	}
}

var (
	fenceOpenRe  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
)

// stripCodeFence removes an optional markdown fence wrapping the response.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = fenceOpenRe.ReplaceAllString(cleaned, "")
		cleaned = fenceCloseRe.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(cleaned)
}
