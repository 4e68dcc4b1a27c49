package analysis

import (
	"time"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

// Assemble merges settled outcomes into the final report. It does no I/O.
func Assemble(
	id, content string,
	source domain.SourceInfo,
	outcomes []domain.DimensionOutcome,
	synthesis domain.SynthesisOutcome,
	startedAt, completedAt time.Time,
) domain.Report {
	order := make([]string, 0, len(outcomes))
	byKey := make(map[string]domain.DimensionOutcome, len(outcomes))
	for _, o := range outcomes {
		if _, dup := byKey[o.Key]; !dup {
			order = append(order, o.Key)
		}
		byKey[o.Key] = o
	}

	elapsed := completedAt.Sub(startedAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	return domain.Report{
		ID:          id,
		Content:     content,
		Order:       order,
		Dimensions:  byKey,
		Synthesis:   synthesis,
		Source:      source,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		ElapsedMs:   elapsed,
	}
}
