package plagiarism

import "fmt"

// DefaultThreshold is the highest plagiarism percentage that is still
// accepted for publication.
const DefaultThreshold = 40.0

// Source tells where a percentage came from.
type Source string

const (
	// SourceUpstream is a score reported by the scoring API.
	SourceUpstream Source = "upstream"
	// SourceFallback is the local deterministic score used when the
	// upstream check cannot be performed.
	SourceFallback Source = "fallback"
	// SourcePlaceholder marks a degraded score: the upstream scan finished
	// but its result carried no score field, so a random value in [0,80)
	// stands in for it.
	SourcePlaceholder Source = "placeholder"
)

// Result is the outcome of one check.
type Result struct {
	Percentage float64 `json:"percentage"`
	Allowed    bool    `json:"allowed"`
	Source     Source  `json:"source"`
	ScanID     string  `json:"scan_id,omitempty"`
}

// Degraded reports whether the percentage is not an upstream score.
func (r Result) Degraded() bool {
	return r.Source != SourceUpstream
}

// Message renders the verdict the way it is shown to an author.
func (r Result) Message() string {
	if r.Allowed {
		return fmt.Sprintf("Plagiarism check passed: %.1f%%", r.Percentage)
	}
	return fmt.Sprintf("Your content has %.1f%% plagiarism. Please reconsider your content.", r.Percentage)
}

// Policy decides acceptance from a percentage.
type Policy struct {
	Threshold float64
}

// DefaultPolicy accepts anything at or below DefaultThreshold.
func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultThreshold}
}

// Allowed is true iff p does not exceed the threshold. The boundary itself
// is allowed.
func (p Policy) Allowed(percentage float64) bool {
	return percentage <= p.Threshold
}

func (p Policy) result(percentage float64, source Source, scanID string) Result {
	return Result{
		Percentage: percentage,
		Allowed:    p.Allowed(percentage),
		Source:     source,
		ScanID:     scanID,
	}
}
