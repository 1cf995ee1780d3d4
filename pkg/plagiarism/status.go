package plagiarism

import "fmt"

// ScanStatus is the job status reported by the scoring API.
type ScanStatus string

const (
	StatusPending    ScanStatus = "Pending"
	StatusInProgress ScanStatus = "InProgress"
	StatusFinished   ScanStatus = "Finished"
	StatusError      ScanStatus = "Error"
)

// Terminal reports whether polling should stop on this status. Unknown
// values are treated like Pending.
func (s ScanStatus) Terminal() bool {
	return s == StatusFinished || s == StatusError
}

// Phase is the protocol state of one session.
type Phase int

const (
	PhaseUnauthenticated Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
	PhaseSubmitting
	PhaseSubmitted
	PhasePolling
	PhaseFinished
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseUnauthenticated: "unauthenticated",
	PhaseAuthenticating:  "authenticating",
	PhaseAuthenticated:   "authenticated",
	PhaseSubmitting:      "submitting",
	PhaseSubmitted:       "submitted",
	PhasePolling:         "polling",
	PhaseFinished:        "finished",
	PhaseFailed:          "failed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// transitions lists the legal successors of each phase. Failed is
// absorbing and Finished only ends in a terminal callback or Failed.
var transitions = map[Phase][]Phase{
	PhaseUnauthenticated: {PhaseAuthenticating},
	PhaseAuthenticating:  {PhaseAuthenticated, PhaseFailed},
	PhaseAuthenticated:   {PhaseSubmitting},
	PhaseSubmitting:      {PhaseSubmitted, PhaseFailed},
	PhaseSubmitted:       {PhasePolling, PhaseFinished, PhaseFailed},
	PhasePolling:         {PhasePolling, PhaseFinished, PhaseFailed},
	PhaseFinished:        {PhaseFailed},
}

// CanTransition reports whether from -> to is part of the protocol.
func CanTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
