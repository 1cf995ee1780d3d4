package plagiarism

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the working state of one in-flight check. It is owned by the
// goroutine running the check and never shared.
type Session struct {
	ScanID    string
	Phase     Phase
	Status    ScanStatus
	CreatedAt time.Time
	Polls     int

	token string
}

func newSession(now time.Time) *Session {
	return &Session{
		Phase:     PhaseUnauthenticated,
		Status:    StatusPending,
		CreatedAt: now,
	}
}

// advance moves the session to the next phase. An illegal transition is a
// bug in the checker and panics; Start turns the panic into an error.
func (s *Session) advance(to Phase) {
	if !CanTransition(s.Phase, to) {
		panic(fmt.Sprintf("illegal phase transition %s -> %s", s.Phase, to))
	}
	s.Phase = to
}

// mintScanID assigns a fresh upstream scan identifier.
func (s *Session) mintScanID() {
	s.ScanID = uuid.NewString()
}

// close drops the access token.
func (s *Session) close() {
	s.token = ""
}
