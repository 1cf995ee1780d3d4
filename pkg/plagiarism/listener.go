package plagiarism

// Listener receives the terminal outcome of CheckPlagiarism. Exactly one
// of its methods is called, exactly once, from a goroutine owned by the
// checker.
type Listener interface {
	OnCheckCompleted(percentage float64, allowed bool)
	OnError(message string)
}

// ListenerFuncs adapts two functions to Listener. Nil functions are
// skipped.
type ListenerFuncs struct {
	Completed func(percentage float64, allowed bool)
	Failed    func(message string)
}

func (l ListenerFuncs) OnCheckCompleted(percentage float64, allowed bool) {
	if l.Completed != nil {
		l.Completed(percentage, allowed)
	}
}

func (l ListenerFuncs) OnError(message string) {
	if l.Failed != nil {
		l.Failed(message)
	}
}
