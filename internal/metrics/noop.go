package metrics

// Noop is a Recorder that discards all events.
// Useful as a default until a real backend is wired in.
type Noop struct{}

// NewNoop creates a no-op Recorder.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) IncLoginSuccess()                   {}
func (*Noop) IncLoginFailure()                   {}
func (*Noop) IncRegistration()                   {}
func (*Noop) IncRegistrationRejected(string)     {}
func (*Noop) IncTokenVerified()                  {}
func (*Noop) IncTokenRejected()                  {}
func (*Noop) IncIdentityCacheHit()               {}
func (*Noop) IncIdentityCacheMiss()              {}
