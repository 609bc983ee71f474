package sampler

// State is the lifecycle phase of a Loop.
type State int32

const (
	StateInitializing State = iota
	StateSampling
	StateDraining
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateSampling:
		return "sampling"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// StopReason tells why a run ended.
type StopReason int

const (
	// StopDurationReached means the configured limit elapsed.
	StopDurationReached StopReason = iota + 1
	// StopInterrupted means the context was canceled (signal or quit key).
	StopInterrupted
	// StopTooManyFailures means MaxFailures consecutive ticks failed.
	StopTooManyFailures
	// StopSinkFailed means the sink returned a fatal error.
	StopSinkFailed
)

func (r StopReason) String() string {
	switch r {
	case StopDurationReached:
		return "duration reached"
	case StopInterrupted:
		return "interrupted"
	case StopTooManyFailures:
		return "too many failures"
	case StopSinkFailed:
		return "sink failed"
	default:
		return "running"
	}
}
