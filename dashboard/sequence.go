// ABOUTME: Per-operation request sequencing so only the latest issued fetch of each kind may update state.
// ABOUTME: Older completions that arrive late are reported stale and dropped by the controller.
package dashboard

// Kind names a logical fetch operation.
type Kind int

const (
	KindOverview Kind = iota
	KindCalls
	KindDetail
)

func (k Kind) String() string {
	switch k {
	case KindOverview:
		return "overview"
	case KindCalls:
		return "calls"
	case KindDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Sequencer hands out monotonically increasing tickets per Kind. It is owned
// by the UI loop and is not safe for concurrent use.
type Sequencer struct {
	latest map[Kind]uint64
}

// NewSequencer returns a Sequencer with no tickets issued.
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[Kind]uint64)}
}

// Next issues a new ticket for kind, superseding every earlier one.
func (s *Sequencer) Next(kind Kind) uint64 {
	s.latest[kind]++
	return s.latest[kind]
}

// Current reports whether seq is the most recent ticket issued for kind.
func (s *Sequencer) Current(kind Kind, seq uint64) bool {
	return seq != 0 && s.latest[kind] == seq
}

// Latest returns the most recent ticket for kind (0 if none).
func (s *Sequencer) Latest(kind Kind) uint64 {
	return s.latest[kind]
}
