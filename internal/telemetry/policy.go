package telemetry

// Policy ranks messages for flush-time overflow resolution. Lower rank wins
// a buffer slot. The ordering over kinds is configuration, not a constant:
// whether logs outrank sensor readings is a per-deployment decision.
type Policy struct {
	ranks map[Kind]int
	// LogErrorFirst promotes Error-severity logs above all other logs,
	// mirroring the firmware's send comparator.
	LogErrorFirst bool
}

// NewPolicy builds a Policy from an ordered kind list, highest priority
// first. Kinds missing from the list rank below all listed ones.
func NewPolicy(order []Kind, logErrorFirst bool) Policy {
	ranks := make(map[Kind]int, len(order))
	for i, k := range order {
		ranks[k] = i
	}
	return Policy{ranks: ranks, LogErrorFirst: logErrorFirst}
}

// DefaultPolicy orders logs above sensor data, with Error logs first.
func DefaultPolicy() Policy {
	return NewPolicy([]Kind{KindLog, KindSensorData}, true)
}

// Rank returns the priority rank of m; lower is more important. Listed
// kinds get even base ranks so the error-log refinement can slot between
// a kind and its successor without reordering across kinds.
func (p Policy) Rank(m Message) int {
	base, ok := p.ranks[m.Kind]
	if !ok {
		return 2 * (len(p.ranks) + 1)
	}
	rank := 2 * base
	if p.LogErrorFirst && m.Kind == KindLog && (m.Log == nil || m.Log.Severity != SeverityError) {
		rank++
	}
	return rank
}
