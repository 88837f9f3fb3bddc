package marshal

// clone copies an optional value so the domain object and the envelope never
// share storage. nil stays nil.
func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// present returns v as an optional value when the wire presence bit is set.
func present[T any](has bool, v T) *T {
	if !has {
		return nil
	}
	return &v
}

// writeList copies an outbound sequence. A nil sequence is absent and stays
// nil; an empty one is written as empty.
func writeList(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// readList copies an inbound sequence. The result is never nil.
func readList(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}
