package chunk

// Span is a half-open [Start, End) range of record indexes.
type Span struct {
	Start int
	End   int
}

// Len returns the number of records in the span.
func (s Span) Len() int { return s.End - s.Start }

// SplitChunks divides n records into contiguous spans of at most size
// records, preserving order. n <= size yields a single span.
func SplitChunks(n, size int) []Span {
	if n <= 0 {
		return nil
	}
	if size <= 0 || n <= size {
		return []Span{{Start: 0, End: n}}
	}
	spans := make([]Span, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		spans = append(spans, Span{Start: start, End: min(start+size, n)})
	}
	return spans
}
