package tcpio

// Segment is a non-owning view over a caller-owned contiguous memory region.
// Creating a segment performs no copy and no allocation. The region must
// outlive any transfer call the segment participates in, and must not be
// mutated concurrently during that call.
type Segment struct {
	p []byte
}

// View wraps a caller-owned byte slice in a Segment.
func View(p []byte) Segment {
	return Segment{p: p}
}

// Len returns the length of the viewed region.
func (s Segment) Len() int {
	return len(s.p)
}

// Bytes returns the viewed region itself, not a copy.
func (s Segment) Bytes() []byte {
	return s.p
}

// Sequence is an ordered collection of segments presented to the transfer
// engine as one logical contiguous region. An empty sequence is legal and
// represents a zero-length transfer. Segments may be appended while the
// sequence is being built; once passed to a transfer operation the sequence
// is treated as closed.
type Sequence struct {
	segs  []Segment
	total int
}

// SequenceOf builds a sequence from the given segments, in order.
func SequenceOf(segs ...Segment) Sequence {
	var q Sequence
	for _, seg := range segs {
		q.Append(seg)
	}

	return q
}

// Append adds a segment to the end of the sequence.
func (q *Sequence) Append(seg Segment) {
	q.segs = append(q.segs, seg)
	q.total += seg.Len()
}

// Len returns the total length of the sequence, the sum of its segment
// lengths.
func (q Sequence) Len() int {
	return q.total
}

// chunk returns the longest contiguous view starting at logical offset off
// into the concatenation of the sequence's segments, or nil when off is at
// or beyond the end. The transfer engine consumes the sequence exclusively
// through this method, so its loop never depends on segment count.
func (q Sequence) chunk(off int) []byte {
	for _, seg := range q.segs {
		if off < len(seg.p) {
			return seg.p[off:]
		}
		off -= len(seg.p)
	}

	return nil
}
