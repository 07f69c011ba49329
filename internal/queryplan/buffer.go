package queryplan

import "fmt"

// initialCap and maxCap bound the growable SQL text buffer per spec.md
// §4.9: it doubles on demand from an 8 KiB starting point and fails loudly
// rather than truncating once it would exceed 100 MiB.
const (
	initialCap = 8 * 1024
	maxCap     = 100 * 1024 * 1024
)

// buffer is a doubling byte buffer with a hard cap, mirroring the record
// buffer's Init/grow-on-demand discipline (internal/recordbuf) applied to
// SQL text instead of records.
type buffer struct {
	b []byte
}

func newBuffer() *buffer {
	return &buffer{b: make([]byte, 0, initialCap)}
}

func (buf *buffer) WriteString(s string) error {
	needed := len(buf.b) + len(s)
	if needed > maxCap {
		return fmt.Errorf("queryplan: generated SQL exceeds %d byte cap", maxCap)
	}
	if needed > cap(buf.b) {
		newCap := cap(buf.b)
		if newCap == 0 {
			newCap = initialCap
		}
		for newCap < needed {
			newCap *= 2
		}
		if newCap > maxCap {
			newCap = maxCap
		}
		grown := make([]byte, len(buf.b), newCap)
		copy(grown, buf.b)
		buf.b = grown
	}
	buf.b = append(buf.b, s...)
	return nil
}

func (buf *buffer) String() string { return string(buf.b) }
