package progress

import "io"

///////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// readChunk is the number of bytes read between successive emissions.
const readChunk int64 = 64 * 1024 // 64 KiB

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Reader wraps an io.Reader and calls emit after every 64 KiB read, and
// once more when the declared total has been reached.
type Reader struct {
	r       io.Reader
	written int64
	emitted int64
	total   int64 // declared size, 0 if unknown
	emit    func(written, total int64)
}

var _ io.Reader = (*Reader)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewReader(r io.Reader, total int64, emit func(written, total int64)) *Reader {
	return &Reader{r: r, total: total, emit: emit}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Written returns the number of bytes read so far
func (p *Reader) Written() int64 {
	return p.written
}

func (p *Reader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.written += int64(n)
		if p.written-p.emitted >= readChunk || (p.total > 0 && p.written >= p.total && p.emitted < p.written) {
			p.emitted = p.written
			p.emit(p.written, p.total)
		}
	}
	return n, err
}
