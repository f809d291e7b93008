// Package stream turns a raw byte stream into a pull sequence of decoded
// text fragments, one fragment per underlying read.
package stream

import (
	"errors"
	"io"
	"sync"
	"unicode/utf8"
)

const readBufferSize = 4096

// Decoder wraps a byte-producing reader and yields UTF-8 text fragments.
// The reader is consumed exactly once and is not restartable. Bytes of a
// rune split across two reads are held back until the rune completes, so a
// fragment never ends mid-rune.
//
// Usage follows the Recv/Close shape of streaming model SDKs:
//
//	dec := stream.NewDecoder(resp.Body)
//	defer dec.Close()
//	for {
//		frag, err := dec.Next()
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		...
//	}
type Decoder struct {
	r       io.ReadCloser
	buf     []byte
	pending []byte
	stashed error
	done    bool

	closeOnce sync.Once
	closeErr  error
}

// NewDecoder wraps r. The caller must ensure Close is reached on every exit
// path; Next closes the reader itself when the stream ends or a read fails,
// and Close is idempotent, so "defer dec.Close()" is always safe.
func NewDecoder(r io.ReadCloser) *Decoder {
	return &Decoder{r: r, buf: make([]byte, readBufferSize)}
}

// Next returns the next decoded fragment. It returns io.EOF once the
// underlying stream is exhausted and propagates any other read error
// unchanged. When a read delivers bytes and an error together, the bytes are
// returned first and the error is surfaced on the following call.
func (d *Decoder) Next() (string, error) {
	if d.stashed != nil {
		err := d.stashed
		d.stashed = nil
		return "", err
	}
	if d.done {
		return "", io.EOF
	}

	for {
		n, err := d.r.Read(d.buf)

		var frag string
		if n > 0 {
			data := append(d.pending, d.buf[:n]...)
			cut := completePrefixLen(data)
			frag = string(data[:cut])
			d.pending = append([]byte(nil), data[cut:]...)
		}

		if err != nil {
			d.done = true
			_ = d.Close()

			if errors.Is(err, io.EOF) {
				// Flush any held-back bytes; at this point they can
				// no longer be completed, decode them as-is.
				if len(d.pending) > 0 {
					frag += string(d.pending)
					d.pending = nil
				}
				if frag != "" {
					return frag, nil
				}
				return "", io.EOF
			}

			if frag != "" {
				d.stashed = err
				return frag, nil
			}
			return "", err
		}

		if frag != "" {
			return frag, nil
		}
		// Zero-byte read or only a partial rune arrived; keep pulling.
	}
}

// Close releases the underlying reader. It is safe to call any number of
// times and from any exit path; the reader's Close runs exactly once.
func (d *Decoder) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.r.Close()
	})
	return d.closeErr
}

// completePrefixLen returns the length of the longest prefix of p that does
// not end in the middle of a UTF-8 sequence.
func completePrefixLen(p []byte) int {
	n := len(p)
	for i := 1; i <= utf8.UTFMax && i <= n; i++ {
		b := p[n-i]
		if b < utf8.RuneSelf {
			// ASCII boundary; anything after it is not a rune start
			// and will be decoded leniently.
			return n
		}
		if utf8.RuneStart(b) {
			if utf8.FullRune(p[n-i:]) {
				return n
			}
			return n - i
		}
	}
	return n
}
