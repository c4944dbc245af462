package asn1codec

/*
bitbuffer.go implements the append-only bit writer and cursor-based bit
reader of §4.3, grounded on thebagchi-asn1c-go/lib/bitbuffer: MSB-first
bit ordering, a fast byte-aligned path via encoding/binary, a slow
bit-packed path for everything else, and lazy offset advancement to
avoid slicing the buffer on every partial-byte operation.

Unlike the teacher's single dual-purpose Codec type, the writer and
reader are split in two: §4.3 gives them genuinely different contracts
(append vs. peek/cursor), and PER/OER never need both roles on the same
buffer within one call.
*/

import (
	"encoding/binary"

	"golang.org/x/exp/slices"
)

const bitsPerByte = 8

/*
BitWriter is an append-only, MSB-first bit sink. The zero value is ready
to use.
*/
type BitWriter struct {
	buf    []byte
	offset uint8 // bits already consumed in the last byte of buf; 8 means "full, ready for next"
	bits   uint64
}

// NewBitWriter returns a [BitWriter] with its internal buffer
// pre-allocated to reduce early reallocation.
func NewBitWriter() *BitWriter {
	return &BitWriter{buf: make([]byte, 0, 64)}
}

// CurrentBitPosition returns the number of bits written so far.
func (w *BitWriter) CurrentBitPosition() int64 { return int64(w.bits) }

func (w *BitWriter) grow(n int) {
	if cap(w.buf) < len(w.buf)+n {
		capacity := max(cap(w.buf)*2, len(w.buf)+n)
		w.buf = slices.Grow(w.buf, capacity-len(w.buf))
	}
	w.buf = w.buf[:len(w.buf)+n]
}

// AppendBit appends a single bit, 0 or 1 taken from the low bit of v.
func (w *BitWriter) AppendBit(v uint8) error { return w.AppendBits(uint64(v&1), 1) }

// AppendBits appends the low n bits of v (n in [0, 64]), most significant
// of the n bits first.
func (w *BitWriter) AppendBits(v uint64, n uint8) error {
	if n == 0 {
		return nil
	}
	if n > 64 {
		return newStructuralErrorf(ErrInvalidLength, "bit count %d exceeds 64", n)
	}
	if n < 64 {
		v &= (uint64(1) << n) - 1
	}

	if len(w.buf) == 0 || w.offset == 8 {
		if w.offset == 8 {
			w.offset = 0
		}
		nbytes := (int(n) + 7) / 8
		remainder := n % 8
		var tmp [8]byte
		shift := uint(64 - n)
		if n == 64 {
			binary.BigEndian.PutUint64(tmp[:], v)
		} else {
			binary.BigEndian.PutUint64(tmp[:], v<<shift)
		}
		w.buf = append(w.buf, tmp[:nbytes]...)
		w.offset = remainder
		if w.offset == 0 {
			w.offset = 8
		}
		w.bits += uint64(n)
		return nil
	}

	pending := n
	for pending > 0 {
		if w.offset == 8 {
			w.grow(1)
			w.offset = 0
		}
		available := 8 - w.offset
		take := pending
		if take > available {
			take = available
		}
		remaining := pending - take
		chunk := uint8(v>>remaining) & ((1 << take) - 1)
		shift := available - take
		pos := len(w.buf) - 1
		w.buf[pos] |= chunk << shift
		w.offset += take
		pending -= take
	}
	w.bits += uint64(n)
	return nil
}

// AppendBytes appends whole octets, continuing from the current bit
// offset. Does not force alignment first; callers needing octet-aligned
// content must call [BitWriter.AlignToByte].
func (w *BitWriter) AppendBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if len(w.buf) == 0 || w.offset == 8 {
		w.buf = append(w.buf, data...)
		w.offset = 8
		w.bits += uint64(len(data)) * 8
		return nil
	}
	for _, b := range data {
		if err := w.AppendBits(uint64(b), 8); err != nil {
			return err
		}
	}
	return nil
}

// AlignToByte pads with zero bits up to the next octet boundary. A no-op
// if already aligned.
func (w *BitWriter) AlignToByte() {
	if w.offset > 0 && w.offset < 8 {
		w.bits += uint64(8 - w.offset)
		w.offset = 8
	}
}

// Bytes returns the written data, including a zero-padded trailing
// partial byte if the total bit count is not a multiple of 8.
func (w *BitWriter) Bytes() []byte {
	if w.bits == 0 {
		return nil
	}
	return w.buf
}

// AppendWriter appends every bit written to src onto w, preserving a
// non-byte-aligned tail. Used by constructed-type encoders to splice a
// scratch buffer (built to assemble a preamble before its body, or an
// open type before its length) onto the parent stream.
func (w *BitWriter) AppendWriter(src *BitWriter) error {
	total := src.CurrentBitPosition()
	if total == 0 {
		return nil
	}
	r := NewBitReader(src.Bytes(), false)
	for total > 0 {
		n := uint8(64)
		if total < 64 {
			n = uint8(total)
		}
		v, err := r.ReadBits(n)
		if err != nil {
			return err
		}
		if err := w.AppendBits(v, n); err != nil {
			return err
		}
		total -= int64(n)
	}
	return nil
}

/*
BitReader is a cursor-based, MSB-first bit source over a borrowed byte
slice. The reader never mutates or retains ownership of data beyond the
lifetime of the decode call that created it.
*/
type BitReader struct {
	buf    []byte
	offset uint8
	read   uint64
	strict bool
}

// NewBitReader returns a [BitReader] over data. strict governs whether
// [BitReader.AlignToByte] rejects non-zero padding bits (§4.3 "The reader
// enforces that padding bits required to be zero are zero in
// strict/canonical modes").
func NewBitReader(data []byte, strict bool) *BitReader {
	return &BitReader{buf: data, strict: strict}
}

// Position returns the number of bits consumed so far.
func (r *BitReader) Position() int64 { return int64(r.read) }

// RemainingBits returns the number of bits left unread.
func (r *BitReader) RemainingBits() int64 {
	if r.offset == 8 {
		// Lazy advancement: buf[0] is fully consumed but not yet sliced off.
		return int64(len(r.buf)-1) * 8
	}
	return int64(len(r.buf))*8 - int64(r.offset)
}

func (r *BitReader) advanceIfFull() error {
	if r.offset == 8 {
		if len(r.buf) == 0 {
			return newStructuralErrorf(ErrUnexpectedEOF, "unexpected end of data")
		}
		r.buf = r.buf[1:]
		r.offset = 0
	}
	return nil
}

// PeekBits returns the next n bits without consuming them.
func (r *BitReader) PeekBits(n uint8) (uint64, error) {
	save := *r
	v, err := r.ReadBits(n)
	*r = save
	return v, err
}

// ReadBits reads and consumes the next n bits (n in [0, 64]).
func (r *BitReader) ReadBits(n uint8) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if n > 64 {
		return 0, newStructuralErrorf(ErrInvalidLength, "bit count %d exceeds 64", n)
	}
	if err := r.advanceIfFull(); err != nil {
		return 0, err
	}
	if len(r.buf) == 0 {
		return 0, newStructuralErrorf(ErrUnexpectedEOF, "unexpected end of data")
	}

	if r.offset == 0 {
		nbytes := (int(n) + 7) / 8
		if nbytes <= len(r.buf) {
			var tmp [8]byte
			copy(tmp[:nbytes], r.buf[:nbytes])
			result := binary.BigEndian.Uint64(tmp[:]) >> (64 - n)
			remainder := n % 8
			r.buf = r.buf[nbytes-1:]
			if remainder == 0 {
				r.offset = 8
			} else {
				r.offset = remainder
			}
			r.read += uint64(n)
			return result, nil
		}
	}

	var result uint64
	pending := n
	for pending > 0 {
		if err := r.advanceIfFull(); err != nil {
			return 0, err
		}
		if len(r.buf) == 0 {
			return 0, newStructuralErrorf(ErrUnexpectedEOF, "unexpected end of data")
		}
		remaining := 8 - r.offset
		take := pending
		if take > remaining {
			take = remaining
		}
		shift := remaining - take
		mask := uint8((1 << take) - 1)
		bits := uint64((r.buf[0] >> shift) & mask)
		result = (result << take) | bits
		r.offset += take
		pending -= take
	}
	r.read += uint64(n)
	return result, nil
}

// ReadBytes reads exactly n full octets, continuing from the current bit
// offset.
func (r *BitReader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if r.offset == 0 || r.offset == 8 {
		if err := r.advanceIfFull(); err != nil {
			return nil, err
		}
		if len(r.buf) < n {
			return nil, newStructuralErrorf(ErrUnexpectedEOF, "need %d bytes, have %d", n, len(r.buf))
		}
		out := make([]byte, n)
		copy(out, r.buf[:n])
		r.buf = r.buf[n:]
		r.read += uint64(n) * 8
		return out, nil
	}
	out := make([]byte, n)
	for i := range out {
		v, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}
		out[i] = uint8(v)
	}
	return out, nil
}

// AlignToByte skips to the next octet boundary. In strict mode, returns
// an error if any skipped bit was non-zero.
func (r *BitReader) AlignToByte() error {
	if r.offset == 0 || r.offset == 8 {
		return nil
	}
	remaining := 8 - r.offset
	if r.strict {
		v, err := r.ReadBits(remaining)
		if err != nil {
			return err
		}
		if v != 0 {
			return newStructuralErrorf(ErrNonZeroPadding, "non-zero padding bits")
		}
		return nil
	}
	_, err := r.ReadBits(remaining)
	return err
}
