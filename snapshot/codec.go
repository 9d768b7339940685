// This file is part of Gopherlink.
//
// Gopherlink is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopherlink is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopherlink.  If not, see <https://www.gnu.org/licenses/>.

package snapshot

import (
	"encoding/binary"

	"github.com/jetsetilly/gopherlink/curated"
)

// Encoder builds the body of a snapshot. Values are written little endian.
type Encoder struct {
	kind Kind
	body []byte
}

// NewEncoder is the preferred method of initialisation for the Encoder type.
func NewEncoder(kind Kind) *Encoder {
	return &Encoder{kind: kind, body: make([]byte, 0, 128)}
}

func (e *Encoder) Uint8(v uint8) {
	e.body = append(e.body, v)
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.body = append(e.body, 1)
	} else {
		e.body = append(e.body, 0)
	}
}

func (e *Encoder) Uint16(v uint16) {
	e.body = binary.LittleEndian.AppendUint16(e.body, v)
}

func (e *Encoder) Uint32(v uint32) {
	e.body = binary.LittleEndian.AppendUint32(e.body, v)
}

func (e *Encoder) Uint64(v uint64) {
	e.body = binary.LittleEndian.AppendUint64(e.body, v)
}

func (e *Encoder) Int32(v int32) {
	e.Uint32(uint32(v))
}

// Bytes writes a length prefixed byte slice.
func (e *Encoder) Bytes(b []byte) {
	e.Uint32(uint32(len(b)))
	e.body = append(e.body, b...)
}

// Snapshot seals the encoded body.
func (e *Encoder) Snapshot() Snapshot {
	return Seal(e.kind, e.body)
}

// Decoder reads the body of a snapshot in the same order it was written by
// the Encoder. The first error is sticky and is returned by Err(). Reads after
// an error return zero values.
type Decoder struct {
	body []byte
	err  error
}

// NewDecoder opens the snapshot and prepares it for reading.
func NewDecoder(s Snapshot, kind Kind) (*Decoder, error) {
	body, err := Open(s, kind)
	if err != nil {
		return nil, err
	}
	return &Decoder{body: body}, nil
}

func (d *Decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.body) < n {
		d.err = curated.Errorf(InvalidSnapshot, "truncated body")
		return nil
	}
	b := d.body[:n]
	d.body = d.body[n:]
	return b
}

func (d *Decoder) Uint8() uint8 {
	if b := d.next(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *Decoder) Bool() bool {
	return d.Uint8() != 0
}

func (d *Decoder) Uint16() uint16 {
	if b := d.next(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (d *Decoder) Uint32() uint32 {
	if b := d.next(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *Decoder) Uint64() uint64 {
	if b := d.next(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (d *Decoder) Int32() int32 {
	return int32(d.Uint32())
}

// Bytes reads a length prefixed byte slice. The returned slice is a copy.
func (d *Decoder) Bytes() []byte {
	n := d.Uint32()
	b := d.next(int(n))
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// Err returns the first error encountered. It is also an error for any of the
// body to remain unread.
func (d *Decoder) Err() error {
	if d.err == nil && len(d.body) > 0 {
		return curated.Errorf(InvalidSnapshot, "unread data in body")
	}
	return d.err
}
