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

// Package snapshot defines the Snapshot type, the opaque and versioned byte
// blob that every deterministic component of the emulation can save itself to
// and restore itself from.
//
// A snapshot starts with a small header:
//
//	magic (4) + version (2) + kind (1) + crc32 of body (4)
//
// The header is checked when the snapshot is opened. A snapshot of the wrong
// kind, of a different version or with a body that fails the checksum is
// rejected with an InvalidSnapshot error.
//
// The Encoder and Decoder types help with the writing and reading of the body.
package snapshot

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/jetsetilly/gopherlink/curated"
)

// InvalidSnapshot is the error pattern for snapshots that cannot be restored.
const InvalidSnapshot = "snapshot: %v"

// Snapshot is a serialised copy of a component's state. Snapshots are values
// and must not be modified once created.
type Snapshot []byte

// Snapshottable is implemented by components that can save and restore their
// entire state.
//
// Restore(Save()) followed by identical inputs must produce identical
// behaviour and identical future snapshots.
type Snapshottable interface {
	Save() (Snapshot, error)
	Restore(Snapshot) error
}

// Kind identifies what type of component created the snapshot.
type Kind uint8

// List of valid Kind values.
const (
	KindConsole Kind = iota + 1
	KindSerial
)

func (k Kind) String() string {
	switch k {
	case KindConsole:
		return "console"
	case KindSerial:
		return "serial"
	}
	return "unknown"
}

const (
	magic      = "GLSS"
	version    = 1
	headerSize = 11
)

// Seal wraps the body with a snapshot header.
func Seal(kind Kind, body []byte) Snapshot {
	s := make([]byte, headerSize, headerSize+len(body))
	copy(s[0:4], magic)
	binary.LittleEndian.PutUint16(s[4:6], version)
	s[6] = byte(kind)
	binary.LittleEndian.PutUint32(s[7:11], crc32.ChecksumIEEE(body))
	return append(s, body...)
}

// Open checks the snapshot header and returns the body.
func Open(s Snapshot, kind Kind) ([]byte, error) {
	if len(s) < headerSize {
		return nil, curated.Errorf(InvalidSnapshot, "too short")
	}
	if string(s[0:4]) != magic {
		return nil, curated.Errorf(InvalidSnapshot, "not a snapshot")
	}
	if v := binary.LittleEndian.Uint16(s[4:6]); v != version {
		return nil, curated.Errorf(InvalidSnapshot, curated.Errorf("unsupported version (%d)", v))
	}
	if k := Kind(s[6]); k != kind {
		return nil, curated.Errorf(InvalidSnapshot, curated.Errorf("wrong kind (%s, wanted %s)", k, kind))
	}
	body := s[headerSize:]
	if binary.LittleEndian.Uint32(s[7:11]) != crc32.ChecksumIEEE(body) {
		return nil, curated.Errorf(InvalidSnapshot, "checksum failed")
	}
	return body, nil
}
