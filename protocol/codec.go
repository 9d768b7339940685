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

package protocol

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/hardware/joypad"
	"github.com/jetsetilly/gopherlink/userinput"
)

// List of error patterns returned by Read() and Write().
const (
	ShortRead        = "protocol: short read: %v"
	MalformedMessage = "protocol: malformed message: %v"
	UnknownCommand   = "protocol: unknown command: %#02x"
	ReadError        = "protocol: read: %v"
	WriteError       = "protocol: write: %v"
)

// Encode the message as it is sent on the wire.
func Encode(m Message) ([]byte, error) {
	b := []byte{m.Command()}

	switch m := m.(type) {
	case PeerLoaded:
		if len(m.ROM) > MaxROMSize || len(m.Battery) > MaxBatterySize {
			return nil, curated.Errorf(MalformedMessage, "cartridge data too large")
		}
		b = binary.BigEndian.AppendUint32(b, uint32(len(m.ROM)))
		b = binary.BigEndian.AppendUint32(b, uint32(len(m.Battery)))
		b = append(b, m.ROM...)
		b = append(b, m.Battery...)

	case Sync:
		if m.Frame > math.MaxInt64 {
			return nil, curated.Errorf(MalformedMessage, "frame number out of range")
		}
		b = binary.BigEndian.AppendUint64(b, m.Frame)
		b = append(b, uint8(len(m.Input.Pressed)), uint8(len(m.Input.Released)))
		for _, id := range m.Input.Pressed {
			b = append(b, uint8(id))
		}
		for _, id := range m.Input.Released {
			b = append(b, uint8(id))
		}

	case Reset, Stop, Pause, Resume:

	default:
		return nil, curated.Errorf(MalformedMessage, curated.Errorf("unsupported message type %T", m))
	}

	return b, nil
}

// Write the message to the io.Writer.
func Write(w io.Writer, m Message) error {
	b, err := Encode(m)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return curated.Errorf(WriteError, err)
	}
	return nil
}

// read exactly len(b) bytes of payload
func readPayload(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return curated.Errorf(ShortRead, io.ErrUnexpectedEOF)
		}
		return curated.Errorf(ReadError, err)
	}
	return nil
}

// Read the next message from the io.Reader.
//
// An io.EOF at a message boundary is returned wrapped in a ReadError. The end
// of the stream part way through a message is a ShortRead. An unrecognised
// command byte results in an UnknownCommand error. The stream is still usable
// after an UnknownCommand error.
func Read(r io.Reader) (Message, error) {
	var cmd [1]byte
	if _, err := io.ReadFull(r, cmd[:]); err != nil {
		return nil, curated.Errorf(ReadError, err)
	}

	switch cmd[0] {
	case CmdPeerLoaded:
		var hdr [8]byte
		if err := readPayload(r, hdr[:]); err != nil {
			return nil, err
		}
		romLen := binary.BigEndian.Uint32(hdr[0:4])
		batLen := binary.BigEndian.Uint32(hdr[4:8])
		if romLen > MaxROMSize {
			return nil, curated.Errorf(MalformedMessage, curated.Errorf("ROM size of %d is too large", romLen))
		}
		if batLen > MaxBatterySize {
			return nil, curated.Errorf(MalformedMessage, curated.Errorf("battery size of %d is too large", batLen))
		}
		data := make([]byte, romLen+batLen)
		if err := readPayload(r, data); err != nil {
			return nil, err
		}
		m := PeerLoaded{ROM: data[:romLen]}
		if batLen > 0 {
			m.Battery = data[romLen:]
		}
		return m, nil

	case CmdSync:
		var hdr [10]byte
		if err := readPayload(r, hdr[:]); err != nil {
			return nil, err
		}
		frame := int64(binary.BigEndian.Uint64(hdr[0:8]))
		if frame < 0 {
			return nil, curated.Errorf(MalformedMessage, curated.Errorf("negative frame number (%d)", frame))
		}
		np := int(hdr[8])
		nr := int(hdr[9])
		if np > int(joypad.NumButtons) || nr > int(joypad.NumButtons) {
			return nil, curated.Errorf(MalformedMessage, "too many buttons")
		}
		ids := make([]byte, np+nr)
		if err := readPayload(r, ids); err != nil {
			return nil, err
		}
		buttons := make([]joypad.Button, len(ids))
		for i, id := range ids {
			b := joypad.Button(id)
			if !b.Valid() {
				return nil, curated.Errorf(MalformedMessage, curated.Errorf("button id %d", id))
			}
			buttons[i] = b
		}
		return Sync{
			Frame: uint64(frame),
			Input: userinput.NewInput(buttons[:np], buttons[np:]),
		}, nil

	case CmdReset:
		return Reset{}, nil
	case CmdStop:
		return Stop{}, nil
	case CmdPause:
		return Pause{}, nil
	case CmdResume:
		return Resume{}, nil
	}

	return nil, curated.Errorf(UnknownCommand, cmd[0])
}
