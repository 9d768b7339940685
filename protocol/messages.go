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
	"fmt"

	"github.com/jetsetilly/gopherlink/userinput"
)

// List of command bytes.
const (
	CmdPeerLoaded byte = 0x01
	CmdSync       byte = 0x03
	CmdReset      byte = 0x06
	CmdStop       byte = 0x07
	CmdPause      byte = 0x08
	CmdResume     byte = 0x09
)

// MaxROMSize is the largest ROM that will be accepted from the peer.
const MaxROMSize = 8 * 1024 * 1024

// MaxBatterySize is the largest battery that will be accepted from the peer.
const MaxBatterySize = 128 * 1024

// Message is implemented by all the message types.
type Message interface {
	Command() byte
}

// PeerLoaded is sent when a game is loaded. It carries everything the peer
// needs to create a copy of the local machine.
type PeerLoaded struct {
	ROM     []byte
	Battery []byte
}

// Sync carries the input applied to the local machine at the start of a frame.
type Sync struct {
	Frame uint64
	Input userinput.Input
}

// Reset is sent after a Sync for the frame at which the local machine was
// reset.
type Reset struct{}

// Stop is sent when the local machine is stopped.
type Stop struct{}

// Pause is sent when the session is paused.
type Pause struct{}

// Resume is sent when the session is resumed.
type Resume struct{}

// Command implements the Message interface.
func (PeerLoaded) Command() byte { return CmdPeerLoaded }

// Command implements the Message interface.
func (Sync) Command() byte { return CmdSync }

// Command implements the Message interface.
func (Reset) Command() byte { return CmdReset }

// Command implements the Message interface.
func (Stop) Command() byte { return CmdStop }

// Command implements the Message interface.
func (Pause) Command() byte { return CmdPause }

// Command implements the Message interface.
func (Resume) Command() byte { return CmdResume }

func (m PeerLoaded) String() string {
	return fmt.Sprintf("peer loaded: rom %d bytes, battery %d bytes", len(m.ROM), len(m.Battery))
}

func (m Sync) String() string {
	return fmt.Sprintf("sync: frame %d: %s", m.Frame, m.Input)
}

func (Reset) String() string  { return "reset" }
func (Stop) String() string   { return "stop" }
func (Pause) String() string  { return "pause" }
func (Resume) String() string { return "resume" }
