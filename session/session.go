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

package session

import (
	"github.com/jetsetilly/gopherlink/emulation"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/protocol"
)

// List of error patterns.
const (
	SessionError = "session: %v"

	// the session could not send a message to the peer. the controller
	// responds by falling back to a basic session
	LinkError = "session: link: %v"
)

// Sender is the outgoing half of the link to the peer. The protocol.Connection
// type implements the interface.
type Sender interface {
	Send(protocol.Message) error
}

// Session is implemented by the Basic and Linked types.
type Session interface {
	Mode() emulation.Mode

	// run the session until the start of the next frame
	RunFrame() error

	// the number of the current frame
	Frame() uint64

	// the machine being played by the local user
	Main() hardware.Machine
	Cartridge() *hardware.Cartridge

	// reset the main machine at the next frame boundary
	Reset()
}
