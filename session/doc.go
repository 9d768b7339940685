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

// Package session runs the emulation. There are two kinds of session.
//
// Basic runs a single machine with input from the local user. It supports
// save-state slots.
//
// Linked runs the local (main) machine and a copy of the remote user's (peer)
// machine with their serial ports connected. Input from the local user is
// applied immediately and sent to the peer. Input from the peer arrives late
// and is merged into the rewind history at the next frame boundary, at which
// point both machines are restored from the corrected head of the history.
// Because the peer is running the same pair of machines with the roles
// swapped, both sides arrive at the same result.
//
// The Controller type owns whichever session is current. All changes to the
// session happen on the controller's goroutine, between frames.
package session
