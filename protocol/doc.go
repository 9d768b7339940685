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

// Package protocol implements the messages exchanged by two linked hosts and
// the connection that carries them.
//
// Each message starts with a single command byte. Integers in the payload are
// big endian.
//
//	0x01 peer loaded   u32 romLen, u32 batteryLen, rom, battery
//	0x03 sync          i64 frame, u8 nPressed, u8 nReleased, button ids
//	0x06 reset
//	0x07 stop
//	0x08 pause
//	0x09 resume
//
// A sync message is sent whenever the local input changes and at regular
// intervals otherwise. The peer uses it to correct its copy of the local
// machine.
//
// The transport is assumed to be reliable and ordered. Any read error ends
// the connection.
package protocol
