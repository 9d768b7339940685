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

// Package hardware defines the Machine interface, the contract between the
// rollback engine and a console emulation. The engine only ever ticks,
// snapshots and restores a machine, and forwards button events to it.
//
// The Console type is the reference implementation of a Machine. It is a
// small deterministic console with a joypad, a block of work RAM and a serial
// port. Every 256 cycles the console places a value on the serial port and
// exchanges it with the console at the other end of the link cable.
//
// The master console clocks a bit on every eighth cycle. The slave collects
// pending bits half way between the master's clocks. The order in which two
// linked consoles are ticked within a single cycle is therefore unimportant,
// which means that two hosts ticking the same pair of consoles in a different
// order will see the same result.
package hardware
