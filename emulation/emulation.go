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

// Package emulation defines the states and modes of an emulation session.
// Exists mainly to avoid circular imports between the session package and the
// packages that observe a session.
package emulation

// Mode indicates the broad features of the emulation.
type Mode int

// List of defined modes.
const (
	ModeNone Mode = iota

	// a single machine with no link cable
	ModeStandalone

	// a local machine linked to a copy of the peer's machine
	ModeLinked
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeStandalone:
		return "standalone"
	case ModeLinked:
		return "linked"
	}
	return "unknown"
}

// State indicates the emulation's state.
type State int

// List of possible emulation states.
//
// Values are ordered so that order comparisons are meaningful. For example,
// Running is "greater than" Paused.
const (
	Stopped State = iota
	Paused
	Running
	Ending
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Ending:
		return "ending"
	}
	return "unknown"
}
