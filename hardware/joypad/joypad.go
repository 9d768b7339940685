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

// Package joypad defines the buttons of the console's joypad and keeps track
// of which of them are currently held.
package joypad

import (
	"fmt"
	"strings"
)

// Button identifies one of the eight joypad buttons. The numeric value of a
// Button is its identifier on the network.
type Button uint8

// List of valid Button values.
const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start

	// the number of buttons on the joypad
	NumButtons
)

func (b Button) String() string {
	switch b {
	case Right:
		return "RIGHT"
	case Left:
		return "LEFT"
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case A:
		return "A"
	case B:
		return "B"
	case Select:
		return "SELECT"
	case Start:
		return "START"
	}
	return fmt.Sprintf("button(%d)", uint8(b))
}

// Valid returns false if the value is not a known button.
func (b Button) Valid() bool {
	return b < NumButtons
}

// ParseButton returns the button with the given name. Case insensitive.
func ParseButton(s string) (Button, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for b := Right; b < NumButtons; b++ {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("joypad: unknown button (%s)", s)
}

// Joypad records which buttons are held. The zero value has no buttons held.
type Joypad struct {
	held uint8
}

// Press the button. Returns true if the button was not already held.
func (j *Joypad) Press(b Button) bool {
	if !b.Valid() || j.IsHeld(b) {
		return false
	}
	j.held |= 1 << b
	return true
}

// Release the button. Returns true if the button was held.
func (j *Joypad) Release(b Button) bool {
	if !b.Valid() || !j.IsHeld(b) {
		return false
	}
	j.held &^= 1 << b
	return true
}

// IsHeld returns true if the button is currently held.
func (j *Joypad) IsHeld(b Button) bool {
	return b.Valid() && j.held&(1<<b) != 0
}

// Bits returns the held state of all buttons as a bit field. Bit n is set if
// Button(n) is held.
func (j *Joypad) Bits() uint8 {
	return j.held
}

// SetBits sets the held state of all buttons at once.
func (j *Joypad) SetBits(bits uint8) {
	j.held = bits
}
