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

package userinput

import (
	"strings"

	"github.com/jetsetilly/gopherlink/hardware/joypad"
)

// Input is the change in button state for a single frame. The Pressed and
// Released lists are disjoint and sorted by button id. The zero value is an
// empty Input, meaning no change.
type Input struct {
	Pressed  []joypad.Button
	Released []joypad.Button
}

// NewInput creates an Input from unsorted lists of buttons. Duplicates and
// invalid buttons are dropped. A button in both lists is treated as pressed.
func NewInput(pressed []joypad.Button, released []joypad.Button) Input {
	var p, r uint8
	for _, b := range pressed {
		if b.Valid() {
			p |= 1 << b
		}
	}
	for _, b := range released {
		if b.Valid() {
			r |= 1 << b
		}
	}
	return FromBits(p, r)
}

// FromBits creates an Input from two bit fields. Bit n of each field
// represents Button(n).
func FromBits(pressed uint8, released uint8) Input {
	released &^= pressed
	return Input{
		Pressed:  unpack(pressed),
		Released: unpack(released),
	}
}

func unpack(bits uint8) []joypad.Button {
	var l []joypad.Button
	for b := joypad.Button(0); b < joypad.NumButtons; b++ {
		if bits&(1<<b) != 0 {
			l = append(l, b)
		}
	}
	return l
}

func pack(l []joypad.Button) uint8 {
	var bits uint8
	for _, b := range l {
		if b.Valid() {
			bits |= 1 << b
		}
	}
	return bits
}

// Bits returns the Input as two bit fields.
func (in Input) Bits() (pressed uint8, released uint8) {
	return pack(in.Pressed), pack(in.Released)
}

// IsEmpty returns true if the Input has no presses and no releases.
func (in Input) IsEmpty() bool {
	return len(in.Pressed) == 0 && len(in.Released) == 0
}

// Equal returns true if both inputs have the same presses and the same
// releases.
func (in Input) Equal(o Input) bool {
	ap, ar := in.Bits()
	bp, br := o.Bits()
	return ap == bp && ar == br
}

// Target is anything that can receive button events. The hardware.Machine
// interface satisfies Target.
type Target interface {
	Press(joypad.Button)
	Release(joypad.Button)
}

// Send the input to the target. Presses are sent before releases and in
// order of button id.
func (in Input) Send(t Target) {
	for _, b := range in.Pressed {
		t.Press(b)
	}
	for _, b := range in.Released {
		t.Release(b)
	}
}

func (in Input) String() string {
	if in.IsEmpty() {
		return "none"
	}
	s := make([]string, 0, len(in.Pressed)+len(in.Released))
	for _, b := range in.Pressed {
		s = append(s, "+"+b.String())
	}
	for _, b := range in.Released {
		s = append(s, "-"+b.String())
	}
	return strings.Join(s, " ")
}
