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
	"sync"
	"time"

	"github.com/jetsetilly/gopherlink/easyterm"
	"github.com/jetsetilly/gopherlink/hardware/joypad"
)

// Action is a request from the keyboard that is not a joypad button.
type Action int

// List of valid Action values.
const (
	NoAction Action = iota
	Quit
	Pause
	Reset
	SaveState
	LoadState
	Suspend
)

func (a Action) String() string {
	switch a {
	case NoAction:
		return "none"
	case Quit:
		return "quit"
	case Pause:
		return "pause"
	case Reset:
		return "reset"
	case SaveState:
		return "save state"
	case LoadState:
		return "load state"
	case Suspend:
		return "suspend"
	}
	return "unknown"
}

// DefaultHold is the length of time a button remains pressed after a key has
// been seen.
const DefaultHold = 150 * time.Millisecond

// Keyboard translates the bytes read from a terminal in cbreak mode into
// joypad events. A terminal cannot report when a key is released so each
// button is released once the hold period has elapsed without the key being
// seen again. Key repeat keeps a button held.
//
// Expire() must be called regularly for buttons to be released.
type Keyboard struct {
	crit   sync.Mutex
	target Target
	hold   time.Duration
	held   map[joypad.Button]time.Time
}

// NewKeyboard is the preferred method of initialisation for the Keyboard type.
// A hold of zero will use DefaultHold.
func NewKeyboard(target Target, hold time.Duration) *Keyboard {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Keyboard{
		target: target,
		hold:   hold,
		held:   make(map[joypad.Button]time.Time),
	}
}

// escape sequences for the cursor keys and function keys
var sequences = map[string]any{
	easyterm.CSI(string(easyterm.CursorUp)):       joypad.Up,
	easyterm.CSI(string(easyterm.CursorDown)):     joypad.Down,
	easyterm.CSI(string(easyterm.CursorForward)):  joypad.Right,
	easyterm.CSI(string(easyterm.CursorBackward)): joypad.Left,
	easyterm.SS3(string(easyterm.CursorUp)):       joypad.Up,
	easyterm.SS3(string(easyterm.CursorDown)):     joypad.Down,
	easyterm.SS3(string(easyterm.CursorForward)):  joypad.Right,
	easyterm.SS3(string(easyterm.CursorBackward)): joypad.Left,
	easyterm.CSI("15~"):                           SaveState,
	easyterm.CSI("20~"):                           LoadState,
}

// single byte keys
var keys = map[byte]any{
	'w':                        joypad.Up,
	'a':                        joypad.Left,
	's':                        joypad.Down,
	'd':                        joypad.Right,
	'z':                        joypad.A,
	'x':                        joypad.B,
	easyterm.KeyCarriageReturn: joypad.Start,
	easyterm.KeyLineFeed:       joypad.Start,
	easyterm.KeyDelete:         joypad.Select,
	easyterm.KeyBackspace:      joypad.Select,
	'p':                        Pause,
	'r':                        Reset,
	'q':                        Quit,
	easyterm.KeyInterrupt:      Quit,
	easyterm.KeyEsc:            Quit,
	easyterm.KeySuspend:        Suspend,
}

// Handle the bytes read from the terminal. Returns the most recent Action
// found in the data, or NoAction.
func (kb *Keyboard) Handle(data []byte, now time.Time) Action {
	kb.crit.Lock()
	defer kb.crit.Unlock()

	act := NoAction

	for len(data) > 0 {
		var v any
		n := 1

		if data[0] == easyterm.KeyEsc && len(data) > 1 {
			for seq, sv := range sequences {
				if len(data) >= len(seq) && string(data[:len(seq)]) == seq {
					v = sv
					n = len(seq)
					break
				}
			}
			if v == nil {
				// unrecognised escape sequence. skip the rest of the data
				return act
			}
		} else {
			v = keys[data[0]]
		}

		data = data[n:]

		switch v := v.(type) {
		case joypad.Button:
			if _, ok := kb.held[v]; !ok {
				kb.target.Press(v)
			}
			kb.held[v] = now.Add(kb.hold)
		case Action:
			act = v
		}
	}

	return act
}

// Expire releases every button whose hold period has elapsed.
func (kb *Keyboard) Expire(now time.Time) {
	kb.crit.Lock()
	defer kb.crit.Unlock()

	for b := joypad.Button(0); b < joypad.NumButtons; b++ {
		if t, ok := kb.held[b]; ok && !now.Before(t) {
			delete(kb.held, b)
			kb.target.Release(b)
		}
	}
}

// ReleaseAll releases every held button immediately.
func (kb *Keyboard) ReleaseAll() {
	kb.crit.Lock()
	defer kb.crit.Unlock()

	for b := joypad.Button(0); b < joypad.NumButtons; b++ {
		if _, ok := kb.held[b]; ok {
			delete(kb.held, b)
			kb.target.Release(b)
		}
	}
}
