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

	"github.com/jetsetilly/gopherlink/hardware/joypad"
)

// Aggregator collects button events between frame boundaries. It is safe to
// use from multiple goroutines.
type Aggregator struct {
	crit     sync.Mutex
	pressed  uint8
	released uint8
}

// Press records a button press. A pending release of the same button is
// forgotten.
func (agg *Aggregator) Press(b joypad.Button) {
	if !b.Valid() {
		return
	}
	agg.crit.Lock()
	defer agg.crit.Unlock()
	agg.pressed |= 1 << b
	agg.released &^= 1 << b
}

// Release records a button release. A pending press of the same button is
// forgotten.
func (agg *Aggregator) Release(b joypad.Button) {
	if !b.Valid() {
		return
	}
	agg.crit.Lock()
	defer agg.crit.Unlock()
	agg.released |= 1 << b
	agg.pressed &^= 1 << b
}

// Drain returns the events collected since the previous call to Drain().
func (agg *Aggregator) Drain() Input {
	agg.crit.Lock()
	p, r := agg.pressed, agg.released
	agg.pressed = 0
	agg.released = 0
	agg.crit.Unlock()
	return FromBits(p, r)
}
