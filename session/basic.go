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
	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/emulation"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/snapshot"
	"github.com/jetsetilly/gopherlink/userinput"
)

// Basic is a session with a single machine and nothing connected to the serial
// port.
type Basic struct {
	cart  *hardware.Cartridge
	main  hardware.Machine
	input *userinput.Aggregator

	frame uint64
	cycle int

	reset bool
}

// NewBasic is the preferred method of initialisation for the Basic type. The
// observer can be nil.
func NewBasic(cart *hardware.Cartridge, input *userinput.Aggregator, obs hardware.Observer) (*Basic, error) {
	main, err := hardware.NewConsole(cart, true, nil, obs)
	if err != nil {
		return nil, curated.Errorf(SessionError, err)
	}
	return newBasicFromMachine(cart, main, 0, input), nil
}

// newBasicFromMachine continues the emulation of a machine that was previously
// running in another session. The machine must be at a frame boundary.
func newBasicFromMachine(cart *hardware.Cartridge, main hardware.Machine, frame uint64, input *userinput.Aggregator) *Basic {
	if input == nil {
		input = &userinput.Aggregator{}
	}
	return &Basic{
		cart:  cart,
		main:  main,
		input: input,
		frame: frame,
	}
}

// Mode implements the Session interface.
func (b *Basic) Mode() emulation.Mode {
	return emulation.ModeStandalone
}

// Frame implements the Session interface.
func (b *Basic) Frame() uint64 {
	return b.frame
}

// Main implements the Session interface.
func (b *Basic) Main() hardware.Machine {
	return b.main
}

// Cartridge implements the Session interface.
func (b *Basic) Cartridge() *hardware.Cartridge {
	return b.cart
}

// Reset implements the Session interface.
func (b *Basic) Reset() {
	b.reset = true
}

// Step advances the machine by one cycle. Input is applied at the start of
// every frame.
func (b *Basic) Step() {
	if b.cycle == 0 {
		if b.reset {
			b.main.Reset()
			b.reset = false
		}
		b.input.Drain().Send(b.main)
	}

	b.main.Tick()

	b.cycle++
	if b.cycle >= hardware.TicksPerFrame {
		b.cycle = 0
		b.frame++
	}
}

// RunFrame implements the Session interface.
func (b *Basic) RunFrame() error {
	b.Step()
	for b.cycle != 0 {
		b.Step()
	}
	return nil
}

// Save the state of the main machine. Should only be called at a frame
// boundary.
func (b *Basic) Save() (snapshot.Snapshot, error) {
	return b.main.Save()
}

// Restore the main machine from a snapshot made by Save().
func (b *Basic) Restore(s snapshot.Snapshot) error {
	if err := b.main.Restore(s); err != nil {
		return curated.Errorf(SessionError, err)
	}
	return nil
}
