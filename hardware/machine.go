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

package hardware

import (
	"github.com/jetsetilly/gopherlink/hardware/joypad"
	"github.com/jetsetilly/gopherlink/hardware/serial"
	"github.com/jetsetilly/gopherlink/snapshot"
)

// TicksPerFrame is the number of machine cycles in one frame.
const TicksPerFrame = 70224

// RefreshRate is the number of frames per second of a console running at
// full speed.
const RefreshRate = 60

// Machine is a deterministic stepped simulation. The rollback engine makes no
// assumptions about a machine other than those described here.
//
// Restoring a snapshot and then applying an identical sequence of inputs and
// ticks must result in identical events and identical future snapshots.
type Machine interface {
	snapshot.Snapshottable

	// advance the machine by one cycle
	Tick()

	// button events from the local event stream
	Press(joypad.Button)
	Release(joypad.Button)

	// power cycle the machine. the serial link is left as it is
	Reset()
}

// Factory creates a new machine attached to the serial link. Events published
// by the machine are sent to the observer, which may be nil.
type Factory func(link serial.Link, obs Observer) (Machine, error)

// Event is published by a machine while it is running.
type Event interface {
	event()
}

// JoypadPress is published when a button that was not already held is pressed.
type JoypadPress struct {
	Button joypad.Button
	Tick   uint64
}

// JoypadRelease is published when a held button is released.
type JoypadRelease struct {
	Button joypad.Button
	Tick   uint64
}

// FrameReady is published every TicksPerFrame cycles.
type FrameReady struct {
	Frame uint64
}

// AudioSample is published SampleRate times per second of emulated time.
type AudioSample struct {
	Value int16
}

func (JoypadPress) event()   {}
func (JoypadRelease) event() {}
func (FrameReady) event()    {}
func (AudioSample) event()   {}

// Observer implementations receive the events published by a machine.
type Observer interface {
	Notify(Event)
}

// ObserverFunc allows a function to be used as an Observer.
type ObserverFunc func(Event)

// Notify implements the Observer interface.
func (f ObserverFunc) Notify(ev Event) {
	f(ev)
}
