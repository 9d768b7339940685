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

package hardware_test

import (
	"testing"

	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/hardware/joypad"
	"github.com/jetsetilly/gopherlink/hardware/serial"
	"github.com/jetsetilly/gopherlink/snapshot"
	"github.com/jetsetilly/gopherlink/test"
)

func newCart(t *testing.T, title string) *hardware.Cartridge {
	t.Helper()
	rom := make([]byte, 0x8000)
	for i := range rom {
		rom[i] = byte(i * 7)
	}
	copy(rom[0x134:0x144], make([]byte, 16))
	copy(rom[0x134:], title)
	cart, err := hardware.NewCartridge(rom, []byte{0x01, 0x02, 0x03})
	test.DemandSuccess(t, err)
	return cart
}

// a linked pair of consoles
type pair struct {
	master *hardware.Console
	slave  *hardware.Console
}

func newPair(t *testing.T, cart *hardware.Cartridge, obs hardware.Observer) pair {
	t.Helper()
	a := serial.NewEndpoint()
	b := serial.NewEndpoint()
	serial.Pair(a, b)

	var p pair
	var err error
	p.master, err = hardware.NewConsole(cart, true, a, obs)
	test.DemandSuccess(t, err)
	p.slave, err = hardware.NewConsole(cart, false, b, nil)
	test.DemandSuccess(t, err)
	return p
}

func (p pair) snapshots(t *testing.T) (string, string) {
	t.Helper()
	m, err := p.master.Save()
	test.DemandSuccess(t, err)
	s, err := p.slave.Save()
	test.DemandSuccess(t, err)
	return string(m), string(s)
}

func TestCartridge(t *testing.T) {
	cart := newCart(t, "LINKTEST")
	test.ExpectEquality(t, cart.Title, "LINKTEST")

	cart, err := hardware.NewCartridge([]byte{0x00, 0x01}, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cart.Title, "untitled")

	_, err = hardware.NewCartridge(nil, nil)
	test.ExpectFailure(t, err)
}

func TestTickOrder(t *testing.T) {
	cart := newCart(t, "ORDER")
	a := newPair(t, cart, nil)
	b := newPair(t, cart, nil)

	for i := range 3 * hardware.TicksPerFrame {
		if i == 1000 {
			a.master.Press(joypad.A)
			b.master.Press(joypad.A)
		}
		if i == 50000 {
			a.slave.Press(joypad.Left)
			b.slave.Press(joypad.Left)
		}

		// the pairs are ticked in a different order
		a.master.Tick()
		a.slave.Tick()
		b.slave.Tick()
		b.master.Tick()
	}

	am, as := a.snapshots(t)
	bm, bs := b.snapshots(t)
	test.ExpectEquality(t, am, bm)
	test.ExpectEquality(t, as, bs)
}

func TestSaveRestore(t *testing.T) {
	cart := newCart(t, "RESTORE")
	a := newPair(t, cart, nil)

	// stop part way through a transfer
	for range hardware.TicksPerFrame + 300 {
		a.master.Tick()
		a.slave.Tick()
	}
	m, s := a.snapshots(t)

	b := newPair(t, cart, nil)
	test.DemandSuccess(t, b.master.Restore(snapshot.Snapshot(m)))
	test.DemandSuccess(t, b.slave.Restore(snapshot.Snapshot(s)))
	test.ExpectEquality(t, b.master.Clock(), a.master.Clock())

	for _, p := range []pair{a, b} {
		p.master.Press(joypad.Start)
		for range hardware.TicksPerFrame {
			p.master.Tick()
			p.slave.Tick()
		}
	}

	am, as := a.snapshots(t)
	bm, bs := b.snapshots(t)
	test.ExpectEquality(t, am, bm)
	test.ExpectEquality(t, as, bs)
	test.ExpectEquality(t, a.master.Received(), b.master.Received())
	test.ExpectEquality(t, a.slave.Received(), b.slave.Received())
}

func TestRestoreWrongCartridge(t *testing.T) {
	a := newPair(t, newCart(t, "ONE"), nil)
	m, _ := a.snapshots(t)

	b := newPair(t, newCart(t, "TWO"), nil)
	test.ExpectFailure(t, b.master.Restore(snapshot.Snapshot(m)))
	test.ExpectFailure(t, b.master.Restore(snapshot.Snapshot("nonsense")))
}

func TestEvents(t *testing.T) {
	var presses []hardware.JoypadPress
	var releases int
	var frames []uint64
	var samples int

	obs := hardware.ObserverFunc(func(ev hardware.Event) {
		switch ev := ev.(type) {
		case hardware.JoypadPress:
			presses = append(presses, ev)
		case hardware.JoypadRelease:
			releases++
		case hardware.FrameReady:
			frames = append(frames, ev.Frame)
		case hardware.AudioSample:
			samples++
		}
	})

	p := newPair(t, newCart(t, "EVENTS"), obs)
	for range 10 {
		p.master.Tick()
	}
	p.master.Press(joypad.Up)
	p.master.Press(joypad.Up)
	p.master.Release(joypad.Down)

	test.DemandEquality(t, len(presses), 1)
	test.ExpectEquality(t, presses[0].Button, joypad.Up)
	test.ExpectEquality(t, presses[0].Tick, uint64(10))
	test.ExpectEquality(t, releases, 0)
	test.ExpectEquality(t, p.master.Held(), uint8(1<<joypad.Up))

	p.master.Release(joypad.Up)
	test.ExpectEquality(t, releases, 1)

	for range 2*hardware.TicksPerFrame - 10 {
		p.master.Tick()
	}
	test.DemandEquality(t, len(frames), 2)
	test.ExpectEquality(t, frames[0], uint64(1))
	test.ExpectEquality(t, frames[1], uint64(2))
	test.ExpectEquality(t, samples, 2*hardware.SampleRate/hardware.RefreshRate)

	// reset clears the joypad but not the clock
	p.master.Press(joypad.B)
	p.master.Reset()
	test.ExpectEquality(t, p.master.Held(), uint8(0))
	test.ExpectEquality(t, p.master.Clock(), uint64(2*hardware.TicksPerFrame))
}
