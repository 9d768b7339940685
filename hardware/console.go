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
	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/hardware/joypad"
	"github.com/jetsetilly/gopherlink/hardware/serial"
	"github.com/jetsetilly/gopherlink/snapshot"
)

// timing of the console's components in cycles
const (
	transferPeriod = 256
	bitPeriod      = 8
	audioPeriod    = 96
)

// SampleRate is the number of audio samples published per second of emulated
// time.
const SampleRate = TicksPerFrame * RefreshRate / audioPeriod

// size of work RAM. the battery data of the cartridge is loaded into work RAM
// on reset
const ramSize = 256

// Console is the reference implementation of the Machine interface.
type Console struct {
	cart   *Cartridge
	master bool
	link   serial.Link
	obs    Observer

	// the clock is not affected by a reset
	clock uint64

	acc    uint32
	ram    [ramSize]uint8
	joypad joypad.Joypad

	// serial port
	sb           uint8
	transferring bool
	bits         uint8
	shift        uint8
	received     uint8
}

// NewConsole is the preferred method of initialisation for the Console type.
// The link can be nil, in which case the console will behave as though
// nothing is plugged into the serial port. The observer can be nil.
func NewConsole(cart *Cartridge, master bool, link serial.Link, obs Observer) (*Console, error) {
	if cart == nil {
		return nil, curated.Errorf("console: %v", "no cartridge")
	}

	if link == nil {
		link = serial.Null{}
	}

	con := &Console{
		cart:   cart,
		master: master,
		link:   link,
		obs:    obs,
	}
	con.Reset()

	return con, nil
}

// ConsoleFactory returns a Factory that creates consoles for the cartridge.
func ConsoleFactory(cart *Cartridge, master bool) Factory {
	return func(link serial.Link, obs Observer) (Machine, error) {
		return NewConsole(cart, master, link, obs)
	}
}

// Reset implements the Machine interface.
func (con *Console) Reset() {
	con.acc = con.cart.Checksum
	con.ram = [ramSize]uint8{}
	copy(con.ram[:], con.cart.Battery)
	con.joypad.SetBits(0)
	con.sb = 0
	con.transferring = false
	con.bits = 0
	con.shift = 0
	con.received = 0
}

func (con *Console) notify(ev Event) {
	if con.obs != nil {
		con.obs.Notify(ev)
	}
}

// Tick implements the Machine interface.
func (con *Console) Tick() {
	con.clock++

	con.acc = con.acc*1664525 + 1013904223 + uint32(con.joypad.Bits())
	con.ram[uint8(con.clock)] += uint8(con.acc >> 16)

	switch {
	case con.clock%transferPeriod == 0:
		if !con.transferring {
			con.sb = con.ram[uint8(con.acc>>24)]
			con.link.SetSb(con.sb)
			con.transferring = true
			con.bits = 0
			if con.master {
				con.link.StartSending()
			}
		}
	case con.transferring:
		if con.master {
			if con.clock%bitPeriod == 0 {
				con.shiftIn(con.link.SendBit())
			}
		} else if con.clock%bitPeriod == bitPeriod/2 {
			if b := con.link.RecvBit(); b >= 0 {
				con.shiftIn(b)
			}
		}
	}

	if con.clock%audioPeriod == 0 {
		con.notify(AudioSample{Value: int16(con.acc >> 8)})
	}

	if con.clock%TicksPerFrame == 0 {
		con.notify(FrameReady{Frame: con.clock / TicksPerFrame})
	}
}

func (con *Console) shiftIn(bit int) {
	con.shift = con.shift<<1 | uint8(bit&0x01)
	con.bits++
	if con.bits == 8 {
		con.transferring = false
		con.received = con.shift
		con.ram[con.received] ^= con.sb
		con.acc += uint32(con.received)
	}
}

// Press implements the Machine interface.
func (con *Console) Press(b joypad.Button) {
	if con.joypad.Press(b) {
		con.notify(JoypadPress{Button: b, Tick: con.clock})
	}
}

// Release implements the Machine interface.
func (con *Console) Release(b joypad.Button) {
	if con.joypad.Release(b) {
		con.notify(JoypadRelease{Button: b, Tick: con.clock})
	}
}

// Clock returns the number of cycles since the console was created.
func (con *Console) Clock() uint64 {
	return con.clock
}

// Received returns the most recent byte received over the serial port.
func (con *Console) Received() uint8 {
	return con.received
}

// Held returns the held state of the joypad as a bit field.
func (con *Console) Held() uint8 {
	return con.joypad.Bits()
}

// Cartridge returns the cartridge the console was created with.
func (con *Console) Cartridge() *Cartridge {
	return con.cart
}

// Save implements the snapshot.Snapshottable interface.
func (con *Console) Save() (snapshot.Snapshot, error) {
	enc := snapshot.NewEncoder(snapshot.KindConsole)
	enc.Uint32(con.cart.Checksum)
	enc.Uint64(con.clock)
	enc.Uint32(con.acc)
	enc.Bytes(con.ram[:])
	enc.Uint8(con.joypad.Bits())
	enc.Uint8(con.sb)
	enc.Bool(con.transferring)
	enc.Uint8(con.bits)
	enc.Uint8(con.shift)
	enc.Uint8(con.received)

	ls := con.link.State()
	enc.Uint8(ls.Register)
	enc.Int32(ls.Pending)
	enc.Uint8(uint8(ls.Index))

	return enc.Snapshot(), nil
}

// Restore implements the snapshot.Snapshottable interface.
func (con *Console) Restore(s snapshot.Snapshot) error {
	dec, err := snapshot.NewDecoder(s, snapshot.KindConsole)
	if err != nil {
		return err
	}

	if crc := dec.Uint32(); crc != con.cart.Checksum {
		return curated.Errorf(snapshot.InvalidSnapshot, "snapshot is for a different cartridge")
	}

	clock := dec.Uint64()
	acc := dec.Uint32()
	ram := dec.Bytes()
	held := dec.Uint8()
	sb := dec.Uint8()
	transferring := dec.Bool()
	bits := dec.Uint8()
	shift := dec.Uint8()
	received := dec.Uint8()

	var ls serial.State
	ls.Register = dec.Uint8()
	ls.Pending = dec.Int32()
	ls.Index = int8(dec.Uint8())

	if err := dec.Err(); err != nil {
		return err
	}
	if len(ram) != ramSize {
		return curated.Errorf(snapshot.InvalidSnapshot, "wrong size of RAM")
	}

	con.clock = clock
	con.acc = acc
	copy(con.ram[:], ram)
	con.joypad.SetBits(held)
	con.sb = sb
	con.transferring = transferring
	con.bits = bits
	con.shift = shift
	con.received = received
	con.link.SetState(ls)

	return nil
}
