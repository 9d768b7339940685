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

// Package serial emulates the link cable between two consoles. Each console
// owns an Endpoint and the two endpoints are joined with Pair().
//
// The console with the internal clock is the master. It begins a transfer with
// StartSending() and clocks out one bit at a time with SendBit(). Every call
// to SendBit() makes one bit available to the slave, which collects it with
// RecvBit(). Both sides read the other side's register, most significant bit
// first.
//
// The state of an endpoint is part of the deterministic state of the console
// that owns it. It is saved and restored with the console and never on its own.
package serial

import (
	"sync/atomic"
)

// Link is the serial line as seen by a console.
type Link interface {
	// begin a new byte transfer. called by the master
	StartSending()

	// clock out one bit. called by the master. returns the bit received from
	// the peer
	SendBit() int

	// returns the next bit clocked in by the master or -1 if no bit is
	// pending
	RecvBit() int

	// set the register visible to the peer
	SetSb(sb byte)

	State() State
	SetState(State)
}

// State is the part of an endpoint that must be saved with the console.
type State struct {
	// the register value visible to the peer
	Register byte

	// number of bits clocked by the peer that have not yet been received
	Pending int32

	// the next bit of the peer's register to be read
	Index int8
}

// Endpoint is one end of the link cable.
type Endpoint struct {
	sb      byte
	pending atomic.Int32
	index   int8
	peer    *Endpoint
}

// NewEndpoint is the preferred method of initialisation for the Endpoint
// type. The endpoint is not connected to anything until it is paired.
func NewEndpoint() *Endpoint {
	return &Endpoint{index: 7}
}

// Pair connects two endpoints to each other.
func Pair(a *Endpoint, b *Endpoint) {
	a.peer = b
	b.peer = a
}

// Detach disconnects the endpoint and its peer from each other.
func (e *Endpoint) Detach() {
	if e.peer != nil {
		e.peer.peer = nil
		e.peer = nil
	}
}

// Connected returns true if the endpoint has a peer.
func (e *Endpoint) Connected() bool {
	return e.peer != nil
}

// StartSending implements the Link interface.
func (e *Endpoint) StartSending() {
	e.index = 7
	if e.peer != nil {
		e.peer.pending.Store(0)
	}
}

// SendBit implements the Link interface.
func (e *Endpoint) SendBit() int {
	if e.peer == nil {
		return 0
	}
	e.peer.pending.Add(1)
	return e.shift()
}

// RecvBit implements the Link interface.
func (e *Endpoint) RecvBit() int {
	if e.peer == nil || e.pending.Load() == 0 {
		return -1
	}
	e.pending.Add(-1)
	return e.shift()
}

// SetSb implements the Link interface.
func (e *Endpoint) SetSb(sb byte) {
	e.sb = sb
}

// read the next bit from the peer's register, wrapping from bit 0 back to bit 7
func (e *Endpoint) shift() int {
	bit := int(e.peer.sb>>uint(e.index)) & 0x01
	e.index--
	if e.index < 0 {
		e.index = 7
	}
	return bit
}

// State implements the Link interface.
func (e *Endpoint) State() State {
	return State{
		Register: e.sb,
		Pending:  e.pending.Load(),
		Index:    e.index,
	}
}

// SetState implements the Link interface.
func (e *Endpoint) SetState(s State) {
	e.sb = s.Register
	e.pending.Store(s.Pending)
	e.index = s.Index & 0x07
}

// Null is the link when no cable is connected.
type Null struct{}

// StartSending implements the Link interface.
func (Null) StartSending() {}

// SendBit implements the Link interface. A disconnected line reads high.
func (Null) SendBit() int {
	return 1
}

// RecvBit implements the Link interface.
func (Null) RecvBit() int {
	return -1
}

// SetSb implements the Link interface.
func (Null) SetSb(_ byte) {}

// State implements the Link interface.
func (Null) State() State {
	return State{Index: 7}
}

// SetState implements the Link interface.
func (Null) SetState(_ State) {}
