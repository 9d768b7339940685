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
	"github.com/jetsetilly/gopherlink/environment"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/hardware/serial"
	"github.com/jetsetilly/gopherlink/protocol"
	"github.com/jetsetilly/gopherlink/rewind"
	"github.com/jetsetilly/gopherlink/snapshot"
	"github.com/jetsetilly/gopherlink/userinput"
)

// Machines describes the two machines of a linked session.
type Machines struct {
	Main *hardware.Cartridge
	Peer *hardware.Cartridge

	// the main machine drives the serial clock. the peer is then the slave.
	// the two sides of a link must disagree about which machine is the
	// master
	Master bool
}

// Linked is a session with two machines, the main machine being played by the
// local user and the peer machine being played by the remote user.
type Linked struct {
	env  *environment.Environment
	cart Machines

	mainFactory hardware.Factory
	peerFactory hardware.Factory

	main     hardware.Machine
	peer     hardware.Machine
	mainLink *serial.Endpoint
	peerLink *serial.Endpoint

	history *rewind.History
	input   *userinput.Aggregator
	send    Sender

	frame uint64
	cycle int

	// the input drained from the aggregator at the previous frame boundary
	drained userinput.Input

	// the frame of the most recent sync message sent to the peer
	lastSync     uint64
	syncInterval uint64

	// the frame of the most recent sync message received from the peer. a
	// reset message from the peer applies to this frame
	lastRemote uint64

	reset bool
}

// NewLinked is the preferred method of initialisation for the Linked type.
//
// Messages for the peer are sent with the Sender. Events from the main machine
// are sent to the observer, which can be nil.
func NewLinked(env *environment.Environment, prefs *Preferences, cart Machines, input *userinput.Aggregator, send Sender, obs hardware.Observer) (*Linked, error) {
	if cart.Main == nil || cart.Peer == nil {
		return nil, curated.Errorf(SessionError, "linked session requires two cartridges")
	}
	if send == nil {
		return nil, curated.Errorf(SessionError, "linked session requires a sender")
	}

	if input == nil {
		input = &userinput.Aggregator{}
	}

	history, err := prefs.Rewind.NewHistory()
	if err != nil {
		return nil, curated.Errorf(SessionError, err)
	}

	l := &Linked{
		env:          env,
		cart:         cart,
		mainFactory:  hardware.ConsoleFactory(cart.Main, cart.Master),
		peerFactory:  hardware.ConsoleFactory(cart.Peer, !cart.Master),
		mainLink:     serial.NewEndpoint(),
		peerLink:     serial.NewEndpoint(),
		history:      history,
		input:        input,
		send:         send,
		syncInterval: uint64(prefs.SyncInterval.Get().(int)),
	}

	serial.Pair(l.mainLink, l.peerLink)

	l.main, err = l.mainFactory(l.mainLink, obs)
	if err != nil {
		return nil, curated.Errorf(SessionError, err)
	}
	l.peer, err = l.peerFactory(l.peerLink, nil)
	if err != nil {
		return nil, curated.Errorf(SessionError, err)
	}

	env.Logf("linked", "%s (main) with %s (peer)", cart.Main, cart.Peer)

	return l, nil
}

// Mode implements the Session interface.
func (l *Linked) Mode() emulation.Mode {
	return emulation.ModeLinked
}

// Frame implements the Session interface.
func (l *Linked) Frame() uint64 {
	return l.frame
}

// Main implements the Session interface.
func (l *Linked) Main() hardware.Machine {
	return l.main
}

// Peer returns the peer machine. Returns nil if the peer machine has been
// stopped.
func (l *Linked) Peer() hardware.Machine {
	return l.peer
}

// Cartridge implements the Session interface.
func (l *Linked) Cartridge() *hardware.Cartridge {
	return l.cart.Main
}

// PeerCartridge returns the cartridge of the peer machine.
func (l *Linked) PeerCartridge() *hardware.Cartridge {
	return l.cart.Peer
}

// History returns the rewind history of the session.
func (l *Linked) History() *rewind.History {
	return l.history
}

// Reset implements the Session interface. The reset is sent to the peer when
// it happens.
func (l *Linked) Reset() {
	l.reset = true
}

// RemoteInput records input from the peer. It will be merged into the history
// at the next frame boundary.
//
// Input that arrives after the peer has stopped is ignored.
func (l *Linked) RemoteInput(frame uint64, input userinput.Input) {
	if l.peer == nil {
		l.env.Logf("linked", "input for frame %d after peer stopped", frame)
		return
	}
	l.lastRemote = frame
	l.history.AddSecondaryInput(frame, input)
}

// RemoteReset records that the peer reset its machine. The peer always sends a
// sync message for the frame of the reset before the reset message.
func (l *Linked) RemoteReset() {
	if l.peer == nil {
		l.env.Logf("linked", "reset after peer stopped")
		return
	}
	l.history.AddPeerReset(l.lastRemote)
}

// RemoteStop removes the peer machine from the session. The main machine
// continues with nothing connected to its serial port. Should only be called
// at a frame boundary.
//
// Input from the peer that has not been merged is merged first, with the peer
// machine still attached. Every frame in the history before the stop was
// played with the peer connected, and no frame before the stop is replayed
// once the peer has been removed.
func (l *Linked) RemoteStop() error {
	if l.peer == nil {
		return nil
	}

	err := l.merge()

	l.mainLink.Detach()
	l.peer = nil
	l.env.Logf("linked", "peer machine stopped at frame %d", l.frame)

	return err
}

// Standalone ends the linked session and returns a Basic session that
// continues the emulation of the main machine. Should only be called at a
// frame boundary. Input from the peer that has not yet been merged is lost.
func (l *Linked) Standalone() *Basic {
	l.mainLink.Detach()
	l.history.DiscardPatches()
	l.peer = nil
	return newBasicFromMachine(l.cart.Main, l.main, l.frame, l.input)
}

func (l *Linked) snapshots() (snapshot.Snapshot, snapshot.Snapshot, error) {
	main, err := l.main.Save()
	if err != nil {
		return nil, nil, err
	}
	if l.peer == nil {
		return main, nil, nil
	}
	peer, err := l.peer.Save()
	if err != nil {
		return nil, nil, err
	}
	return main, peer, nil
}

// merge the input from the peer into the history and restore the machines
// from the new head. patches are only queued while the peer machine is
// attached so a merge always replays with the peer connected
func (l *Linked) merge() error {
	if l.peer == nil {
		return nil
	}

	merged, err := l.history.Merge(l.mainFactory, l.peerFactory)
	if err != nil {
		return err
	}
	if !merged {
		return nil
	}

	head, _ := l.history.Head()
	if err := l.main.Restore(head.Main); err != nil {
		return curated.Errorf(rewind.DesyncError, err)
	}
	if head.Peer != nil {
		if err := l.peer.Restore(head.Peer); err != nil {
			return curated.Errorf(rewind.DesyncError, err)
		}
	}
	if head.Frame != l.frame {
		l.env.Logf("linked", "frame %d adopted from peer (was %d)", head.Frame, l.frame)
	}
	l.frame = head.Frame

	return nil
}

// the work done at the start of every frame
func (l *Linked) boundary() error {
	drained := l.input.Drain()
	effective := drained
	if drained.Equal(l.drained) {
		effective = userinput.Input{}
	}
	l.drained = drained

	if err := l.merge(); err != nil {
		return err
	}

	main, peer, err := l.snapshots()
	if err != nil {
		return curated.Errorf(SessionError, err)
	}

	reset := l.reset
	l.reset = false

	if reset {
		l.history.AddResetState(l.frame, effective, main, peer)
	} else {
		l.history.AddState(l.frame, effective, main, peer)
	}

	// the input is applied to the main machine even if sending to the peer
	// fails. the main machine must continue as though the frame happened
	var sendErr error
	if reset || !effective.IsEmpty() || l.frame-l.lastSync > l.syncInterval {
		sendErr = l.send.Send(protocol.Sync{Frame: l.frame, Input: effective})
		l.lastSync = l.frame
		if reset && sendErr == nil {
			sendErr = l.send.Send(protocol.Reset{})
		}
	}

	if reset {
		l.main.Reset()
		l.env.Logf("linked", "reset at frame %d", l.frame)
	}
	effective.Send(l.main)

	if sendErr != nil {
		return curated.Errorf(LinkError, sendErr)
	}

	return nil
}

// Step advances both machines by one cycle. The frame boundary work is done
// before the first cycle of each frame.
//
// If an error is returned at the frame boundary the machines have not been
// advanced. In the case of a LinkError the frame boundary work has otherwise
// been completed.
func (l *Linked) Step() error {
	if l.cycle == 0 {
		if err := l.boundary(); err != nil {
			return err
		}
	}

	l.main.Tick()
	if l.peer != nil {
		l.peer.Tick()
	}

	l.cycle++
	if l.cycle >= hardware.TicksPerFrame {
		l.cycle = 0
		l.frame++
	}

	return nil
}

// RunFrame implements the Session interface.
func (l *Linked) RunFrame() error {
	if err := l.Step(); err != nil {
		return err
	}
	for l.cycle != 0 {
		if err := l.Step(); err != nil {
			return err
		}
	}
	return nil
}
