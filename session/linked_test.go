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

package session_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/emulation"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/hardware/joypad"
	"github.com/jetsetilly/gopherlink/protocol"
	"github.com/jetsetilly/gopherlink/rewind"
	"github.com/jetsetilly/gopherlink/session"
	"github.com/jetsetilly/gopherlink/test"
	"github.com/jetsetilly/gopherlink/userinput"
)

// the local side of a linked session for testing
type sut struct {
	l       *session.Linked
	input   *userinput.Aggregator
	out     *outbox
	live    *presses
	replays *presses

	// messages waiting to be delivered to this sut, with the frame at which
	// they were sent
	queue []queued
}

type queued struct {
	frame uint64
	m     protocol.Message
}

func newSut(t *testing.T, label string, cart session.Machines) *sut {
	t.Helper()
	s := &sut{
		input:   &userinput.Aggregator{},
		out:     &outbox{},
		live:    &presses{},
		replays: &presses{},
	}
	var err error
	s.l, err = session.NewLinked(newEnv(label, nil), newPrefs(t), cart, s.input, s.out, s.live)
	test.DemandSuccess(t, err)

	s.l.History().SetReplayObserver(func(machine int, ev hardware.Event) {
		if machine == 1 {
			s.replays.Notify(ev)
		}
	})

	return s
}

// move sent messages onto the queue of the other sut
func (s *sut) post(to *sut) {
	var frame uint64
	for _, m := range s.out.take() {
		if sync, ok := m.(protocol.Sync); ok {
			frame = sync.Frame
		}
		to.queue = append(to.queue, queued{frame: frame, m: m})
	}
}

// deliver messages that were sent at least latency frames ago
func (s *sut) deliver(latency uint64) {
	for len(s.queue) > 0 && s.queue[0].frame+latency <= s.l.Frame() {
		switch m := s.queue[0].m.(type) {
		case protocol.Sync:
			s.l.RemoteInput(m.Frame, m.Input)
		case protocol.Reset:
			s.l.RemoteReset()
		}
		s.queue = s.queue[1:]
	}
}

func snapshotString(t *testing.T, m hardware.Machine) string {
	t.Helper()
	s, err := m.Save()
	test.DemandSuccess(t, err)
	return string(s)
}

func TestLinkedMode(t *testing.T) {
	a := newCart(t, "GAME A", 0x11)
	b := newCart(t, "GAME B", 0x22)

	s := newSut(t, "sut", session.Machines{Main: a, Peer: b, Master: true})
	test.ExpectEquality(t, s.l.Mode(), emulation.ModeLinked)
	test.ExpectEquality(t, s.l.Cartridge(), a)
	test.ExpectEquality(t, s.l.PeerCartridge(), b)

	_, err := session.NewLinked(newEnv("sut", nil), newPrefs(t), session.Machines{Main: a}, nil, &outbox{}, nil)
	test.ExpectFailure(t, err)
	_, err = session.NewLinked(newEnv("sut", nil), newPrefs(t), session.Machines{Main: a, Peer: b}, nil, nil, nil)
	test.ExpectFailure(t, err)
}

// input that arrives late from the peer must not change what the main
// machine did. the replay of the main machine must publish exactly the same
// events as the live machine
func TestRollbackFidelity(t *testing.T) {
	a := newCart(t, "GAME A", 0x11)
	b := newCart(t, "GAME B", 0x22)
	s := newSut(t, "sut", session.Machines{Main: a, Peer: b, Master: true})

	rng := rand.New(rand.NewSource(2600))

	test.DemandSuccess(t, s.l.RunFrame())
	for range 100 {
		randomInput(rng, s.input)
		test.DemandSuccess(t, s.l.RunFrame())
	}
	test.DemandSuccess(t, s.l.RunFrame())
	test.ExpectEquality(t, s.l.Frame(), uint64(102))

	var replayed []hardware.JoypadPress
	s.l.History().SetReplayObserver(func(machine int, ev hardware.Event) {
		if ev, ok := ev.(hardware.JoypadPress); ok && machine == 0 {
			replayed = append(replayed, ev)
		}
	})

	s.l.RemoteInput(1, userinput.NewInput([]joypad.Button{joypad.Up}, nil))
	for range 5 {
		test.DemandSuccess(t, s.l.RunFrame())
	}
	test.ExpectEquality(t, s.l.Frame(), uint64(107))

	live := s.live.list
	test.DemandSuccess(t, len(live) > 0)
	test.DemandEquality(t, len(replayed), len(live))
	for i := range live {
		test.ExpectEquality(t, replayed[i], live[i], i)
	}

	// the live peer machine has been restored from the corrected history
	peer := s.l.Peer().(*hardware.Console)
	test.ExpectEquality(t, peer.Held()&(1<<joypad.Up), uint8(1<<joypad.Up))
}

// both sides of a link, with input on both sides and late delivery of
// messages, must agree about the state of both machines once all messages
// have been delivered
func TestConvergence(t *testing.T) {
	a := newCart(t, "GAME A", 0x11)
	b := newCart(t, "GAME B", 0x22)

	sut1 := newSut(t, "sut1", session.Machines{Main: a, Peer: b, Master: true})
	sut2 := newSut(t, "sut2", session.Machines{Main: b, Peer: a, Master: false})

	rng1 := rand.New(rand.NewSource(1))
	rng2 := rand.New(rand.NewSource(2))

	const latency = 3

	for f := range 60 {
		if f > 0 && f < 45 {
			randomInput(rng1, sut1.input)
			randomInput(rng2, sut2.input)
		}
		switch f {
		case 20:
			sut1.l.Reset()
		case 33:
			sut2.l.Reset()
		}

		sut1.deliver(latency)
		sut2.deliver(latency)

		test.DemandSuccess(t, sut1.l.RunFrame())
		test.DemandSuccess(t, sut2.l.RunFrame())

		sut1.post(sut2)
		sut2.post(sut1)
	}

	// deliver everything and let the merges happen
	sut1.deliver(0)
	sut2.deliver(0)
	test.DemandSuccess(t, sut1.l.RunFrame())
	test.DemandSuccess(t, sut2.l.RunFrame())
	test.DemandEquality(t, len(sut1.queue), 0)
	test.DemandEquality(t, len(sut2.queue), 0)

	test.DemandEquality(t, sut1.l.Frame(), sut2.l.Frame())

	test.ExpectEquality(t, snapshotString(t, sut1.l.Main()), snapshotString(t, sut2.l.Peer()))
	test.ExpectEquality(t, snapshotString(t, sut2.l.Main()), snapshotString(t, sut1.l.Peer()))

	// every button press on one side was replayed on the other side
	live1 := sut1.live.set()
	live2 := sut2.live.set()
	test.DemandSuccess(t, len(live1) > 0)
	test.DemandSuccess(t, len(live2) > 0)
	test.ExpectEquality(t, len(sut2.replays.set()), len(live1))
	test.ExpectEquality(t, len(sut1.replays.set()), len(live2))
	for ev := range live1 {
		test.ExpectSuccess(t, sut2.replays.set()[ev], ev)
	}
	for ev := range live2 {
		test.ExpectSuccess(t, sut1.replays.set()[ev], ev)
	}
}

func TestSyncMessages(t *testing.T) {
	a := newCart(t, "GAME A", 0x11)
	b := newCart(t, "GAME B", 0x22)
	s := newSut(t, "sut", session.Machines{Main: a, Peer: b, Master: true})

	// nothing is sent when nothing changes
	test.DemandSuccess(t, s.l.RunFrame())
	test.ExpectEquality(t, len(s.out.take()), 0)

	s.input.Press(joypad.A)
	test.DemandSuccess(t, s.l.RunFrame())
	sent := s.out.take()
	test.DemandEquality(t, len(sent), 1)
	sync := sent[0].(protocol.Sync)
	test.ExpectEquality(t, sync.Frame, uint64(1))
	test.ExpectEquality(t, sync.Input.String(), "+A")

	// pressing the same button again is not a change
	s.input.Press(joypad.A)
	test.DemandSuccess(t, s.l.RunFrame())
	test.ExpectEquality(t, len(s.out.take()), 0)

	// a reset is a sync for the frame followed by a reset
	s.l.Reset()
	test.DemandSuccess(t, s.l.RunFrame())
	sent = s.out.take()
	test.DemandEquality(t, len(sent), 2)
	test.ExpectEquality(t, sent[0].(protocol.Sync).Frame, uint64(3))
	test.ExpectEquality(t, sent[1].Command(), protocol.CmdReset)

	state, ok := s.l.History().State(3)
	test.DemandSuccess(t, ok)
	test.ExpectSuccess(t, state.Reset)

	// the sync interval forces a message once more than the interval has
	// passed, even if there is no change
	for range session.DefaultSyncInterval {
		test.DemandSuccess(t, s.l.RunFrame())
	}
	test.ExpectEquality(t, len(s.out.take()), 0)

	test.DemandSuccess(t, s.l.RunFrame())
	sent = s.out.take()
	test.DemandEquality(t, len(sent), 1)
	test.ExpectEquality(t, sent[0].(protocol.Sync).Frame, uint64(3+session.DefaultSyncInterval+1))
	test.ExpectSuccess(t, sent[0].(protocol.Sync).Input.IsEmpty())
}

func TestRemoteStop(t *testing.T) {
	a := newCart(t, "GAME A", 0x11)
	b := newCart(t, "GAME B", 0x22)
	s := newSut(t, "sut", session.Machines{Main: a, Peer: b, Master: true})

	for range 5 {
		test.DemandSuccess(t, s.l.RunFrame())
	}
	s.l.RemoteInput(2, userinput.NewInput([]joypad.Button{joypad.B}, nil))
	test.DemandSuccess(t, s.l.RemoteStop())
	test.ExpectEquality(t, s.l.Peer(), hardware.Machine(nil))

	// the input sent before the stop was merged while the peer was attached
	state, ok := s.l.History().State(2)
	test.DemandSuccess(t, ok)
	test.ExpectSuccess(t, state.HasRemote)
	test.ExpectEquality(t, state.Remote.String(), "+B")
	test.ExpectSuccess(t, state.Peer != nil)

	// messages from the peer after the stop are ignored
	s.l.RemoteInput(6, userinput.NewInput([]joypad.Button{joypad.A}, nil))
	s.l.RemoteReset()
	test.ExpectEquality(t, s.l.History().GetTimeline().Pending, 0)

	for range 5 {
		test.DemandSuccess(t, s.l.RunFrame())
	}
	head, ok := s.l.History().Head()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, head.Frame, uint64(9))
	test.ExpectSuccess(t, head.Peer == nil)

	// stopping twice is harmless
	test.ExpectSuccess(t, s.l.RemoteStop())
}

// the peer stopping must not change the frames that were played while it was
// attached. input that arrives with the stop is merged exactly as it would
// have been had the peer carried on
func TestRemoteStopReplay(t *testing.T) {
	a := newCart(t, "GAME A", 0x11)
	b := newCart(t, "GAME B", 0x22)

	run := func(stop bool) string {
		s := newSut(t, "sut", session.Machines{Main: a, Peer: b, Master: true})
		for range 10 {
			test.DemandSuccess(t, s.l.RunFrame())
		}
		s.l.RemoteInput(2, userinput.NewInput([]joypad.Button{joypad.B}, nil))
		if stop {
			test.DemandSuccess(t, s.l.RemoteStop())
		}
		test.DemandSuccess(t, s.l.RunFrame())

		state, ok := s.l.History().State(5)
		test.DemandSuccess(t, ok)
		return string(state.Main)
	}

	test.ExpectEquality(t, run(true), run(false))
}

func TestLinkFailure(t *testing.T) {
	a := newCart(t, "GAME A", 0x11)
	b := newCart(t, "GAME B", 0x22)
	s := newSut(t, "sut", session.Machines{Main: a, Peer: b, Master: true})

	for range 3 {
		test.DemandSuccess(t, s.l.RunFrame())
	}

	s.out.fail = errors.New("broken pipe")
	s.input.Press(joypad.Start)
	err := s.l.RunFrame()
	test.ExpectSuccess(t, curated.Is(err, session.LinkError))

	// the input was applied even though it could not be sent
	main := s.l.Main().(*hardware.Console)
	test.ExpectEquality(t, main.Held(), uint8(1<<joypad.Start))

	basic := s.l.Standalone()
	test.ExpectEquality(t, basic.Mode(), emulation.ModeStandalone)
	test.ExpectEquality(t, basic.Frame(), uint64(3))
	test.ExpectEquality(t, basic.Main(), s.l.Main())
	test.DemandSuccess(t, basic.RunFrame())
	test.ExpectEquality(t, basic.Frame(), uint64(4))
	test.ExpectEquality(t, main.Clock(), uint64(4*hardware.TicksPerFrame))
}

func TestDesync(t *testing.T) {
	a := newCart(t, "GAME A", 0x11)
	b := newCart(t, "GAME B", 0x22)
	s := newSut(t, "sut", session.Machines{Main: a, Peer: b, Master: true})

	for range 3 {
		test.DemandSuccess(t, s.l.RunFrame())
	}

	s.l.RemoteInput(10000, userinput.Input{})
	err := s.l.RunFrame()
	test.ExpectSuccess(t, curated.Is(err, rewind.DesyncError))
}
