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

package rewind

import (
	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/hardware/serial"
	"github.com/jetsetilly/gopherlink/userinput"
)

// the machines recreated by Merge()
type replay struct {
	main hardware.Machine
	peer hardware.Machine
}

func (r *replay) tick() {
	r.main.Tick()
	if r.peer != nil {
		r.peer.Tick()
	}
}

func (h *History) replayObserver(machine int) hardware.Observer {
	if h.observer == nil {
		return nil
	}
	f := h.observer
	return hardware.ObserverFunc(func(ev hardware.Event) {
		f(machine, ev)
	})
}

// recreate the machines and restore them from the state
func (h *History) recreate(base *State, main hardware.Factory, peer hardware.Factory) (*replay, error) {
	mainLink := serial.NewEndpoint()
	peerLink := serial.NewEndpoint()

	var r replay
	var err error

	r.main, err = main(mainLink, h.replayObserver(0))
	if err != nil {
		return nil, err
	}
	if err := r.main.Restore(base.Main); err != nil {
		return nil, err
	}

	if peer != nil && base.Peer != nil {
		serial.Pair(mainLink, peerLink)
		r.peer, err = peer(peerLink, h.replayObserver(1))
		if err != nil {
			return nil, err
		}
		if err := r.peer.Restore(base.Peer); err != nil {
			return nil, err
		}
	}

	return &r, nil
}

// Merge applies the queued patches to the history. Returns false if there was
// nothing to do.
//
// The earliest frame affected by a patch is found in the history and fresh
// machines are created by the factory functions and restored from the state
// for that frame. The peer factory can be nil if there is no peer machine.
// Every frame from that point is then replayed up to the most recent frame in
// the history or the most recent patch, whichever is later. The replayed
// states replace the existing states and the history is completed with a
// provisional head state for the frame that follows.
//
// When Merge() returns true the live machines should be restored from the
// head state. If an error is returned the history and the patches are left
// as they were.
func (h *History) Merge(main hardware.Factory, peer hardware.Factory) (bool, error) {
	h.crit.Lock()
	defer h.crit.Unlock()

	if len(h.patches) == 0 || h.count == 0 {
		return false, nil
	}

	oldest := h.at(0).Frame
	newest := h.last().Frame

	// a provisional head is the frame that is about to be played, not a
	// frame that has been played
	if h.last().provisional && h.count > 1 {
		newest = h.at(h.count - 2).Frame
	}

	baseFrame := newest
	toFrame := newest
	for _, p := range h.patches {
		if p.Frame > newest+uint64(len(h.entries)) {
			return false, curated.Errorf(DesyncError, curated.Errorf("patch for frame %d is too far ahead of frame %d", p.Frame, newest))
		}
		baseFrame = min(baseFrame, p.Frame)
		toFrame = max(toFrame, p.Frame)
	}

	if baseFrame < oldest {
		return false, curated.Errorf(DesyncError, curated.Errorf("frame %d is older than the history (%d)", baseFrame, oldest))
	}

	bi := h.find(baseFrame)
	if bi < 0 {
		return false, curated.Errorf(DesyncError, curated.Errorf("frame %d is missing from the history", baseFrame))
	}

	r, err := h.recreate(h.at(bi), main, peer)
	if err != nil {
		return false, curated.Errorf(DesyncError, err)
	}

	// take what we need from the existing states and patches before they are
	// replaced. the first value recorded for a frame is the one that is used
	recorded := make(map[uint64]State, h.count-bi)
	for i := bi; i < h.count; i++ {
		s := h.at(i)
		if _, ok := recorded[s.Frame]; !ok {
			recorded[s.Frame] = *s
		}
	}

	remote := make(map[uint64]userinput.Input, len(h.patches))
	resets := make(map[uint64]bool)
	for _, p := range h.patches {
		if p.Reset {
			resets[p.Frame] = true
			continue
		}
		if _, ok := remote[p.Frame]; !ok {
			remote[p.Frame] = p.Input
		}
	}

	// the history is only changed once the replay has completed
	replayed := make([]State, 0, toFrame-baseFrame+2)

	for i := baseFrame; i <= toFrame+1; i++ {
		s := State{
			Frame:       i,
			provisional: i == toFrame+1,
		}

		if rec, ok := recorded[i]; ok {
			s.Input = rec.Input
			s.Reset = rec.Reset
			s.Remote = rec.Remote
			s.HasRemote = rec.HasRemote
			s.PeerReset = rec.PeerReset
		}
		if !s.HasRemote {
			s.Remote, s.HasRemote = remote[i]
		}
		s.PeerReset = s.PeerReset || resets[i]

		s.Main, err = r.main.Save()
		if err != nil {
			return false, curated.Errorf(DesyncError, err)
		}
		if r.peer != nil {
			s.Peer, err = r.peer.Save()
			if err != nil {
				return false, curated.Errorf(DesyncError, err)
			}
		}

		replayed = append(replayed, s)

		if i > toFrame {
			break
		}

		if s.Reset {
			r.main.Reset()
		}
		s.Input.Send(r.main)

		if r.peer != nil {
			if s.PeerReset {
				r.peer.Reset()
			}
			s.Remote.Send(r.peer)
		}

		for range hardware.TicksPerFrame {
			r.tick()
		}
	}

	// states before the base frame are unaffected and are kept
	h.truncate(bi)
	h.patches = h.patches[:0]
	for _, s := range replayed {
		h.append(s)
	}

	return true, nil
}
