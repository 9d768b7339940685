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
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/emulation"
	"github.com/jetsetilly/gopherlink/environment"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/limiter"
	"github.com/jetsetilly/gopherlink/notifications"
	"github.com/jetsetilly/gopherlink/protocol"
	"github.com/jetsetilly/gopherlink/rewind"
	"github.com/jetsetilly/gopherlink/savestate"
	"github.com/jetsetilly/gopherlink/userinput"
)

// the number of requests that can be queued before the requesting goroutine
// blocks
const requestQueueLen = 256

// how often the owner goroutine checks for requests when there is no running
// session
const idlePeriod = 10 * time.Millisecond

// Config for a new Controller. The Env and Prefs fields are required. All
// other fields are optional.
type Config struct {
	Env   *environment.Environment
	Prefs *Preferences

	// local user input. a new Aggregator is created if one is not supplied
	Input *userinput.Aggregator

	// receives events from the main machine
	Observer hardware.Observer

	// save-state slots. without a store SaveSnapshot() and LoadSnapshot()
	// will fail
	Store *savestate.Store
}

// Controller owns the current session and runs it in its own goroutine. All
// functions are safe to call from any goroutine. With the exception of
// SaveSnapshot(), LoadSnapshot() and Inspect(), requests are queued and the
// functions return immediately.
type Controller struct {
	env   *environment.Environment
	prefs *Preferences
	input *userinput.Aggregator
	obs   hardware.Observer
	store *savestate.Store
	lmtr  *limiter.Limiter

	requests chan func()
	started  atomic.Bool
	quit     atomic.Bool
	done     chan struct{}

	// published copies of session information
	state atomic.Int32
	mode  atomic.Int32
	frame atomic.Uint64

	// the fields below are only accessed by the owner goroutine

	session Session

	// the local cartridge and the peer's cartridge
	cart     *hardware.Cartridge
	peerCart *hardware.Cartridge

	// the link to the peer. nil if there is no link
	link   Sender
	master bool

	// a game was loaded locally and the peer has not yet replied with its
	// own game. messages from the peer are ignored until it does
	awaiting bool

	// the peer loaded a game before the local user did. it will not send
	// its game again
	peerAwaiting bool

	paused bool

	fps float64
}

// NewController is the preferred method of initialisation for the Controller
// type.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Env == nil || cfg.Prefs == nil {
		return nil, curated.Errorf(SessionError, "controller requires an environment and preferences")
	}

	c := &Controller{
		env:      cfg.Env,
		prefs:    cfg.Prefs,
		input:    cfg.Input,
		obs:      cfg.Observer,
		store:    cfg.Store,
		requests: make(chan func(), requestQueueLen),
		done:     make(chan struct{}),
	}

	if c.input == nil {
		c.input = &userinput.Aggregator{}
	}

	c.fps = c.prefs.FPS.Get().(float64)
	c.lmtr = limiter.NewLimiter(float32(c.fps))

	c.state.Store(int32(emulation.Stopped))
	c.mode.Store(int32(emulation.ModeNone))

	return c, nil
}

// Input returns the aggregator for the local user's input.
func (c *Controller) Input() *userinput.Aggregator {
	return c.input
}

// State returns the current state of the emulation.
func (c *Controller) State() emulation.State {
	return emulation.State(c.state.Load())
}

// Mode returns the kind of the current session.
func (c *Controller) Mode() emulation.Mode {
	return emulation.Mode(c.mode.Load())
}

// Frame returns the current frame number of the session.
func (c *Controller) Frame() uint64 {
	return c.frame.Load()
}

// Measured returns the measured number of frames per second.
func (c *Controller) Measured() float32 {
	return c.lmtr.Measured.Load().(float32)
}

func (c *Controller) push(f func()) {
	select {
	case c.requests <- f:
	case <-c.done:
	}
}

// call runs the function on the owner goroutine and waits for the result.
func (c *Controller) call(f func() error) error {
	if !c.started.Load() {
		return curated.Errorf(SessionError, "controller is not running")
	}

	res := make(chan error, 1)
	select {
	case c.requests <- func() { res <- f() }:
	case <-c.done:
		return curated.Errorf(SessionError, "controller has stopped")
	}

	select {
	case err := <-res:
		return err
	case <-c.done:
		select {
		case err := <-res:
			return err
		default:
		}
		return curated.Errorf(SessionError, "controller has stopped")
	}
}

// Start the owner goroutine. Requests made before Start() are serviced in
// order once the goroutine has started.
func (c *Controller) Start() {
	if c.started.Swap(true) {
		return
	}
	go c.run()
}

// Stop the session and wait for the owner goroutine to end. If there is a
// link then the peer is told that the local machine has stopped.
func (c *Controller) Stop() {
	if !c.started.Load() {
		return
	}
	c.quit.Store(true)
	<-c.done
}

// Load a game. If there is a link the game is sent to the peer and the linked
// session starts once both users have loaded a game.
func (c *Controller) Load(cart *hardware.Cartridge) {
	c.push(func() { c.load(cart) })
}

// Link attaches the session to a peer. If a game has already been loaded it is
// sent to the peer. Exactly one side of the link must be the master.
func (c *Controller) Link(link Sender, master bool) {
	c.push(func() {
		c.link = link
		c.master = master
		c.awaiting = false
		c.peerAwaiting = false
		if c.cart != nil {
			if err := c.link.Send(protocol.PeerLoaded{ROM: c.cart.ROM, Battery: c.cart.Battery}); err != nil {
				c.unlink(err)
				return
			}
			c.awaiting = true
		}
	})
}

// Unlink ends the link to the peer. A linked session is replaced by a basic
// session that continues the emulation of the main machine. The reason is
// included in the LinkLost notification.
func (c *Controller) Unlink(reason error) {
	c.push(func() { c.unlink(reason) })
}

// Deliver a message from the peer. Deliver can be used as a protocol.Handler.
func (c *Controller) Deliver(m protocol.Message) {
	c.push(func() { c.deliver(m) })
}

// Reset the main machine at the next frame boundary.
func (c *Controller) Reset() {
	c.push(func() {
		if c.session != nil {
			c.session.Reset()
		}
	})
}

// Pause the emulation. The peer is told if there is a link.
func (c *Controller) Pause() {
	c.push(func() { c.pause(true) })
}

// Resume the emulation. The peer is told if there is a link.
func (c *Controller) Resume() {
	c.push(func() { c.resume(true) })
}

// SaveSnapshot saves the main machine to the save-state slot. Only available
// in standalone mode.
func (c *Controller) SaveSnapshot(slot int) error {
	return c.call(func() error {
		b, err := c.basic()
		if err != nil {
			return err
		}
		s, err := b.Save()
		if err != nil {
			return curated.Errorf(SessionError, err)
		}
		if err := c.store.Save(b.Cartridge().Checksum, slot, s); err != nil {
			return err
		}
		c.notify(notifications.NotifySnapshotSaved, fmt.Sprintf("%d", slot))
		return nil
	})
}

// LoadSnapshot restores the main machine from the save-state slot. Only
// available in standalone mode.
func (c *Controller) LoadSnapshot(slot int) error {
	return c.call(func() error {
		b, err := c.basic()
		if err != nil {
			return err
		}
		s, _, err := c.store.Load(b.Cartridge().Checksum, slot)
		if err != nil {
			return err
		}
		if err := b.Restore(s); err != nil {
			return err
		}
		c.notify(notifications.NotifySnapshotLoaded, fmt.Sprintf("%d", slot))
		return nil
	})
}

// Inspect runs the function on the owner goroutine, between frames. The
// session argument is nil if there is no session. The session must not be
// retained.
func (c *Controller) Inspect(f func(Session)) error {
	return c.call(func() error {
		f(c.session)
		return nil
	})
}

func (c *Controller) basic() (*Basic, error) {
	if c.store == nil {
		return nil, curated.Errorf(SessionError, "no save-state store")
	}
	b, ok := c.session.(*Basic)
	if !ok {
		return nil, curated.Errorf(SessionError, "save-states are only available in standalone mode")
	}
	return b, nil
}

func (c *Controller) notify(notice notifications.Notice, detail string) {
	if err := c.env.Notify.Notify(notice, detail); err != nil {
		c.env.Logf("session", "%v", err)
	}
}

func (c *Controller) setState(state emulation.State) {
	c.state.Store(int32(state))
}

// replace the current session. a nil session stops the emulation
func (c *Controller) setSession(s Session) {
	c.session = s
	if s == nil {
		c.mode.Store(int32(emulation.ModeNone))
		c.setState(emulation.Stopped)
		return
	}

	c.mode.Store(int32(s.Mode()))
	c.frame.Store(s.Frame())
	c.paused = false
	c.setState(emulation.Running)
	c.notify(notifications.NotifyEmulationStarted, s.Cartridge().Title)
	c.env.Logf("session", "%s session: %s", s.Mode(), s.Cartridge())
}

func (c *Controller) startBasic() {
	b, err := NewBasic(c.cart, c.input, c.obs)
	if err != nil {
		c.env.Logf("session", "%v", err)
		c.setSession(nil)
		return
	}
	c.setSession(b)
}

func (c *Controller) startLinked() {
	l, err := NewLinked(c.env, c.prefs, Machines{Main: c.cart, Peer: c.peerCart, Master: c.master}, c.input, c.link, c.obs)
	if err != nil {
		c.env.Logf("session", "%v", err)
		c.setSession(nil)
		return
	}
	c.setSession(l)
}

func (c *Controller) load(cart *hardware.Cartridge) {
	c.cart = cart

	if c.link == nil {
		c.startBasic()
		return
	}

	c.setSession(nil)

	if err := c.link.Send(protocol.PeerLoaded{ROM: cart.ROM, Battery: cart.Battery}); err != nil {
		c.unlink(err)
		return
	}

	if c.peerAwaiting && c.peerCart != nil {
		c.peerAwaiting = false
		c.startLinked()
		return
	}

	c.awaiting = true
}

func (c *Controller) deliver(m protocol.Message) {
	if c.link == nil {
		return
	}

	l, linked := c.session.(*Linked)
	if c.awaiting {
		linked = false
	}

	switch m := m.(type) {
	case protocol.PeerLoaded:
		cart, err := hardware.NewCartridge(m.ROM, m.Battery)
		if err != nil {
			c.env.Logf("session", "%v", err)
			return
		}
		c.peerCart = cart
		c.notify(notifications.NotifyPeerLoaded, cart.Title)

		if c.cart == nil {
			c.peerAwaiting = true
			return
		}

		if c.awaiting {
			c.awaiting = false
			c.startLinked()
			return
		}

		// the peer has changed game while we have a game loaded. tell the
		// peer which game we are playing so that it can start the new linked
		// session
		if err := c.link.Send(protocol.PeerLoaded{ROM: c.cart.ROM, Battery: c.cart.Battery}); err != nil {
			c.unlink(err)
			return
		}
		c.startLinked()

	case protocol.Sync:
		if linked {
			l.RemoteInput(m.Frame, m.Input)
		}

	case protocol.Reset:
		if linked {
			l.RemoteReset()
		}

	case protocol.Stop:
		c.peerAwaiting = false
		if linked {
			if err := l.RemoteStop(); err != nil {
				c.fault(err)
			}
		}

	case protocol.Pause:
		c.pause(false)

	case protocol.Resume:
		c.resume(false)
	}
}

func (c *Controller) pause(tellPeer bool) {
	if c.session == nil || c.paused {
		return
	}
	c.paused = true
	c.setState(emulation.Paused)
	c.notify(notifications.NotifyEmulationPaused, "")

	if tellPeer && c.link != nil {
		if err := c.link.Send(protocol.Pause{}); err != nil {
			c.unlink(err)
		}
	}
}

func (c *Controller) resume(tellPeer bool) {
	if c.session == nil || !c.paused {
		return
	}
	c.paused = false
	c.setState(emulation.Running)
	c.notify(notifications.NotifyEmulationResumed, "")

	if tellPeer && c.link != nil {
		if err := c.link.Send(protocol.Resume{}); err != nil {
			c.unlink(err)
		}
	}
}

func (c *Controller) unlink(reason error) {
	if c.link == nil {
		return
	}

	c.link = nil
	c.awaiting = false
	c.peerAwaiting = false
	c.peerCart = nil

	if l, ok := c.session.(*Linked); ok {
		c.session = l.Standalone()
		c.mode.Store(int32(emulation.ModeStandalone))
	} else if c.session == nil && c.cart != nil {
		c.startBasic()
	}

	c.env.Logf("session", "link lost: %v", reason)
	c.notify(notifications.NotifyLinkLost, fmt.Sprintf("%v", reason))
}

// fault handles an error returned by the session
func (c *Controller) fault(err error) {
	c.env.Logf("session", "%v", err)

	switch {
	case curated.Is(err, LinkError):
		c.unlink(err)

	case curated.Is(err, rewind.DesyncError):
		c.notify(notifications.NotifyDesync, err.Error())
		if c.link != nil {
			if err := c.link.Send(protocol.Stop{}); err != nil {
				c.unlink(err)
			}
		}
		c.setSession(nil)
		c.notify(notifications.NotifyEmulationStopped, "")

	default:
		c.setSession(nil)
		c.notify(notifications.NotifyEmulationStopped, "")
	}
}

// service all queued requests without blocking
func (c *Controller) service() {
	for {
		select {
		case f := <-c.requests:
			f()
		default:
			return
		}
	}
}

func (c *Controller) pacing() {
	c.lmtr.Active = c.prefs.Pacing.Get().(bool)
	if fps := c.prefs.FPS.Get().(float64); fps != c.fps {
		c.fps = fps
		c.lmtr.SetLimit(float32(fps))
	}
}

func (c *Controller) run() {
	defer close(c.done)

	idle := time.NewTicker(idlePeriod)
	defer idle.Stop()

	for !c.quit.Load() {
		c.service()

		if c.session == nil || c.paused {
			select {
			case f := <-c.requests:
				f()
			case <-idle.C:
			}
			continue
		}

		c.pacing()

		err := c.session.RunFrame()
		if c.session != nil {
			c.frame.Store(c.session.Frame())
		}
		if err != nil {
			c.fault(err)
			continue
		}

		c.lmtr.CheckFrame()
		c.lmtr.MeasureActual()
	}

	c.setState(emulation.Ending)

	if c.link != nil {
		if err := c.link.Send(protocol.Stop{}); err != nil {
			c.env.Logf("session", "%v", err)
		}
	}

	c.lmtr.Stop()
	c.session = nil
	c.mode.Store(int32(emulation.ModeNone))
	c.setState(emulation.Stopped)
	c.notify(notifications.NotifyEmulationStopped, "")
}
