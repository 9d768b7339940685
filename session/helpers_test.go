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
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/jetsetilly/gopherlink/environment"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/hardware/joypad"
	"github.com/jetsetilly/gopherlink/logger"
	"github.com/jetsetilly/gopherlink/notifications"
	"github.com/jetsetilly/gopherlink/protocol"
	"github.com/jetsetilly/gopherlink/session"
	"github.com/jetsetilly/gopherlink/test"
)

func newCart(t *testing.T, title string, seed byte) *hardware.Cartridge {
	t.Helper()
	rom := make([]byte, 0x8000)
	for i := range rom {
		rom[i] = byte(i*7) ^ seed
	}
	copy(rom[0x134:0x144], make([]byte, 16))
	copy(rom[0x134:], title)
	cart, err := hardware.NewCartridge(rom, []byte{seed, 0x02, 0x03})
	test.DemandSuccess(t, err)
	return cart
}

func newEnv(label string, notify notifications.Notify) *environment.Environment {
	return environment.NewEnvironment(environment.Label(label), logger.NewLogger(100), notify)
}

func newPrefs(t *testing.T) *session.Preferences {
	t.Helper()
	prefs, err := session.NewPreferences()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, prefs.Pacing.Set(false))
	return prefs
}

// press or release a random button, or do nothing
func randomInput(rng *rand.Rand, agg interface {
	Press(joypad.Button)
	Release(joypad.Button)
}) {
	b := joypad.Button(rng.Intn(int(joypad.NumButtons)))
	switch rng.Intn(3) {
	case 0:
		agg.Press(b)
	case 1:
		agg.Release(b)
	}
}

// outbox is a Sender that keeps every message
type outbox struct {
	crit     sync.Mutex
	messages []protocol.Message
	fail     error
}

func (o *outbox) Send(m protocol.Message) error {
	o.crit.Lock()
	defer o.crit.Unlock()
	if o.fail != nil {
		return o.fail
	}
	o.messages = append(o.messages, m)
	return nil
}

func (o *outbox) take() []protocol.Message {
	o.crit.Lock()
	defer o.crit.Unlock()
	m := o.messages
	o.messages = nil
	return m
}

// presses collects JoypadPress events
type presses struct {
	crit sync.Mutex
	list []hardware.JoypadPress
}

func (p *presses) Notify(ev hardware.Event) {
	if ev, ok := ev.(hardware.JoypadPress); ok {
		p.crit.Lock()
		defer p.crit.Unlock()
		p.list = append(p.list, ev)
	}
}

func (p *presses) set() map[hardware.JoypadPress]bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	s := make(map[hardware.JoypadPress]bool)
	for _, ev := range p.list {
		s[ev] = true
	}
	return s
}

// notices collects notifications
type notices struct {
	crit sync.Mutex
	list []notifications.Notice
}

func (n *notices) Notify(notice notifications.Notice, _ string) error {
	n.crit.Lock()
	defer n.crit.Unlock()
	n.list = append(n.list, notice)
	return nil
}

func (n *notices) has(notice notifications.Notice) bool {
	n.crit.Lock()
	defer n.crit.Unlock()
	for _, m := range n.list {
		if m == notice {
			return true
		}
	}
	return false
}

func (n *notices) copy() []notifications.Notice {
	n.crit.Lock()
	defer n.crit.Unlock()
	return append([]notifications.Notice{}, n.list...)
}

// waitFor polls the condition until it is true. Fails the test if the
// condition is not met in good time.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
