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

package userinput_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jetsetilly/gopherlink/hardware/joypad"
	"github.com/jetsetilly/gopherlink/test"
	"github.com/jetsetilly/gopherlink/userinput"
)

// records the order of button events
type recorder struct {
	events []string
}

func (r *recorder) Press(b joypad.Button) {
	r.events = append(r.events, fmt.Sprintf("+%s", b))
}

func (r *recorder) Release(b joypad.Button) {
	r.events = append(r.events, fmt.Sprintf("-%s", b))
}

func (r *recorder) String() string {
	return strings.Join(r.events, " ")
}

func TestInput(t *testing.T) {
	in := userinput.NewInput([]joypad.Button{joypad.B, joypad.Up, joypad.B}, []joypad.Button{joypad.Start, joypad.Left})
	test.ExpectEquality(t, in.String(), "+UP +B -LEFT -START")

	// presses are delivered before releases
	r := &recorder{}
	in.Send(r)
	test.ExpectEquality(t, r.String(), "+UP +B -LEFT -START")

	// a button in both lists is a press
	in = userinput.NewInput([]joypad.Button{joypad.A}, []joypad.Button{joypad.A, joypad.Down})
	test.ExpectEquality(t, in.String(), "+A -DOWN")

	var empty userinput.Input
	test.ExpectSuccess(t, empty.IsEmpty())
	test.ExpectSuccess(t, empty.Equal(userinput.NewInput([]joypad.Button{}, nil)))
	test.ExpectFailure(t, empty.Equal(in))
	test.ExpectSuccess(t, in.Equal(userinput.FromBits(1<<joypad.A, 1<<joypad.Down)))
	test.ExpectEquality(t, empty.String(), "none")
}

func TestAggregator(t *testing.T) {
	var agg userinput.Aggregator

	test.ExpectSuccess(t, agg.Drain().IsEmpty())

	agg.Press(joypad.Start)
	agg.Press(joypad.Right)
	agg.Release(joypad.A)
	in := agg.Drain()
	test.ExpectEquality(t, in.String(), "+RIGHT +START -A")

	// draining clears the aggregator
	test.ExpectSuccess(t, agg.Drain().IsEmpty())

	// a press cancels a pending release and vice versa
	agg.Release(joypad.B)
	agg.Press(joypad.B)
	agg.Press(joypad.Up)
	agg.Release(joypad.Up)
	test.ExpectEquality(t, agg.Drain().String(), "+B -UP")

	// invalid buttons are ignored
	agg.Press(joypad.NumButtons)
	test.ExpectSuccess(t, agg.Drain().IsEmpty())
}

func TestAggregatorConcurrency(t *testing.T) {
	var agg userinput.Aggregator
	var wg sync.WaitGroup

	for b := joypad.Button(0); b < joypad.NumButtons; b++ {
		wg.Add(1)
		go func(b joypad.Button) {
			defer wg.Done()
			for range 100 {
				agg.Press(b)
			}
		}(b)
	}
	wg.Wait()

	in := agg.Drain()
	test.ExpectEquality(t, len(in.Pressed), int(joypad.NumButtons))
	test.ExpectEquality(t, len(in.Released), 0)
}

func TestKeyboard(t *testing.T) {
	var agg userinput.Aggregator
	kb := userinput.NewKeyboard(&agg, 100*time.Millisecond)
	now := time.Now()

	act := kb.Handle([]byte("z\x1b[A"), now)
	test.ExpectEquality(t, act, userinput.NoAction)
	test.ExpectEquality(t, agg.Drain().String(), "+UP +A")

	// key repeat extends the hold period without a second press
	kb.Handle([]byte("z"), now.Add(80*time.Millisecond))
	kb.Expire(now.Add(120 * time.Millisecond))
	test.ExpectEquality(t, agg.Drain().String(), "-UP")

	kb.Expire(now.Add(180 * time.Millisecond))
	test.ExpectEquality(t, agg.Drain().String(), "-A")

	// actions
	test.ExpectEquality(t, kb.Handle([]byte("p"), now), userinput.Pause)
	test.ExpectEquality(t, kb.Handle([]byte("\x1b[15~"), now), userinput.SaveState)
	test.ExpectEquality(t, kb.Handle([]byte("\x1b"), now), userinput.Quit)
	test.ExpectEquality(t, kb.Handle([]byte("\x1b[99~"), now), userinput.NoAction)
	test.ExpectEquality(t, kb.Handle([]byte{0x1a}, now), userinput.Suspend)

	kb.Handle([]byte("\r"), now)
	kb.ReleaseAll()
	test.ExpectEquality(t, agg.Drain().String(), "-START")
}
