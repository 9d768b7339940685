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

package random

import (
	"math/rand"
	"time"
)

// the base seed for all random numbers
var baseSeed int64

func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Clock is anything that reports the current frame.
type Clock interface {
	Frame() uint64
}

// Random is a random number generator that is sensitive to the frame number.
type Random struct {
	clock Clock
	seed  int64

	// use zero seed rather than the random base seed
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
// The seed distinguishes instances that share a clock.
func NewRandom(clock Clock, seed int64) *Random {
	return &Random{
		clock: clock,
		seed:  seed,
	}
}

// Rand returns a new generator for the current frame. Numbers drawn from the
// generator are the same every time the frame is reached.
func (rnd *Random) Rand() *rand.Rand {
	s := rnd.seed + int64(rnd.clock.Frame())
	if !rnd.ZeroSeed {
		s += baseSeed
	}
	return rand.New(rand.NewSource(s))
}

// Intn returns a number in the range [0,n) for the current frame.
func (rnd *Random) Intn(n int) int {
	return rnd.Rand().Intn(n)
}
