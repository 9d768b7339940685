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

package random_test

import (
	"testing"

	"github.com/jetsetilly/gopherlink/random"
	"github.com/jetsetilly/gopherlink/test"
)

type clock uint64

func (c *clock) Frame() uint64 {
	return uint64(*c)
}

func TestRandom(t *testing.T) {
	var c clock = 100

	a := random.NewRandom(&c, 1)
	b := random.NewRandom(&c, 1)
	a.ZeroSeed = true
	b.ZeroSeed = true

	for i := 1; i < 256; i++ {
		test.ExpectEquality(t, a.Intn(i), b.Intn(i))
	}

	// numbers repeat when the frame is revisited
	v := a.Rand().Int63()
	c = 101
	w := a.Rand().Int63()
	test.ExpectInequality(t, v, w)
	c = 100
	test.ExpectEquality(t, a.Rand().Int63(), v)

	// a different seed gives a different sequence
	d := random.NewRandom(&c, 2)
	d.ZeroSeed = true
	test.ExpectInequality(t, d.Rand().Int63(), v)
}
