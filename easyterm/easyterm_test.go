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

package easyterm_test

import (
	"os"
	"testing"

	"github.com/jetsetilly/gopherlink/easyterm"
	"github.com/jetsetilly/gopherlink/test"
)

func TestNotATerminal(t *testing.T) {
	var term easyterm.Terminal
	test.ExpectFailure(t, term.Initialise(nil))

	r, w, err := os.Pipe()
	test.DemandSuccess(t, err)
	defer r.Close()
	defer w.Close()
	test.ExpectFailure(t, term.Initialise(r))
}

func TestSequences(t *testing.T) {
	test.ExpectEquality(t, easyterm.CSI("A"), "\x1b[A")
	test.ExpectEquality(t, easyterm.SS3("D"), "\x1bOD")
	test.ExpectEquality(t, easyterm.CSI("15~"), "\x1b[15~")
}
