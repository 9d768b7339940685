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
	"io"

	"github.com/bradleyjkemp/memviz"
)

// Visualise writes a graphviz representation of the head state to the
// io.Writer.
func (h *History) Visualise(w io.Writer) {
	s, ok := h.Head()
	if !ok {
		return
	}
	memviz.Map(w, &s)
}
