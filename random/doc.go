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

// Package random provides random numbers that are tied to the frame counter
// of a session. The same frame always produces the same numbers, so input
// generated with this package is the same whether a frame is being run for
// the first time or is being replayed.
//
// Two instances with the same seed produce the same numbers for the same
// frame. If the same random numbers are required every single time then set
// ZeroSeed to true. This is useful for testing purposes.
package random
