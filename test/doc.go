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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a failure with t.Errorf() and allow the test
// to continue. The Demand*() functions use t.Fatalf() and should be used when
// the rest of the test depends on the value being correct.
//
// ExpectSuccess() and ExpectFailure() understand the bool and error types.
// Note that nil is considered a success. This is because of how errors are
// used in Go, where a nil error indicates that nothing went wrong.
//
// The RingWriter type implements the io.Writer interface and is used to
// capture the most recent output of a writer, for example the echo of the
// logger package.
package test
