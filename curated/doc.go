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

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with the Errorf() function, which takes a
// formatting pattern and placeholder values. The pattern is remembered and
// can be tested for later:
//
//	e := curated.Errorf(rewind.DesyncError, frame)
//
//	if curated.Is(e, rewind.DesyncError) {
//		// the session can not continue
//	}
//
// Has() is like Is() but searches the entire chain of curated errors found in
// the placeholder values. Patterns that are meant to be tested for are
// exported as string constants by the package that creates the error.
//
// The message returned by Error() is normalised so that adjacent duplicate
// parts of the chain are removed. A part is the text between ": " separators.
// This means that a function can wrap an error with its package tag without
// worrying whether the callee has already done so:
//
//	protocol: protocol: short read
//
// becomes
//
//	protocol: short read
//
// Curated errors also implement Unwrap() so that non-curated errors passed as
// placeholder values, io.EOF for example, can still be found with errors.Is()
// from the standard library.
package curated
