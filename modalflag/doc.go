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

// Package modalflag is a wrapper for the pflag package. It provides a
// convenient method of handling program modes (and sub-modes) and allows
// different flags for each mode.
//
// Arguments are given once with NewArgs() and then Parse() is called for each
// layer of modes:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("PLAY", "HOST", "JOIN")
//	p, err := md.Parse()
//
// The first sub-mode is the default and is used if the first argument after
// the flags is not one of the listed sub-modes. Sub-mode comparisons are case
// insensitive.
//
// After deciding on the mode, the mode can add its own flags and parse again:
//
//	md.NewMode()
//	port := md.AddIntP("port", "p", 6688, "port number")
//	p, err = md.Parse()
//
// Flags must come before the sub-mode and any other arguments.
package modalflag
