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

// Package userinput collects button events from the user of the emulator and
// turns them into the per-frame Input applied to the emulated console.
//
// Button events can arrive from any goroutine. They are collected by the
// Aggregator until the frame driver drains them at the next frame boundary.
//
// The Keyboard type is a translation layer between the bytes read from a
// terminal and the Aggregator.
package userinput
