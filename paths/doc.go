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

// Package paths prepares the paths to the files Gopherlink keeps between
// runs. For example, the default location of the save-state database:
//
//	d, err := paths.ResourcePath("states")
//
// If a directory called ".gopherlink" is present in the current directory
// then that is used as the base path. Otherwise the "gopherlink" directory
// in the user's config directory is used, as reported by os.UserConfigDir().
//
// On a modern Linux system, the example above will return:
//
//	/home/user/.config/gopherlink/states
package paths
