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

package hardware

import (
	"hash/crc32"
	"strings"

	"github.com/jetsetilly/gopherlink/curated"
)

// the cartridge header holds the title at this location
const (
	titleOrigin = 0x134
	titleMemtop = 0x143
)

// Cartridge is the data needed to start a console. It is also the data sent
// to the peer when a game is loaded.
type Cartridge struct {
	Title   string
	ROM     []byte
	Battery []byte

	// crc32 of the ROM data
	Checksum uint32
}

// NewCartridge is the preferred method of initialisation for the Cartridge
// type. The battery data can be nil.
func NewCartridge(rom []byte, battery []byte) (*Cartridge, error) {
	if len(rom) == 0 {
		return nil, curated.Errorf("cartridge: %v", "no ROM data")
	}

	cart := &Cartridge{
		ROM:      rom,
		Battery:  battery,
		Checksum: crc32.ChecksumIEEE(rom),
		Title:    "untitled",
	}

	if len(rom) > titleMemtop {
		t := strings.TrimRight(string(rom[titleOrigin:titleMemtop+1]), "\x00 ")
		if t != "" && isPrintable(t) {
			cart.Title = t
		}
	}

	return cart, nil
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}

func (cart *Cartridge) String() string {
	return cart.Title
}
