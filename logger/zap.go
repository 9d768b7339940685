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

package logger

import (
	"bytes"
	"io"

	"go.uber.org/zap"
)

// NewZapWriter returns an io.Writer that forwards echoed log entries to a
// zap logger. The tag and the detail of the entry become separate fields.
//
// Intended for use with SetEcho().
func NewZapWriter(z *zap.Logger) io.Writer {
	return &zapWriter{z: z}
}

type zapWriter struct {
	z *zap.Logger
}

func (w *zapWriter) Write(p []byte) (int, error) {
	n := len(p)
	for _, line := range bytes.Split(bytes.TrimSpace(p), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		tag, detail, ok := bytes.Cut(line, []byte(": "))
		if !ok {
			w.z.Info("", zap.ByteString("raw-msg", line))
			continue
		}
		w.z.Info(string(detail), zap.ByteString("tag", tag))
	}
	return n, nil
}
