// SPDX-License-Identifier: Apache-2.0

package cmdutil

import (
	"bytes"
	"io"
)

type prefixWriter struct {
	w           io.Writer
	atLineStart bool
}

// Prefixed indents streamed command output under the action line
func Prefixed(w io.Writer) io.Writer {
	return &prefixWriter{w: w, atLineStart: true}
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	rest := b
	for len(rest) > 0 {
		if p.atLineStart {
			if _, err := io.WriteString(p.w, "    │ "); err != nil {
				return 0, err
			}
		}

		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i+1]
		}
		if _, err := p.w.Write(line); err != nil {
			return 0, err
		}

		p.atLineStart = line[len(line)-1] == '\n'
		rest = rest[len(line):]
	}
	return len(b), nil
}
