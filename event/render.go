package event

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Render selects how payload bytes are written into an event line.
type Render int

const (
	// RenderBytes writes a bytes literal such as b'test'.
	RenderBytes Render = iota
	// RenderText writes the payload as text with control characters escaped.
	RenderText
	// RenderHex writes lower-case hex.
	RenderHex
)

func ParseRender(s string) (Render, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bytes":
		return RenderBytes, nil
	case "text":
		return RenderText, nil
	case "hex":
		return RenderHex, nil
	}
	return RenderBytes, fmt.Errorf("unknown render mode %q", s)
}

func (r Render) String() string {
	switch r {
	case RenderText:
		return "text"
	case RenderHex:
		return "hex"
	default:
		return "bytes"
	}
}

func (r Render) Format(payload []byte) string {
	switch r {
	case RenderText:
		return formatText(payload)
	case RenderHex:
		return hex.EncodeToString(payload)
	default:
		return formatBytes(payload)
	}
}

func formatBytes(payload []byte) string {
	var sb strings.Builder
	sb.Grow(len(payload) + 3)
	sb.WriteString("b'")
	for _, b := range payload {
		switch b {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if b < 0x20 || b > 0x7e {
				fmt.Fprintf(&sb, `\x%02x`, b)
				continue
			}
			sb.WriteByte(b)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func formatText(payload []byte) string {
	s := strings.TrimRight(string(payload), "\r\n")
	clean := strings.IndexFunc(s, func(r rune) bool {
		return r == unicode.ReplacementChar || unicode.IsControl(r)
	}) < 0
	if clean {
		return s
	}
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}
