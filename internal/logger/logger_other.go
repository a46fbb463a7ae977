//go:build !darwin && !linux

package logger

import (
	"os"
	"regexp"

	"golang.org/x/term"
)

// Colour escapes are only emitted where the console is known to understand
// them; elsewhere they are stripped before writing.
const SupportsColorEscapes = false

var colorEscape = regexp.MustCompile("\033\\[[0-9;]*m")

func GetTerminalInfo(file *os.File) (info TerminalInfo) {
	fd := int(file.Fd())

	if term.IsTerminal(fd) {
		info.IsTTY = true
		if width, height, err := term.GetSize(fd); err == nil {
			info.Width = width
			info.Height = height
		}
	}

	return
}

func writeStringWithColor(file *os.File, text string) {
	file.WriteString(colorEscape.ReplaceAllString(text, ""))
}
