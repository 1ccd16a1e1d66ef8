//go:build !darwin && !linux
// +build !darwin,!linux

package logger

import (
	"os"
	"regexp"

	"github.com/mattn/go-isatty"
)

const SupportsColorEscapes = false

func GetTerminalInfo(file *os.File) (info TerminalInfo) {
	fd := file.Fd()
	info.IsTTY = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return
}

var colorEscapes = regexp.MustCompile("\033\\[[0-9;]*m")

func writeStringWithColor(file *os.File, text string) {
	file.WriteString(colorEscapes.ReplaceAllString(text, ""))
}
