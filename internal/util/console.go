package util

import (
	"bufio"
	"os"
	"strings"

	"github.com/fatih/color"
)

var Red = color.New(color.FgRed)
var RedBold = color.New(color.FgRed).Add(color.Bold)
var Yellow = color.New(color.FgYellow)
var YellowBold = color.New(color.FgYellow).Add(color.Bold)
var Cyan = color.New(color.FgCyan)
var CyanBold = color.New(color.FgCyan).Add(color.Bold)
var Green = color.New(color.FgGreen)
var GreenBold = color.New(color.FgGreen).Add(color.Bold)
var Magenta = color.New(color.FgMagenta)

var stdin = bufio.NewScanner(os.Stdin)

func Scanline() string {
	if stdin.Scan() {
		return stdin.Text()
	}
	color.Red("\nInterrupted")
	os.Exit(1)
	return ""
}

// ScanlineTrim : Scans input and trims
func ScanlineTrim() string {
	return strings.TrimSpace(Scanline())
}

// ScanlineDefault returns the trimmed input, or def when the input is empty
func ScanlineDefault(def string) string {
	if line := ScanlineTrim(); line != "" {
		return line
	}
	return def
}
