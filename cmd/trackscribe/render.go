package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type checkKind int

const (
	checkInfo checkKind = iota
	checkOK
	checkWarn
	checkError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	checkLabelWidth = 22
	checkIndent     = "  "
)

func checkKindParts(kind checkKind) (label, color string) {
	switch kind {
	case checkOK:
		return "OK", ansiGreen
	case checkWarn:
		return "WARN", ansiYellow
	case checkError:
		return "ERROR", ansiRed
	default:
		return "INFO", ansiBlue
	}
}

// printCheckLine writes one aligned "label: [STATE] detail" line.
func printCheckLine(out io.Writer, label string, kind checkKind, detail string, colorize bool) {
	kindLabel, color := checkKindParts(kind)
	state := "[" + kindLabel + "]"
	if detail != "" {
		state += " " + detail
	}
	line := fmt.Sprintf("%s%-*s %s", checkIndent, checkLabelWidth, label+":", state)
	if colorize && color != "" {
		line = color + line + ansiReset
	}
	fmt.Fprintln(out, line)
}

func printSection(out io.Writer, title string, colorize bool) {
	header := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(header))
	if colorize {
		header = ansiBlue + header + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(out, header)
	fmt.Fprintln(out, rule)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
