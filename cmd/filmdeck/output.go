package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kalambet/filmdeck/internal/screen"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

func printCards(w io.Writer, cards []screen.Card) {
	for i, c := range cards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", colorize(colorCyan, "["+c.Initial+"]"), colorize(colorBold, c.Title))
		fmt.Fprintf(w, "    %s\n", colorize(colorDim, c.Subtitle))
		for _, line := range c.Excerpt {
			fmt.Fprintf(w, "    %s\n", line)
		}
		fmt.Fprintf(w, "    %s\n", colorize(colorDim, "id: "+c.ID))
	}
}

func printDetails(w io.Writer, d screen.Details) {
	fmt.Fprintf(w, "%s %s\n", colorize(colorCyan, "["+d.Initial+"]"), colorize(colorBold, d.Title))
	if d.Heading != "" {
		fmt.Fprintln(w, d.Heading)
	}
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, line := range d.Lines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, colorize(colorDim, "from: "+d.From))
}
