package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Output streams; tests swap them
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Confirm asks a yes/no question on stdin. --yes answers it up front.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	return confirm(os.Stdin, prompt, defaultYes)
}

func confirm(in io.Reader, prompt string, defaultYes bool) (bool, error) {
	if skipConfirm {
		return true, nil
	}

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(stdout, "%s %s: ", prompt, hint)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// messageKind pairs the glyph with the plain prefix used under --no-color
type messageKind struct {
	glyph    string
	plain    string
	toStderr bool
}

var (
	kindSuccess = messageKind{glyph: "✓", plain: "OK:"}
	kindInfo    = messageKind{glyph: "ℹ", plain: "INFO:"}
	kindWarning = messageKind{glyph: "⚠", plain: "WARNING:", toStderr: true}
	kindError   = messageKind{glyph: "✗", plain: "ERROR:", toStderr: true}
)

func emit(kind messageKind, format string, args ...interface{}) {
	if quiet && !kind.toStderr {
		return
	}
	w := stdout
	if kind.toStderr {
		w = stderr
	}
	prefix := kind.glyph
	if noColor {
		prefix = kind.plain
	}
	fmt.Fprintf(w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// PrintSuccess reports a completed action; --quiet hides it
func PrintSuccess(format string, args ...interface{}) { emit(kindSuccess, format, args...) }

// PrintInfo reports progress; --quiet hides it
func PrintInfo(format string, args ...interface{}) { emit(kindInfo, format, args...) }

// PrintWarning always goes to stderr
func PrintWarning(format string, args ...interface{}) { emit(kindWarning, format, args...) }

// PrintError always goes to stderr
func PrintError(format string, args ...interface{}) { emit(kindError, format, args...) }

// Global flags, set by the root command
var (
	quiet       bool
	noColor     bool
	skipConfirm bool
	verbose     bool

	workbookOverride string
	localeOverride   string
)

// SetGlobalFlags sets the global flag values from the cmd package
func SetGlobalFlags(q, nc, sc, v bool) {
	quiet = q
	noColor = nc
	skipConfirm = sc
	verbose = v
}

// SetSettingsOverrides records --workbook and --locale; empty values leave
// the settings file in charge.
func SetSettingsOverrides(workbookPath, locale string) {
	workbookOverride = workbookPath
	localeOverride = locale
}

// Quiet reports whether informational output is suppressed
func Quiet() bool {
	return quiet
}
