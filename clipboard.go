package regmv

import (
	"strings"

	"github.com/atotto/clipboard"
)

// ClipboardWriter receives the plan listing when copying is requested.
type ClipboardWriter interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// SystemClipboard returns the platform clipboard.
func SystemClipboard() ClipboardWriter { return systemClipboard{} }

type clipboardError string

func (e clipboardError) Error() string { return string(e) }

const errClipboardUnsupported = clipboardError("no clipboard utility available")

func copyPlan(cb ClipboardWriter, plan Plan) error {
	return cb.WriteAll(strings.Join(plan.Lines(), "\n") + "\n")
}
