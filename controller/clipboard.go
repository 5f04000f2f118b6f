package controller

import (
	"context"
	"encoding/base64"
	"io"

	"github.com/Laisky/errors/v2"
)

// Clipboard puts text where the user can paste it.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// ErrClipboardUnavailable is returned when no clipboard is attached to a view.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// OSC52Clipboard copies through the terminal's OSC 52 escape sequence.
type OSC52Clipboard struct {
	W io.Writer
}

func (o OSC52Clipboard) Copy(_ context.Context, text string) error {
	if o.W == nil {
		return ErrClipboardUnavailable
	}
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
	if _, err := io.WriteString(o.W, seq); err != nil {
		return errors.Wrap(err, "write osc52 sequence")
	}
	return nil
}

// deferredClipboard hands the text back to an HTTP client that performs the copy itself.
type deferredClipboard struct {
	text string
}

func (d *deferredClipboard) Copy(_ context.Context, text string) error {
	d.text = text
	return nil
}
