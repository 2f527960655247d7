// ABOUTME: Terminal notifier and a fixed-position locator.
// ABOUTME: Alerts print in red; the locator answers with the configured home position.
package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
)

// Notifier prints alerts to a writer.
type Notifier struct {
	out    io.Writer
	alerts []string
}

var _ session.Notifier = (*Notifier)(nil)

// NewNotifier returns a notifier writing to out.
func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

func (n *Notifier) Alert(msg string) {
	n.alerts = append(n.alerts, msg)
	color.New(color.FgRed).Fprintf(n.out, "✗ %s\n", msg)
}

// Alerts returns every message shown so far.
func (n *Notifier) Alerts() []string {
	return append([]string(nil), n.alerts...)
}

// StaticLocator reports a fixed position, typically the configured home.
type StaticLocator struct {
	Home *models.Location
}

var _ session.Locator = StaticLocator{}

// Locate returns Home, or ErrGeolocationUnavailable when none is set.
func (l StaticLocator) Locate(ctx context.Context) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, fmt.Errorf("%w: %v", session.ErrGeolocationUnavailable, err)
	}
	if l.Home == nil {
		return models.Location{}, fmt.Errorf("%w: no home location configured (run: mapty config set-home <lat> <lng>)", session.ErrGeolocationUnavailable)
	}
	return *l.Home, nil
}
