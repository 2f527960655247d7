// ABOUTME: In-memory workout form for terminal sessions.
// ABOUTME: Values come from command flags or tool arguments instead of keystrokes.
package terminal

import (
	"sync"

	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
)

// Form holds the workout form state. It is safe for concurrent use.
type Form struct {
	mu        sync.Mutex
	values    session.FormValues
	visible   bool
	collapsed bool
}

var _ session.Form = (*Form)(nil)

// NewForm returns a hidden form with running selected.
func NewForm() *Form {
	return &Form{values: session.FormValues{Kind: string(models.KindRunning)}}
}

// Set replaces the form contents, as if the user typed them.
func (f *Form) Set(v session.FormValues) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.Kind == "" {
		v.Kind = f.values.Kind
	}
	f.values = v
}

func (f *Form) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = true
}

func (f *Form) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = false
	f.collapsed = true
}

func (f *Form) RestoreLayout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collapsed = false
}

// Clear empties the numeric fields and keeps the selected kind.
func (f *Form) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = session.FormValues{Kind: f.values.Kind}
}

func (f *Form) Values() session.FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *Form) Fill(v session.FormValues) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = v
}

func (f *Form) ToggleKindFields() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Kind = string(models.Kind(f.values.Kind).Other())
}

// Visible reports whether the form is shown.
func (f *Form) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Collapsed reports whether the form is hidden and waiting for its layout restore.
func (f *Form) Collapsed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.collapsed
}
