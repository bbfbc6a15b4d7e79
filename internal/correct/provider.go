// Package correct abstracts the operator-facing side of a correction
// session, so the run loop can be driven headlessly by a scripted provider
// in tests and by a promptui terminal session in the CLI.
package correct

// Provider collects operator decisions during a correction session.
// Implementations report cancellation by returning ErrCancelled (or a
// wrapped equivalent); the session aborts on any error.
type Provider interface {
	// Edit presents a field with its current value and returns the value
	// to keep. Returning current unchanged confirms the field.
	Edit(label, current string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)
	// Choose picks one of options by index.
	Choose(label string, options []string) (int, error)
	// Show prints informational text (violations, record summaries).
	Show(text string)
}
