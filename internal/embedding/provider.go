package embedding

import "context"

// Provider is the engine's minimal embedding contract (SPEC_FULL §4.9):
// a named, versioned text-to-vector function that can report its own
// availability so the Manager can probe before committing to it.
type Provider interface {
	Name() string
	Model() string
	Embed(ctx context.Context, text string) ([]float64, error)
	Available(ctx context.Context) bool
}

// Mode selects how the Manager picks a Provider.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeNone     Mode = "none"
	ModeLocal    Mode = "local-daemon"
	ModeInProc   Mode = "in-process"
	ModeRemote   Mode = "remote-http"
)
