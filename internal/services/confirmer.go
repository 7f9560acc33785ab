package services

import (
	"context"

	"transportsystem/avganger/internal/constants"
)

// Confirmer blocks a destructive operation until the user affirms or declines.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Confirmed is a Confirmer with a fixed answer, used when the answer was
// given up front (for example a confirm=true query parameter).
type Confirmed bool

func (c Confirmed) Confirm(context.Context, string) bool { return bool(c) }

func confirmed(ctx context.Context, c Confirmer, prompt string) bool {
	return c != nil && c.Confirm(ctx, prompt)
}

// ImportModeChooser decides between replacing and merging on import.
type ImportModeChooser interface {
	ChooseImportMode(ctx context.Context, prompt string) constants.ImportMode
}

// FixedImportMode always answers with the same mode.
type FixedImportMode constants.ImportMode

func (m FixedImportMode) ChooseImportMode(context.Context, string) constants.ImportMode {
	return constants.ImportMode(m)
}
