package entities

import "transportsystem/avganger/internal/constants"

// Signal is one toast message for the presentation layer.
type Signal struct {
	Kind    constants.SignalKind `json:"kind"`
	Message string               `json:"message"`
}
