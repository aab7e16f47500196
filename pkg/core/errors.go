package core

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace groups every error registered by the ray tracer
const Codespace = "raytracer"

// Registered errors. Wrap them with errorsmod.Wrapf to add context;
// errors.Is matches the wrapped value against these sentinels.
var (
	ErrDegenerateGeometry = errorsmod.Register(Codespace, 2, "degenerate geometry")
	ErrInvalidMaterial    = errorsmod.Register(Codespace, 3, "invalid material")
	ErrInvalidConfig      = errorsmod.Register(Codespace, 4, "invalid render configuration")
	ErrUnknownScene       = errorsmod.Register(Codespace, 5, "unknown scene")
	ErrSceneFile          = errorsmod.Register(Codespace, 6, "malformed scene file")
	ErrMeshFile           = errorsmod.Register(Codespace, 7, "malformed mesh file")
)
