package board

// NoResetInput reports a reset control that is never pressed.
//
// This mirrors the devkit builds that compile without a reset line
// wired: the boot-time hold check runs and always falls through.
type NoResetInput struct{}

// Pressed always reports false.
func (NoResetInput) Pressed() bool { return false }

// StaticResetInput reports a fixed control state.
//
// The provision section of config.yaml drives it, so a bench operator
// can simulate holding the reset control through boot without hardware.
type StaticResetInput struct {
	Held bool
}

// Pressed reports the configured state.
func (s StaticResetInput) Pressed() bool { return s.Held }
