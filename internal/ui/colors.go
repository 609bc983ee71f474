package ui

// The Color* helpers return the escape code for a role in the active theme.
// They return "" when colors are disabled, so callers can concatenate
// unconditionally.

func ColorReset() string  { return GetCurrentTheme().Reset }
func ColorBlue() string   { return GetCurrentTheme().Primary }
func ColorGreen() string  { return GetCurrentTheme().Success }
func ColorYellow() string { return GetCurrentTheme().Warning }
func ColorRed() string    { return GetCurrentTheme().Error }
func ColorGrey() string   { return GetCurrentTheme().Secondary }

// Colorize wraps s in color and a reset.
func Colorize(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + ColorReset()
}
