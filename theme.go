package forge

// Theme maps output roles to ANSI color indices (0-15) so terminal output
// follows the user's color scheme. A negative index disables color for
// that role.
type Theme struct {
	Accent  int // headings, project title
	Path    int // file paths
	Warning int // document warnings, rule findings
	Error   int // failures
	Success int // provider and stage lines
	Muted   int // sizes, links, code gutters
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Accent:  5,
		Path:    4,
		Warning: 3,
		Error:   1,
		Success: 2,
		Muted:   8,
	}
}

// PlainTheme disables every color.
func PlainTheme() Theme {
	return Theme{Accent: -1, Path: -1, Warning: -1, Error: -1, Success: -1, Muted: -1}
}
