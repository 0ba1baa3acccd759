package render

// ANSI SGR sequences used by the terminal views.
const (
	reset = "\x1b[0m"
	bold  = "\x1b[1m"
	dim   = "\x1b[2m"

	fgRed    = "\x1b[31m"
	fgGreen  = "\x1b[32m"
	fgYellow = "\x1b[33m"
	fgBlue   = "\x1b[34m"

	bgRed    = "\x1b[41m"
	bgGreen  = "\x1b[42m"
	bgYellow = "\x1b[43m"
)

// Style applies SGR codes unless disabled. The zero value is colorless.
type Style struct {
	Color bool
}

func (s Style) paint(code, text string) string {
	if !s.Color || code == "" {
		return text
	}
	return code + text + reset
}
