package render

// Band is one of the three score classes. Each class carries the codes for
// the score text, the banner background and the progress fill.
type Band struct {
	Name       string
	Label      string
	Text       string
	Background string
	Fill       string
}

var (
	BandLow  = Band{Name: "low", Label: "Low Match", Text: fgRed, Background: bgRed, Fill: fgRed}
	BandMid  = Band{Name: "mid", Label: "Moderate Match", Text: fgYellow, Background: bgYellow, Fill: fgYellow}
	BandHigh = Band{Name: "high", Label: "Strong Match", Text: fgGreen, Background: bgGreen, Fill: fgGreen}
)

// BandFor classifies score: below 60 is low, 60 up to (not including) 80 is
// mid, 80 and above is high.
func BandFor(score float64) Band {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 60:
		return BandMid
	}
	return BandLow
}
