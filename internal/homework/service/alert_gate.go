package service

// AlertGate decides whether a repeated error alert is sent.
//
// suppressRepeats 0 sends every alert. N > 0 lets every (N+1)-th identical
// alert through as a reminder. A negative value holds identical alerts until
// the text changes or Reset is called. Not safe for concurrent use; only the
// poll loop touches it.
type AlertGate struct {
	suppressRepeats int
	last            string
	suppressed      int
}

func NewAlertGate(suppressRepeats int) *AlertGate {
	return &AlertGate{suppressRepeats: suppressRepeats}
}

// Allow reports whether text should be sent now.
func (g *AlertGate) Allow(text string) bool {
	if text != g.last {
		g.last = text
		g.suppressed = 0
		return true
	}
	switch {
	case g.suppressRepeats == 0:
		return true
	case g.suppressRepeats < 0:
		return false
	}
	if g.suppressed < g.suppressRepeats {
		g.suppressed++
		return false
	}
	g.suppressed = 0
	return true
}

// Reset forgets the last alert after a clean cycle.
func (g *AlertGate) Reset() {
	g.last = ""
	g.suppressed = 0
}
