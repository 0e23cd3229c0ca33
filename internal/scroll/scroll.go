// Package scroll derives the header's scrolled flag from the page offset.
package scroll

// Threshold is the vertical offset, in CSS pixels, past which the page
// counts as scrolled.
const Threshold = 50

const (
	solidHeader       = "bg-slate-900/90 backdrop-blur-xl border-b border-emerald-800/30"
	transparentHeader = "bg-transparent"
)

// Scrolled reports whether y is strictly past Threshold.
func Scrolled(y float64) bool {
	return y > Threshold
}

// HeaderClass returns the header background classes for a scroll state.
// The page renders both values so the client-side listener can swap them.
func HeaderClass(scrolled bool) string {
	if scrolled {
		return solidHeader
	}
	return transparentHeader
}
