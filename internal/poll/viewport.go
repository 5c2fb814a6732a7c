package poll

// DefaultBottomThreshold is how close to the bottom (in scroll units) the
// user must be for auto-scroll to engage.
const DefaultBottomThreshold = 120

// Viewport tracks whether the user is near the bottom of the scrollable
// message pane. Auto-scroll on new messages happens only while NearBottom
// reports true.
type Viewport struct {
	// Threshold overrides DefaultBottomThreshold when positive.
	Threshold int

	offset        int
	viewHeight    int
	contentHeight int
	nearBottom    bool
}

// NewViewport returns a viewport that starts pinned to the bottom.
func NewViewport() *Viewport {
	return &Viewport{nearBottom: true}
}

// SetSizes records the pane and content heights.
func (v *Viewport) SetSizes(viewHeight, contentHeight int) {
	v.viewHeight = viewHeight
	v.contentHeight = contentHeight
	v.recompute()
}

// Scroll records a new scroll offset, updating the near-bottom flag. Called
// on every scroll event.
func (v *Viewport) Scroll(offset int) {
	v.offset = offset
	v.recompute()
}

// ScrollToBottom pins the viewport to the bottom.
func (v *Viewport) ScrollToBottom() {
	v.offset = v.maxOffset()
	v.nearBottom = true
}

// Offset returns the current scroll offset.
func (v *Viewport) Offset() int { return v.offset }

// NearBottom reports whether the user is within the threshold of the bottom.
func (v *Viewport) NearBottom() bool { return v.nearBottom }

func (v *Viewport) recompute() {
	threshold := v.Threshold
	if threshold <= 0 {
		threshold = DefaultBottomThreshold
	}
	v.nearBottom = v.maxOffset()-v.offset <= threshold
}

func (v *Viewport) maxOffset() int {
	max := v.contentHeight - v.viewHeight
	if max < 0 {
		return 0
	}
	return max
}
