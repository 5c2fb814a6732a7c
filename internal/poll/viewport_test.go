package poll

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViewportStartsNearBottom(t *testing.T) {
	v := NewViewport()
	require.True(t, v.NearBottom())
}

func TestViewportNearBottomWithinThreshold(t *testing.T) {
	v := NewViewport()
	v.SetSizes(40, 1000) // maxOffset 960

	v.Scroll(960 - DefaultBottomThreshold)
	require.True(t, v.NearBottom())

	v.Scroll(960 - DefaultBottomThreshold - 1)
	require.False(t, v.NearBottom())
}

func TestViewportScrollToBottom(t *testing.T) {
	v := NewViewport()
	v.SetSizes(40, 1000)
	v.Scroll(0)
	require.False(t, v.NearBottom())

	v.ScrollToBottom()
	require.True(t, v.NearBottom())
	require.Equal(t, 960, v.Offset())
}

func TestViewportShortContentIsAlwaysNearBottom(t *testing.T) {
	v := NewViewport()
	v.SetSizes(40, 10)
	v.Scroll(0)
	require.True(t, v.NearBottom())
}

func TestViewportCustomThreshold(t *testing.T) {
	v := NewViewport()
	v.Threshold = 5
	v.SetSizes(10, 100) // maxOffset 90

	v.Scroll(85)
	require.True(t, v.NearBottom())
	v.Scroll(84)
	require.False(t, v.NearBottom())
}
