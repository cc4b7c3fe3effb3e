// Package preview computes on-screen scale factors for card previews.
//
// The scale only affects display transforms; exported bytes are always
// rendered at the template's native resolution.
package preview

// ComputeScale returns the uniform scale factor that fits a card of
// templateWidth x templateHeight into the available container width and
// viewport height budget. The result is capped at 1: a preview never
// enlarges the card past its native size.
//
// Non-positive template dimensions or available space yield 0.
func ComputeScale(containerWidth, viewportHeight, templateWidth, templateHeight float64) float64 {
	if templateWidth <= 0 || templateHeight <= 0 {
		return 0
	}
	if containerWidth <= 0 || viewportHeight <= 0 {
		return 0
	}

	scale := containerWidth / templateWidth
	if s := viewportHeight / templateHeight; s < scale {
		scale = s
	}
	if scale > 1 {
		return 1
	}
	return scale
}
