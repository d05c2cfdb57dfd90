package common

import (
	"fmt"
	"image"
)

// BoundingBox is an axis-aligned box in COCO format: top-left corner plus size, in pixels.
type BoundingBox struct {
	X, Y          float32
	Width, Height float32
}

// Annotation pairs a bounding box with its class label.
//
// Labels are 1-based; label 0 is the background class and never appears in an annotation.
type Annotation struct {
	Box   BoundingBox
	Label int
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%f, %f) %fx%f", b.X, b.Y, b.Width, b.Height)
}

// Center returns the centre point of the box.
//
// Returns:
//   - cx: The horizontal centre, x + width/2.
//   - cy: The vertical centre, y + height/2.
//
// @example
// box := BoundingBox{X: 40, Y: 40, Width: 10, Height: 10}
// cx, cy := box.Center() // 45, 45
func (b BoundingBox) Center() (cx, cy float32) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Area returns width*height, or 0 when either side is not positive.
func (b BoundingBox) Area() float32 {
	if b.Degenerate() {
		return 0
	}
	return b.Width * b.Height
}

// Degenerate reports whether the box encloses no area.
func (b BoundingBox) Degenerate() bool {
	return b.Width <= 0 || b.Height <= 0
}

// ToRect converts the bounding box to an image.Rectangle.
//
// Coordinates are truncated to integers, so this is only suitable for coarse
// geometry such as bounds checks.
//
// @example
// box := BoundingBox{X: 100.5, Y: 100.5, Width: 100, Height: 200}
// rect := box.ToRect() // (100,100)-(200,300)
func (b BoundingBox) ToRect() image.Rectangle {
	return image.Rect(int(b.X), int(b.Y), int(b.X+b.Width), int(b.Y+b.Height)).Canon()
}

// Within reports whether the box lies entirely inside an image of the given size.
//
// Arguments:
//   - imageWidth: The image width in pixels.
//   - imageHeight: The image height in pixels.
//
// Returns:
//   - true when every edge of the box is inside [0, imageWidth]x[0, imageHeight].
func (b BoundingBox) Within(imageWidth, imageHeight int) bool {
	return b.X >= 0 && b.Y >= 0 &&
		b.X+b.Width <= float32(imageWidth) &&
		b.Y+b.Height <= float32(imageHeight)
}
