package common

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBoxCenter(t *testing.T) {
	box := BoundingBox{X: 40, Y: 40, Width: 10, Height: 10}
	cx, cy := box.Center()
	assert.Equal(t, float32(45), cx)
	assert.Equal(t, float32(45), cy)
}

func TestBoundingBoxDegenerate(t *testing.T) {
	tests := []struct {
		name       string
		box        BoundingBox
		degenerate bool
		area       float32
	}{
		{name: "regular", box: BoundingBox{X: 0, Y: 0, Width: 4, Height: 5}, area: 20},
		{name: "zero width", box: BoundingBox{X: 3, Y: 3, Width: 0, Height: 5}, degenerate: true},
		{name: "zero height", box: BoundingBox{X: 3, Y: 3, Width: 5, Height: 0}, degenerate: true},
		{name: "negative", box: BoundingBox{X: 3, Y: 3, Width: -2, Height: 5}, degenerate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.degenerate, tt.box.Degenerate())
			assert.Equal(t, tt.area, tt.box.Area())
		})
	}
}

func TestBoundingBoxWithin(t *testing.T) {
	assert.True(t, BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}.Within(100, 100))
	assert.True(t, BoundingBox{X: 10, Y: 20, Width: 5, Height: 5}.Within(100, 100))
	assert.False(t, BoundingBox{X: -1, Y: 0, Width: 10, Height: 10}.Within(100, 100))
	assert.False(t, BoundingBox{X: 95, Y: 0, Width: 10, Height: 10}.Within(100, 100))
	assert.False(t, BoundingBox{X: 0, Y: 95, Width: 10, Height: 10}.Within(100, 100))
}

func TestBoundingBoxToRect(t *testing.T) {
	box := BoundingBox{X: 100.5, Y: 100.5, Width: 100, Height: 200}
	assert.Equal(t, image.Rect(100, 100, 200, 300), box.ToRect())
}
