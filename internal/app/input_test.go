package app

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tileviewer/internal/camera"
)

func newTestPointer() (*pointer, *camera.Camera) {
	cam := camera.NewCamera(camera.DefaultZoomFactor, 1280, 900)
	return newPointer(cam), cam
}

func TestScrollZoomDirection(t *testing.T) {
	p, cam := newTestPointer()
	require.True(t, p.scroll(640, 450, 1), "scroll up redraws")
	assert.InDelta(t, 1.05, cam.View().Scale, 1e-12)

	p, cam = newTestPointer()
	require.True(t, p.scroll(640, 450, -1), "scroll down redraws")
	assert.InDelta(t, 1/1.05, cam.View().Scale, 1e-12)
}

func TestScrollKeepsCursorAnchored(t *testing.T) {
	p, cam := newTestPointer()
	before := cam.View().ScreenToWorld(300, 200)
	p.scroll(300, 200, 1)
	after := cam.View().ScreenToWorld(300, 200)
	assert.InDelta(t, before.X(), after.X(), 1e-9)
	assert.InDelta(t, before.Y(), after.Y(), 1e-9)
}

func TestHorizontalScrollIgnored(t *testing.T) {
	p, cam := newTestPointer()
	assert.False(t, p.scroll(640, 450, 0))
	assert.Equal(t, camera.DefaultView(), cam.View())
}

func TestButtonDragPans(t *testing.T) {
	p, cam := newTestPointer()

	assert.False(t, p.move(50, 50), "moving without a button does not pan")

	assert.False(t, p.button(glfw.Press, 10, 10))
	require.True(t, cam.IsDragging())
	assert.True(t, p.move(30, 15))
	assert.Equal(t, camera.View{Scale: 1, OffsetX: 20, OffsetY: 5}, cam.View())

	p.button(glfw.Release, 30, 15)
	assert.False(t, cam.IsDragging())
	assert.False(t, p.move(90, 90))
	assert.Equal(t, camera.View{Scale: 1, OffsetX: 20, OffsetY: 5}, cam.View())
}

func TestDragLastsWhileAnyButtonHeld(t *testing.T) {
	p, cam := newTestPointer()

	p.button(glfw.Press, 0, 0)
	p.button(glfw.Press, 5, 5)
	p.button(glfw.Release, 5, 5)
	require.True(t, cam.IsDragging(), "one button still held")
	assert.True(t, p.move(15, 25))
	assert.Equal(t, camera.View{Scale: 1, OffsetX: 10, OffsetY: 20}, cam.View())

	p.button(glfw.Release, 15, 25)
	assert.False(t, cam.IsDragging())
}

func TestUnmatchedReleaseIsHarmless(t *testing.T) {
	p, cam := newTestPointer()
	p.button(glfw.Release, 0, 0)
	assert.False(t, cam.IsDragging())

	p.button(glfw.Press, 0, 0)
	assert.True(t, cam.IsDragging(), "held count never goes negative")
}
