package colors

import (
	"hash/fnv"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// SignalColor returns the color of a signal. The hue follows the lsb
// so neighbouring signals differ; saturation and value vary with the
// name so signals sharing an lsb stay apart.
func SignalColor(name string, lsb int) colorful.Color {
	h := math.Mod(19*float64(lsb)/64, 1)
	if h < 0 {
		h++
	}
	hasher := fnv.New32a()
	hasher.Write([]byte(name))
	hash := hasher.Sum32()
	s := 0.25 + 0.25*float64(hash&0xff)/255
	v := 0.75 + 0.25*float64((hash>>8)&0xff)/255
	return colorful.Hsv(h*360, s, v)
}

// Darker returns c with its value scaled down by factor (>1 darkens).
func Darker(c colorful.Color, factor float64) colorful.Color {
	if factor <= 0 {
		return c
	}
	h, s, v := c.Hsv()
	return colorful.Hsv(h, s, v/factor)
}
