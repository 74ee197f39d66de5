package render

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func writeSkin(t *testing.T, path string) {
	t.Helper()
	img := imaging.New(10, 10, color.NRGBA{B: 255, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
}
