// Package render draws snapshots into images with gg.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/hoshinonyaruko/torus-snake/memimg"
	"github.com/hoshinonyaruko/torus-snake/structs"
)

// FoodShades cycles with the snapshot animation index.
var FoodShades = [3]color.RGBA{
	{R: 0xe5, G: 0x39, B: 0x35, A: 0xff},
	{R: 0xfb, G: 0x8c, B: 0x00, A: 0xff},
	{R: 0xfd, G: 0xd8, B: 0x35, A: 0xff},
}

var (
	snakeColor = color.RGBA{R: 0x43, G: 0xa0, B: 0x47, A: 0xff}
	headColor  = color.RGBA{R: 0x1b, G: 0x5e, B: 0x20, A: 0xff}
)

// PNG renders snapshots at a fixed block size. Skins may be nil.
type PNG struct {
	BlockSize int
	Skins     *memimg.Skins
}

func New(blockSize int, skins *memimg.Skins) *PNG {
	return &PNG{BlockSize: blockSize, Skins: skins}
}

// Image draws snap.
func (r *PNG) Image(snap structs.Snapshot) image.Image {
	bs := r.BlockSize
	width := snap.Width * bs
	height := snap.Height * bs

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	renderGrid(dc, width, height, bs)

	for _, layer := range snap.Layers() {
		for i, pos := range layer.Cells() {
			kind := layer.Kind()
			if kind == structs.KindSnake && i == 0 {
				kind = structs.KindHead
			}
			r.drawCell(dc, pos, kind, snap.AnimationIndex)
		}
	}

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawString(fmt.Sprintf("score %d  round %d", snap.Score, snap.Round), 4, 14)

	if snap.Alive {
		return dc.Image()
	}
	return deadOverlay(dc.Image(), snap.Score)
}

// Encode writes snap as PNG.
func (r *PNG) Encode(w io.Writer, snap structs.Snapshot) error {
	return png.Encode(w, r.Image(snap))
}

func (r *PNG) drawCell(dc *gg.Context, pos structs.Position, kind structs.CellKind, anim int) {
	bs := r.BlockSize
	if img, ok := r.tile(kind); ok {
		dc.DrawImage(img, pos.X*bs, pos.Y*bs)
		return
	}
	switch kind {
	case structs.KindFood:
		dc.SetColor(FoodShades[((anim%3)+3)%3])
	case structs.KindHead:
		dc.SetColor(headColor)
	default:
		dc.SetColor(snakeColor)
	}
	dc.DrawRectangle(float64(pos.X*bs), float64(pos.Y*bs), float64(bs), float64(bs))
	dc.Fill()
}

func (r *PNG) tile(kind structs.CellKind) (image.Image, bool) {
	if r.Skins == nil {
		return nil, false
	}
	switch kind {
	case structs.KindHead:
		if img, ok := r.Skins.Get(memimg.TileHead); ok {
			return img, true
		}
		return r.Skins.Get(memimg.TileBody)
	case structs.KindFood:
		return r.Skins.Get(memimg.TileFood)
	default:
		return r.Skins.Get(memimg.TileBody)
	}
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetRGB(0.9, 0.9, 0.9)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

// deadOverlay blurs the board and prints the final score on top.
func deadOverlay(board image.Image, score int) image.Image {
	blurred := imaging.Blur(board, 3.5)
	b := blurred.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(blurred, 0, 0)
	dc.SetRGBA(0, 0, 0, 0.45)
	dc.DrawRectangle(0, 0, float64(b.Dx()), float64(b.Dy()))
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	dc.DrawStringAnchored("GAME OVER", cx, cy-10, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("score %d, press r", score), cx, cy+10, 0.5, 0.5)
	return dc.Image()
}
