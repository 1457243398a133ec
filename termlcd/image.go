// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termlcd

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Cell geometry of the rasterized panel, in pixels.
const (
	cellW    = 12
	cellH    = 18
	fontSize = 14
)

// Image rasterizes the current panel state, one fixed size cell per
// character. The background follows the backlight line; a blanked display
// renders as an empty panel.
func (d *Display) Image() (image.Image, error) {
	dc := gg.NewContext(d.cols*cellW, d.rows*cellH)
	if d.backlight {
		dc.SetRGB255(154, 205, 50)
	} else {
		dc.SetRGB255(60, 64, 60)
	}
	dc.Clear()
	if !d.on {
		return dc.Image(), nil
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: fontSize}))
	dc.SetRGB255(20, 36, 16)
	for r, line := range d.cells {
		for c, ch := range line {
			if ch == ' ' {
				continue
			}
			x := float64(c*cellW) + cellW/2
			y := float64(r*cellH) + cellH/2
			dc.DrawStringAnchored(string(rune(ch)), x, y, 0.5, 0.5)
		}
	}
	return dc.Image(), nil
}
