// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termlcd

import (
	"image/color"
)

// Panel tones. The characteristic yellow-green of the cheap modules when
// lit, a murky gray when the backlight is off or the display is blanked.
var (
	litFrame  = color.NRGBA{154, 205, 50, 255}
	darkFrame = color.NRGBA{60, 64, 60, 255}
)

// Render draws the current panel state to the configured writer as a block
// framed text grid. Call it whenever the screen should be repainted; the
// frame color follows the backlight line.
func (d *Display) Render() error {
	// This code is designed to minimize the amount of memory allocated per
	// call.
	d.buf = d.buf[:0]
	frame := litFrame
	if !d.backlight {
		frame = darkFrame
	}
	edge := d.palette.Block(frame)

	for i := 0; i < d.cols+2; i++ {
		d.buf = append(d.buf, edge...)
	}
	d.buf = append(d.buf, "\033[0m\n"...)
	for _, line := range d.cells {
		d.buf = append(d.buf, edge...)
		d.buf = append(d.buf, "\033[0m"...)
		if d.on {
			d.buf = append(d.buf, line...)
		} else {
			for range line {
				d.buf = append(d.buf, ' ')
			}
		}
		d.buf = append(d.buf, edge...)
		d.buf = append(d.buf, "\033[0m\n"...)
	}
	for i := 0; i < d.cols+2; i++ {
		d.buf = append(d.buf, edge...)
	}
	d.buf = append(d.buf, "\033[0m\n"...)
	_, err := d.w.Write(d.buf)
	return err
}
