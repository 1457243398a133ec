// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termlcd emulates an HD44780 character display on an I2C expander
// backpack. It implements the lcdi2c.Transport capability, decodes the
// nibble and enable pulse framing off the byte stream, and keeps a
// character framebuffer that can be inspected, rendered to a terminal
// (stdout) using ANSI color codes, or rasterized to an image.
//
// Useful while you are waiting for your display module to come by mail,
// and for exercising the driver protocol without hardware.
package termlcd

import (
	"fmt"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"periph.io/x/devices/v3/lcdi2c"
)

// Expander wiring, matching the PCF8574 backpack the driver speaks to.
const (
	rsBit        byte = 0x01
	enableBit    byte = 0x04
	backlightBit byte = 0x08
)

// Opts represents the options available for the emulated display.
type Opts struct {
	// Rows and Cols describe the emulated panel geometry.
	Rows int
	Cols int

	// W is where Render draws. Defaults to a colorable stdout.
	W io.Writer

	// Palette used for the terminal rendering.
	Palette *ansi256.Palette

	_ struct{}
}

// Display is the emulated backpack. It is driven through the Transport
// methods and never fails.
type Display struct {
	w       io.Writer
	palette ansi256.Palette
	rows    int
	cols    int

	cells     [][]byte
	row, col  int
	backlight bool
	on        bool
	cursor    bool
	blink     bool
	increment bool

	// Receive state. The controller starts in 8 bit mode and sees single
	// nibbles until the bootstrap 0x02 transfer; after that nibbles arrive
	// in high/low pairs.
	fourBit  bool
	haveHigh bool
	high     byte

	buf []byte
}

// New returns an emulated display. opts can be nil for a 2x16 panel on
// stdout.
func New(opts *Opts) *Display {
	rows, cols := 2, 16
	var w io.Writer
	p := ansi256.Default
	if opts != nil {
		if opts.Rows > 0 {
			rows = opts.Rows
		}
		if opts.Cols > 0 {
			cols = opts.Cols
		}
		if opts.W != nil {
			w = opts.W
		}
		if opts.Palette != nil {
			p = opts.Palette
		}
	}
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Display{
		w:       w,
		palette: *p,
		rows:    rows,
		cols:    cols,
	}
	d.reset()
	return d
}

func (d *Display) String() string {
	return fmt.Sprintf("TermLCD %dx%d", d.rows, d.cols)
}

func (d *Display) reset() {
	d.cells = make([][]byte, d.rows)
	for i := range d.cells {
		line := make([]byte, d.cols)
		for j := range line {
			line[j] = ' '
		}
		d.cells[i] = line
	}
	d.row, d.col = 0, 0
	d.on = false
	d.cursor = false
	d.blink = false
	d.increment = true
	d.fourBit = false
	d.haveHigh = false
}

// Init implements lcdi2c.Transport. It models the expander power-on state:
// blank screen, 8 bit mode, everything off.
func (d *Display) Init() error {
	d.reset()
	d.backlight = false
	return nil
}

// WriteByte implements lcdi2c.Transport. It decodes one expander write:
// the backlight line tracks bit 3 on every write, and the data nibble is
// latched whenever the enable line is raised.
func (d *Display) WriteByte(value byte) error {
	d.backlight = value&backlightBit != 0
	if value&enableBit == 0 {
		// Enable release, nothing latches.
		return nil
	}
	nibble := value >> 4
	rs := value&rsBit != 0
	if !d.fourBit {
		// Bootstrap phase: single nibble instructions. 0x02 switches the
		// bus to 4 bit mode.
		if !rs && nibble == 0x02 {
			d.fourBit = true
		}
		return nil
	}
	if !d.haveHigh {
		d.high = nibble
		d.haveHigh = true
		return nil
	}
	d.haveHigh = false
	d.execute(d.high<<4|nibble, rs)
	return nil
}

// execute runs one reassembled byte against the controller model.
func (d *Display) execute(value byte, data bool) {
	if data {
		d.put(value)
		return
	}
	switch {
	case value&0x80 != 0:
		d.moveToAddr(value & 0x7f)
	case value&0x40 != 0:
		// CGRAM addressing, custom glyphs are not modeled.
	case value&0x20 != 0:
		// Function set. The geometry is fixed at construction.
	case value&0x10 != 0:
		if value&0x04 != 0 {
			d.advance(1)
		} else {
			d.advance(-1)
		}
	case value&0x08 != 0:
		d.on = value&0x04 != 0
		d.cursor = value&0x02 != 0
		d.blink = value&0x01 != 0
	case value&0x04 != 0:
		d.increment = value&0x02 != 0
	case value&0x02 != 0:
		d.row, d.col = 0, 0
	case value&0x01 != 0:
		d.clear()
	}
}

func (d *Display) clear() {
	for _, line := range d.cells {
		for j := range line {
			line[j] = ' '
		}
	}
	d.row, d.col = 0, 0
}

// rowBases is the DDRAM base address of each display row.
var rowBases = []byte{0x00, 0x40, 0x14, 0x54}

func (d *Display) moveToAddr(addr byte) {
	bestRow, bestCol := 0, int(addr)
	for r := 0; r < d.rows && r < len(rowBases); r++ {
		if addr >= rowBases[r] {
			if col := int(addr - rowBases[r]); col < bestCol {
				bestRow, bestCol = r, col
			}
		}
	}
	d.row, d.col = bestRow, bestCol
}

func (d *Display) put(c byte) {
	if d.row < d.rows && d.col >= 0 && d.col < d.cols {
		d.cells[d.row][d.col] = c
	}
	if d.increment {
		d.advance(1)
	} else {
		d.advance(-1)
	}
}

// advance moves the cursor along the row. Like the real DDRAM, positions
// past the visible columns exist but are not shown.
func (d *Display) advance(delta int) {
	d.col += delta
	if d.col < 0 {
		d.col = 0
	}
	if d.col > 39 {
		d.col = 39
	}
}

// Lines returns the visible framebuffer, one string per row.
func (d *Display) Lines() []string {
	out := make([]string, d.rows)
	for i, line := range d.cells {
		out[i] = string(line)
	}
	return out
}

// Backlight reports the state of the expander backlight line.
func (d *Display) Backlight() bool {
	return d.backlight
}

// On reports whether the display is switched on.
func (d *Display) On() bool {
	return d.on
}

// CursorAt returns the 1-based cursor position.
func (d *Display) CursorAt() (row, col int) {
	return d.row + 1, d.col + 1
}

// Halt resets the terminal attributes.
func (d *Display) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

var _ lcdi2c.Transport = &Display{}
