// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdi2c

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

const packageName = "lcdi2c"

var (
	// ErrNotInitialized is returned by every operation invoked on a device
	// whose bring-up handshake has not completed successfully.
	ErrNotInitialized = errors.New(packageName + ": display not initialized")

	ErrNotImplemented = fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)

	rowConstants = [][]byte{{0, 0, 64}, {0, 0, 64, 20, 84}}
)

type driverState uint8

const (
	stateUninitialized driverState = iota
	stateReady
	stateFaulted
)

// Dev drives an HD44780 character display behind an I2C GPIO expander
// backpack, in 4 bit bus mode.
//
// Implements periph.io/x/conn/display/TextDisplay and
// display.DisplayBacklight.
type Dev struct {
	tr    Transport
	sleep func(time.Duration)

	rows int
	cols int

	state     driverState
	backlight bool
	on        bool
	cursor    bool
	blink     bool
}

func wrap(err error) error {
	if err == nil || strings.HasPrefix(err.Error(), packageName) {
		return err
	}
	return fmt.Errorf("%s: %w", packageName, err)
}

// Return the row offset value
func getRowConstant(row, maxcols int) byte {
	var offset int
	if maxcols != 16 {
		offset = 1
	}
	return rowConstants[offset][row]
}

// New runs the controller bring-up handshake over tr and returns the
// display ready for use. opts can be nil to get DefaultOpts.
//
// The handshake forces the controller into 4 bit mode with three single
// nibble transfers and then applies the fixed configuration sequence. Any
// transport failure aborts the remaining steps and is returned; the display
// is then unusable.
func New(tr Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if opts.Rows < 1 || opts.Rows > 4 {
		return nil, fmt.Errorf("%s: unsupported row count %d", packageName, opts.Rows)
	}
	if opts.Cols < 8 || opts.Cols > 40 {
		return nil, fmt.Errorf("%s: unsupported column count %d", packageName, opts.Cols)
	}
	// The 16 column row address table only covers two rows.
	if opts.Cols == 16 && opts.Rows > 2 {
		return nil, fmt.Errorf("%s: 16 column panels support at most 2 rows", packageName)
	}
	dev := &Dev{
		tr:        tr,
		sleep:     opts.Sleep,
		rows:      opts.Rows,
		cols:      opts.Cols,
		backlight: opts.Backlight,
		on:        true,
	}
	if dev.sleep == nil {
		dev.sleep = time.Sleep
	}
	if err := dev.init(); err != nil {
		return nil, wrap(err)
	}
	return dev, nil
}

// NewI2C returns a display driven through the PCF857x backpack at address
// on bus. Passing address 0 selects DefaultAddress.
func NewI2C(bus i2c.Bus, address uint16, opts *Opts) (*Dev, error) {
	return New(NewI2CTransport(bus, address), opts)
}

// initSequence is the configuration applied after the bootstrap nibbles:
// 4 bit function set, display off, cursor home, auto increment entry mode,
// display on, clear.
var initSequence = []byte{
	functionSet4Bit,
	displayControl,
	returnHome,
	entryModeSet | autoIncrement,
	displayControl | displayOn,
	clearDisplay,
}

func (dev *Dev) init() error {
	if err := dev.tr.Init(); err != nil {
		return err
	}
	dev.sleep(powerOnSettle)
	// The controller powers up in 8 bit mode and only sees single nibbles
	// until the 0x02 transfer switches it over.
	for _, n := range []byte{0x03, 0x03, 0x02} {
		if err := dev.sendNibble(n, rsCommand); err != nil {
			return err
		}
		dev.sleep(bootstrapSettle)
	}
	for _, cmd := range initSequence {
		if err := dev.sendMessage(cmd, rsCommand); err != nil {
			return err
		}
		dev.sleep(settleFor(cmd))
	}
	dev.state = stateReady
	return nil
}

// ready gates every public operation on a completed handshake. A faulted
// device stays usable, transport errors are reported per call.
func (dev *Dev) ready() error {
	if dev == nil || dev.state == stateUninitialized {
		return ErrNotInitialized
	}
	return nil
}

func (dev *Dev) fail(err error) error {
	dev.state = stateFaulted
	return wrap(err)
}

// command transmits a single instruction byte and waits out its execution
// time.
func (dev *Dev) command(cmd byte) error {
	if err := dev.sendMessage(cmd, rsCommand); err != nil {
		return dev.fail(err)
	}
	dev.sleep(settleFor(cmd))
	return nil
}

// controlByte composes the display-control instruction from the shadow
// state.
func (dev *Dev) controlByte() byte {
	v := displayControl
	if dev.on {
		v |= displayOn
	}
	if dev.cursor {
		v |= cursorOn
	}
	if dev.blink {
		v |= cursorBlink
	}
	return v
}

// Not supported by this device. Returns display.ErrNotImplemented
func (dev *Dev) AutoScroll(enabled bool) error {
	return ErrNotImplemented
}

// Clear clears the screen and moves the cursor to the first position.
func (dev *Dev) Clear() error {
	if err := dev.ready(); err != nil {
		return err
	}
	return dev.command(clearDisplay)
}

// Return the number of columns the display supports
func (dev *Dev) Cols() int {
	return dev.cols
}

// Set the cursor mode. You can pass multiple arguments.
// Cursor(CursorOff), Cursor(CursorBlink)
func (dev *Dev) Cursor(modes ...display.CursorMode) error {
	if err := dev.ready(); err != nil {
		return err
	}
	dev.cursor = false
	dev.blink = false
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
		case display.CursorUnderline:
			dev.cursor = true
		case display.CursorBlink, display.CursorBlock:
			dev.cursor = true
			dev.blink = true
		default:
			return fmt.Errorf("%s: unexpected cursor mode %d", packageName, mode)
		}
	}
	return dev.command(dev.controlByte())
}

// Turn the display on / off. Cursor settings are retained.
func (dev *Dev) Display(on bool) error {
	if err := dev.ready(); err != nil {
		return err
	}
	dev.on = on
	return dev.command(dev.controlByte())
}

// Move the cursor home (MinRow(),MinCol())
func (dev *Dev) Home() error {
	if err := dev.ready(); err != nil {
		return err
	}
	return dev.command(returnHome)
}

// Return the min column position.
func (dev *Dev) MinCol() int {
	return 1
}

// Return the min row position.
func (dev *Dev) MinRow() int {
	return 1
}

// Move the cursor forward or backward.
func (dev *Dev) Move(dir display.CursorDirection) error {
	if err := dev.ready(); err != nil {
		return err
	}
	val := cursorShift
	switch dir {
	case display.Backward:
	case display.Forward:
		val |= shiftRight
	case display.Down, display.Up:
		fallthrough
	default:
		return ErrNotImplemented
	}
	return dev.command(val)
}

// Move the cursor to arbitrary position.
func (dev *Dev) MoveTo(row, col int) error {
	if err := dev.ready(); err != nil {
		return err
	}
	if row < dev.MinRow() || row > dev.rows || col < dev.MinCol() || col > dev.cols {
		return fmt.Errorf("%s.MoveTo(%d,%d) value out of range", packageName, row, col)
	}
	return dev.command(setDDRAMAddr | (getRowConstant(row, dev.cols) + byte(col-1)))
}

// Return the number of rows the display supports.
func (dev *Dev) Rows() int {
	return dev.rows
}

// Return info about the display.
func (dev *Dev) String() string {
	s := fmt.Sprintf("%s Rows: %d Cols: %d", packageName, dev.rows, dev.cols)
	if dev.state == stateFaulted {
		s += " (faulted)"
	}
	return s
}

// Write sends character data to the current cursor position. It returns
// the number of bytes the controller accepted before any error.
func (dev *Dev) Write(p []byte) (int, error) {
	if err := dev.ready(); err != nil {
		return 0, err
	}
	for i, b := range p {
		if err := dev.sendMessage(b, rsData); err != nil {
			return i, dev.fail(err)
		}
		dev.sleep(commandSettle)
	}
	return len(p), nil
}

// Write a string output to the display.
func (dev *Dev) WriteString(text string) (int, error) {
	return dev.Write([]byte(text))
}

// WriteChar sends a single character to the current cursor position.
func (dev *Dev) WriteChar(c byte) error {
	_, err := dev.Write([]byte{c})
	return err
}

// Text replaces the whole display contents: the screen is cleared, the
// cursor moves to row 1 column 1 and s is written out. Transmission stops
// at the first NUL byte, so strings coming from C style buffers display
// correctly. Later characters overflow into invisible DDRAM exactly as on
// the real controller.
func (dev *Dev) Text(s string) error {
	if err := dev.ready(); err != nil {
		return err
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if err := dev.command(clearDisplay); err != nil {
		return err
	}
	if err := dev.command(setDDRAMAddr); err != nil {
		return err
	}
	_, err := dev.Write([]byte(s))
	return err
}

// Turn the display backlight on or off. The state also rides along on
// every subsequent transfer.
func (dev *Dev) Backlight(intensity display.Intensity) error {
	if err := dev.ready(); err != nil {
		return err
	}
	dev.backlight = intensity > 0
	// Refresh the idle bus lines so the change is visible immediately.
	// Enable stays low, the controller ignores this write.
	if err := dev.tr.WriteByte(dev.control(rsCommand)); err != nil {
		return dev.fail(err)
	}
	return nil
}

// Halt clears the display and turns the backlight and the display off.
func (dev *Dev) Halt() error {
	if err := dev.ready(); err != nil {
		return err
	}
	_ = dev.Clear()
	_ = dev.Backlight(0)
	return dev.Display(false)
}

var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ conn.Resource = &Dev{}
