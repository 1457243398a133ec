// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdi2c_test

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/devices/v3/lcdi2c"
)

// Wire constants of the PCF8574 backpack, as seen on the bus.
const (
	enable    byte = 0x04
	command   byte = 0x00
	data      byte = 0x01
	testAddr       = lcdi2c.DefaultAddress
)

// backLight mirrors the driver's backlight flag while building
// expectations, the way the reference firmware tests carried it in a
// global.
var backLight byte = 0x08

func sendByteOps(value byte) []i2ctest.IO {
	return []i2ctest.IO{
		{Addr: testAddr, W: []byte{value | enable}},
		{Addr: testAddr, W: []byte{value}},
	}
}

func nibbleOps(nib, rs byte) []i2ctest.IO {
	return sendByteOps(rs | backLight | (nib&0x0f)<<4)
}

func messageOps(value, rs byte) []i2ctest.IO {
	ops := sendByteOps(rs | backLight | (value & 0xf0))
	return append(ops, sendByteOps(rs|backLight|(value&0x0f)<<4)...)
}

func initOps() []i2ctest.IO {
	// Expander bring-up, three bootstrap nibbles, then the configuration
	// sequence as regular nibble pairs.
	ops := []i2ctest.IO{{Addr: testAddr, W: []byte{0x00}}}
	for _, n := range []byte{0x03, 0x03, 0x02} {
		ops = append(ops, nibbleOps(n, command)...)
	}
	for _, cmd := range []byte{0x28, 0x08, 0x02, 0x06, 0x0c, 0x01} {
		ops = append(ops, messageOps(cmd, command)...)
	}
	return ops
}

func getDev(t *testing.T, extra []i2ctest.IO) (*lcdi2c.Dev, *i2ctest.Playback) {
	t.Helper()
	bus := &i2ctest.Playback{Ops: append(initOps(), extra...), DontPanic: true}
	dev, err := lcdi2c.NewI2C(bus, testAddr, &lcdi2c.Opts{
		Rows:      2,
		Cols:      16,
		Backlight: true,
		Sleep:     func(time.Duration) {},
	})
	if err != nil {
		t.Fatal(err)
	}
	return dev, bus
}

// drain verifies every expected bus operation was consumed.
func drain(t *testing.T, bus *i2ctest.Playback) {
	t.Helper()
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestInitSequence(t *testing.T) {
	dev, bus := getDev(t, nil)
	if s := dev.String(); len(s) == 0 {
		t.Error("String() returned an empty string")
	}
	drain(t, bus)
}

func TestWriteChar(t *testing.T) {
	dev, bus := getDev(t, messageOps('a', data))
	if err := dev.WriteChar('a'); err != nil {
		t.Error(err)
	}
	drain(t, bus)
}

func TestWriteString(t *testing.T) {
	var extra []i2ctest.IO
	for _, c := range []byte("1602") {
		extra = append(extra, messageOps(c, data)...)
	}
	dev, bus := getDev(t, extra)
	n, err := dev.WriteString("1602")
	if err != nil {
		t.Error(err)
	}
	if n != 4 {
		t.Errorf("WriteString() = %d, want 4", n)
	}
	drain(t, bus)
}

func TestText(t *testing.T) {
	// Clear, cursor to row 1 col 1, then the characters.
	extra := messageOps(0x01, command)
	extra = append(extra, messageOps(0x80, command)...)
	extra = append(extra, messageOps('A', data)...)
	extra = append(extra, messageOps('B', data)...)
	dev, bus := getDev(t, extra)
	if err := dev.Text("AB"); err != nil {
		t.Error(err)
	}
	drain(t, bus)
}

func TestTextTerminator(t *testing.T) {
	// Everything after the NUL byte stays off the bus.
	extra := messageOps(0x01, command)
	extra = append(extra, messageOps(0x80, command)...)
	extra = append(extra, messageOps('A', data)...)
	dev, bus := getDev(t, extra)
	if err := dev.Text("A\x00BC"); err != nil {
		t.Error(err)
	}
	drain(t, bus)
}

func TestMoveTo(t *testing.T) {
	// Row 2 starts at DDRAM 0x40; column 3 is offset 2.
	dev, bus := getDev(t, messageOps(0x80|0x42, command))
	if err := dev.MoveTo(2, 3); err != nil {
		t.Error(err)
	}
	drain(t, bus)
}

func TestMoveToOutOfRange(t *testing.T) {
	dev, bus := getDev(t, nil)
	for _, tc := range []struct{ row, col int }{
		{0, 1},
		{3, 1},
		{1, 0},
		{1, 17},
	} {
		if err := dev.MoveTo(tc.row, tc.col); err == nil {
			t.Errorf("MoveTo(%d,%d): expected an error", tc.row, tc.col)
		}
	}
	// No bus traffic for rejected positions.
	drain(t, bus)
}

func TestCursor(t *testing.T) {
	extra := messageOps(0x0f, command)                  // display on, cursor on, blinking
	extra = append(extra, messageOps(0x0c, command)...) // display on, cursor off
	dev, bus := getDev(t, extra)
	if err := dev.Cursor(display.CursorBlink); err != nil {
		t.Error(err)
	}
	if err := dev.Cursor(display.CursorOff); err != nil {
		t.Error(err)
	}
	drain(t, bus)
}

func TestClearTwice(t *testing.T) {
	// Repeated clears transmit identical, independent command sequences.
	extra := append(messageOps(0x01, command), messageOps(0x01, command)...)
	dev, bus := getDev(t, extra)
	if err := dev.Clear(); err != nil {
		t.Error(err)
	}
	if err := dev.Clear(); err != nil {
		t.Error(err)
	}
	drain(t, bus)
}

func TestBacklightOff(t *testing.T) {
	old := backLight
	defer func() { backLight = old }()

	// Backlight(0) refreshes the idle lines without an enable pulse; the
	// following clear no longer carries the backlight bit.
	extra := []i2ctest.IO{{Addr: testAddr, W: []byte{0x00}}}
	backLight = 0
	extra = append(extra, messageOps(0x01, command)...)
	backLight = old

	dev, bus := getDev(t, extra)
	if err := dev.Backlight(0); err != nil {
		t.Error(err)
	}
	if err := dev.Clear(); err != nil {
		t.Error(err)
	}
	drain(t, bus)
}

func TestNotInitialized(t *testing.T) {
	var dev lcdi2c.Dev
	if err := dev.Clear(); !errors.Is(err, lcdi2c.ErrNotInitialized) {
		t.Errorf("Clear() on a zero value device = %v, want ErrNotInitialized", err)
	}
	if _, err := dev.Write([]byte("x")); !errors.Is(err, lcdi2c.ErrNotInitialized) {
		t.Errorf("Write() on a zero value device = %v, want ErrNotInitialized", err)
	}
	if err := dev.MoveTo(1, 1); !errors.Is(err, lcdi2c.ErrNotInitialized) {
		t.Errorf("MoveTo() on a zero value device = %v, want ErrNotInitialized", err)
	}
}

func TestTransportFailure(t *testing.T) {
	// The playback runs dry after init: the next operation fails and the
	// error reaches the caller.
	dev, _ := getDev(t, nil)
	if err := dev.Clear(); err == nil {
		t.Error("Clear() on an exhausted bus: expected an error")
	}
}

func TestHalt(t *testing.T) {
	old := backLight
	defer func() { backLight = old }()

	extra := messageOps(0x01, command) // clear
	backLight = 0
	extra = append(extra, i2ctest.IO{Addr: testAddr, W: []byte{0x00}}) // backlight off refresh
	extra = append(extra, messageOps(0x08, command)...)                // display off
	backLight = old

	dev, bus := getDev(t, extra)
	if err := dev.Halt(); err != nil {
		t.Error(err)
	}
	drain(t, bus)
}
