// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdi2c

import "time"

// HD44780 instruction set.
const (
	clearDisplay    byte = 0x01
	returnHome      byte = 0x02
	entryModeSet    byte = 0x04
	autoIncrement   byte = 0x02
	displayControl  byte = 0x08
	displayOn       byte = 0x04
	cursorOn        byte = 0x02
	cursorBlink     byte = 0x01
	cursorShift     byte = 0x10
	shiftRight      byte = 0x04
	functionSet4Bit byte = 0x28
	setDDRAMAddr    byte = 0x80
)

// Expander wiring of the common PCF857x backpacks. The data nibble sits in
// bits 4-7, the control lines in bits 0-3. R/W (bit 1) is kept low, the
// display is write-only on these backpacks.
const (
	rsCommand    byte = 0x00
	rsData       byte = 0x01
	enableBit    byte = 0x04
	backlightPos      = 3
)

// Controller execution times from the HD44780 datasheet. The busy flag
// can't be read with R/W grounded, so the driver waits these out instead.
const (
	powerOnSettle   = 15 * time.Millisecond
	bootstrapSettle = 5 * time.Millisecond
	commandSettle   = 50 * time.Microsecond
	clearSettle     = 2 * time.Millisecond
	enableSettle    = time.Microsecond
)

// control composes the control line bits that accompany every transfer.
func (dev *Dev) control(rs byte) byte {
	if dev.backlight {
		rs |= 1 << backlightPos
	}
	return rs
}

// sendByte places value on the expander with the enable line raised, then
// writes it again with enable released. The controller latches the data
// nibble on the falling edge.
func (dev *Dev) sendByte(value byte) error {
	if err := dev.tr.WriteByte(value | enableBit); err != nil {
		return err
	}
	dev.sleep(enableSettle)
	return dev.tr.WriteByte(value)
}

// sendNibble transfers a single 4 bit payload. Only used during the
// bootstrap handshake, before the controller accepts nibble pairs.
func (dev *Dev) sendNibble(data, rs byte) error {
	return dev.sendByte(dev.control(rs) | (data&0x0f)<<4)
}

// sendMessage transfers a full byte as two nibble transfers, high nibble
// first. A failing first nibble suppresses the second; the controller is
// left where it is, there is nothing to roll back.
func (dev *Dev) sendMessage(data, rs byte) error {
	ctl := dev.control(rs)
	if err := dev.sendByte(ctl | (data & 0xf0)); err != nil {
		return err
	}
	return dev.sendByte(ctl | (data&0x0f)<<4)
}

// settleFor returns the execution time of an instruction. Clear and home
// take around 1.5ms, everything else finishes within 40us.
func settleFor(cmd byte) time.Duration {
	if cmd == clearDisplay || cmd == returnHome {
		return clearSettle
	}
	return commandSettle
}
