// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdi2c controls HD44780 character displays wired to an I2C GPIO
// expander backpack (PCF8574 and compatibles), in 4 bit bus mode.
//
// The backpack multiplexes the display's control lines and one data nibble
// onto the expander's eight outputs: register select in bit 0, R/W in bit 1
// (grounded, the display is write-only), enable in bit 2, backlight power
// in bit 3 and the data nibble in bits 4-7. Every logical byte therefore
// travels as two nibble transfers, and every nibble transfer as two bus
// writes: the value with enable raised, then the same value with enable
// released. The controller latches on the falling edge.
//
// The byte level bus and the settle time source are injected capabilities,
// so the protocol can be exercised without hardware; see the termlcd
// subpackage for a terminal backed emulation of the full backpack.
//
// # Wiring
//
//	Backpack Pin → System Pin
//	GND          → GND
//	VCC          → 5V
//	SDA          → I2C SDA
//	SCL          → I2C SCL
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
package lcdi2c
