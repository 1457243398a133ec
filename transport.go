// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdi2c

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the factory I2C address of PCF8574 based backpacks.
// Boards with the address jumpers open answer here; closing jumpers moves
// the chip down into the 0x20-0x26 range.
const DefaultAddress uint16 = 0x27

// Transport is the byte level bus the driver runs on. Init performs the one
// time hardware bring-up, WriteByte places a single byte on the expander
// outputs.
//
// Implementations are expected to complete synchronously. The driver issues
// writes strictly one at a time.
type Transport interface {
	Init() error
	WriteByte(value byte) error
}

// I2CTransport drives a PCF857x style expander backpack over an I2C bus.
// The expander has no registers; every byte written sets its eight output
// lines directly.
type I2CTransport struct {
	d *i2c.Dev
}

// NewI2CTransport returns a Transport for the backpack at address on bus.
// Passing address 0 selects DefaultAddress.
func NewI2CTransport(bus i2c.Bus, address uint16) *I2CTransport {
	if address == 0 {
		address = DefaultAddress
	}
	return &I2CTransport{d: &i2c.Dev{Bus: bus, Addr: address}}
}

// Init drives all expander lines low once so the control lines start from a
// known state. It doubles as the device probe: a missing backpack NAKs
// here and the error surfaces before any protocol traffic.
func (t *I2CTransport) Init() error {
	return t.WriteByte(0x00)
}

// WriteByte sets the eight expander output lines to value.
func (t *I2CTransport) WriteByte(value byte) error {
	return t.d.Tx([]byte{value}, nil)
}

func (t *I2CTransport) String() string {
	return fmt.Sprintf("%s(%s)", packageName, t.d.String())
}

var _ Transport = &I2CTransport{}
