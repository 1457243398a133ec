// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdi2c

import "time"

// Opts represents the options available for the display.
type Opts struct {
	// Rows and Cols describe the panel geometry. 2x16 and 4x20 are the
	// common modules.
	Rows int
	Cols int

	// Backlight is the initial backlight state.
	Backlight bool

	// Sleep blocks for the controller mandated settle times. It defaults to
	// time.Sleep. Tests substitute a no-op to run at full speed.
	Sleep func(time.Duration)
}

// DefaultOpts describes the ubiquitous 1602 module with the backlight on.
var DefaultOpts = Opts{
	Rows:      2,
	Cols:      16,
	Backlight: true,
}
