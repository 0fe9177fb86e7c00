//go:build tinygo

package main

import (
	"machine"
	"time"
)

const (
	// Timing
	TICK_PERIOD  = 100 * time.Millisecond // Timer tick, the statistics clock resolution
	LOOP_IDLE    = 100 * time.Microsecond // Pause between main loop iterations
	RECEIVE_POLL = time.Millisecond       // UART receive buffer poll interval

	// ADC configuration
	ADC_REFERENCE_MV = 5000 // AVcc reference in millivolts (5V)
	ADC_RESOLUTION   = 10   // ADC resolution in bits (10-bit = 0-1023)

	// Current sensor output (A0 on the Uno header)
	PIN_CURRENT = machine.ADC0

	// Serial configuration
	// Online mode prints at most one ~35 byte line per second and the dumps
	// are one-off, so 19200 baud leaves ample headroom.
	UART_BAUD_RATE = 19200
)
