//go:build tinygo

//go:generate tinygo flash -target=arduino

package main

import (
	"context"
	"machine"
	"time"

	"github.com/itohio/goacm/pkg/adc"
	"github.com/itohio/goacm/pkg/clock"
	"github.com/itohio/goacm/pkg/command"
	"github.com/itohio/goacm/pkg/device"
	"github.com/itohio/goacm/pkg/sampler"
)

var (
	adcCurrent machine.ADC
	uart       = machine.UART0

	commands = command.NewBuffer(command.DefaultBufferSize)
)

func main() {
	// Configure the current sensor input
	machine.InitADC()
	adcCurrent = machine.ADC{Pin: PIN_CURRENT}
	adcCurrent.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	smp, err := sampler.New(adc.ReaderFunc(readCurrent), sampler.DefaultConfig())
	if err != nil {
		println("sampler:", err.Error())
		return
	}

	ctx := context.Background()
	clk := clock.New(TICK_PERIOD)

	// Timer and receive goroutines stand in for the timer compare and
	// UART receive interrupts.
	go clock.NewTicker(clk).Run(ctx)
	go receive()

	dev := device.New(device.NewState(smp), clk, commands, uart, device.WithIdle(LOOP_IDLE))
	dev.Run(ctx)
}

// readCurrent returns one 10-bit conversion. Get scales readings to 16 bits.
func readCurrent() uint16 {
	return adcCurrent.Get() >> (16 - ADC_RESOLUTION)
}

func receive() {
	for {
		for uart.Buffered() > 0 {
			data, err := uart.ReadByte()
			if err != nil {
				break
			}
			commands.Feed(data)
		}
		time.Sleep(RECEIVE_POLL)
	}
}
