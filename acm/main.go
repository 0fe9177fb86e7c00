package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/itohio/goacm/pkg/adc"
	"github.com/itohio/goacm/pkg/app"
	"github.com/itohio/goacm/pkg/clock"
	"github.com/itohio/goacm/pkg/command"
	"github.com/itohio/goacm/pkg/config"
	"github.com/itohio/goacm/pkg/device"
	"github.com/itohio/goacm/pkg/metrics"
	"github.com/itohio/goacm/pkg/sampler"
	"github.com/itohio/goacm/pkg/uart"
)

func main() {
	var (
		configFlag  = flag.String("config", "acm.yaml", "Configuration file path")
		portFlag    = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyUSB0)")
		stdioFlag   = flag.Bool("stdio", false, "Use stdin/stdout as the serial link")
		listFlag    = flag.Bool("list", false, "List available serial ports and exit")
		metricsFlag = flag.String("metrics", "", "Metrics listen address override (e.g., :9100)")
		writeFlag   = flag.Bool("write-config", false, "Write the effective configuration to -config and exit")
	)
	flag.Parse()

	if *listFlag {
		if err := listPorts(os.Stdout); err != nil {
			log.Fatalf("Failed to list serial ports: %v", err)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Command line overrides
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *metricsFlag != "" {
		cfg.Metrics.Addr = *metricsFlag
	}

	if *writeFlag {
		if err := cfg.Save(*configFlag); err != nil {
			log.Fatalf("Failed to save configuration: %v", err)
		}
		log.Printf("Configuration written to %s", *configFlag)
		return
	}

	in, out, closeLink, err := openLink(cfg, *stdioFlag)
	if err != nil {
		log.Fatalf("Failed to open serial link: %v", err)
	}
	defer closeLink()

	if err := run(context.Background(), cfg, in, out); err != nil && !errors.Is(err, app.ErrInterrupted) {
		log.Fatalf("Current meter stopped: %v", err)
	}
	log.Println("Current meter stopped")
}

// run wires the simulated sensor to the device loop and runs every service
// until one of them exits.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	clk := clock.New(cfg.Clock.Tick, clock.WithSpeedup(cfg.Clock.Speedup))

	sensor := adc.NewSimulator(cfg.Simulator, cfg.Sampler, clk.Now)
	smp, err := sampler.New(sensor, cfg.Sampler)
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}

	commands := command.NewBuffer(cfg.Command.BufferSize)

	group := app.New().
		WithService(app.Interrupter{}).
		WithService(clock.NewTicker(clk)).
		WithService(uart.NewReceiver(in, commands))

	var opts []device.Option
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		opts = append(opts, device.WithObserver(metrics.New(reg)))
		group = group.WithService(metrics.NewServer(cfg.Metrics.Addr, reg))
	}

	dev := device.New(device.NewState(smp), clk, commands, out, opts...)
	group = group.WithService(dev)

	log.Printf("Current meter running: tick %v, speed-up x%d", clk.Period(), cfg.Clock.Speedup)
	return group.Run(ctx)
}

// openLink returns the serial link endpoints: a real port or the process
// standard streams.
func openLink(cfg *config.Config, stdio bool) (io.Reader, io.Writer, func(), error) {
	if stdio {
		return os.Stdin, os.Stdout, func() {}, nil
	}

	port := uart.New(cfg.Serial.Port, cfg.Serial.BaudRate)
	if err := port.Connect(); err != nil {
		return nil, nil, nil, err
	}
	log.Printf("Connected to %s at %d baud", port.Name(), cfg.Serial.BaudRate)

	return port, port, func() {
		if err := port.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
	}, nil
}

func listPorts(w io.Writer) error {
	ports, err := uart.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "No serial ports found")
		return nil
	}
	for _, p := range ports {
		if p.Description != "" {
			fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Description)
		} else {
			fmt.Fprintln(w, p.Name)
		}
	}
	return nil
}
