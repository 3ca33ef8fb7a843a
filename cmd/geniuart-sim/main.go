// Command geniuart-sim runs the GENI UART debugger transport against a
// simulated serial engine: it brings the port up, optionally transmits and
// injects traffic, and prints what the receive path delivers.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"geniuart/drivers/geniuart"
	"geniuart/drivers/geniuart/sesim"
	"geniuart/mmio"
	"geniuart/services/config"
	"geniuart/services/kdio"
	"geniuart/services/kdtransport"
)

var (
	configPath = flag.String("config", "", "JSON or YAML configuration file")
	baud       = flag.Uint32("baud", 0, "Override port baud rate")
	polls      = flag.Int("polls", -1, "Bound hardware waits to N polls (0 waits until --duration expires)")
	loopback   = flag.Bool("loopback", true, "Route transmitted bytes back to the receiver")
	send       = flag.String("send", "", "Text to transmit after bring-up")
	feed       = flag.String("feed", "", "Text injected on the simulated RX line")
	lines      = flag.Bool("lines", false, "Report received data line by line")
	duration   = flag.Duration("duration", 250*time.Millisecond, "How long to collect received data")
	list       = flag.Bool("list", false, "List registered transports and exit")
)

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	flag.Parse()
	defer glog.Flush()

	if *list {
		for _, n := range kdtransport.Names() {
			fmt.Println(n)
		}
		return
	}

	if err := run(); err != nil {
		glog.Infof("Error: %+v", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			return cfg, errors.Annotatef(err, "failed to load %s", *configPath)
		}
		cfg = c
	}
	if *baud != 0 {
		cfg.Port.Baud = *baud
	}
	if *polls >= 0 {
		cfg.Wait.Polls = *polls
	}
	if flag.CommandLine.Changed("loopback") {
		cfg.Sim.Loopback = *loopback
	}
	return cfg, errors.Trace(cfg.Validate())
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Trace(err)
	}

	se := sesim.New(sesim.Config{
		Base:        uintptr(cfg.Port.Address),
		TxFifoDepth: cfg.Sim.TxFifoDepth,
		RxFifoDepth: cfg.Sim.RxFifoDepth,
		Loopback:    cfg.Sim.Loopback,
	})
	port := se.Port(cfg.Port.Baud)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var w geniuart.Waiter = geniuart.ContextWaiter{Ctx: ctx}
	if cfg.Wait.Polls > 0 {
		w = geniuart.Budget{Polls: cfg.Wait.Polls}
	}
	if cfg.Transport == geniuart.Name {
		geniuart.Attach(port, geniuart.Config{Waiter: w})
	}

	stream, err := kdio.Open(cfg.Transport, port, kdio.Config{
		RxSize: cfg.Stream.RxSize,
		Poll:   time.Duration(cfg.Stream.PollUS) * time.Microsecond,
	})
	if err != nil {
		return errors.Annotatef(err, "failed to open %s at %#x", cfg.Transport, se.Base())
	}
	glog.Infof("%s up at %#x, %d baud", cfg.Transport, se.Base(), port.BaudRate)
	traceRegisters(se.Log())
	se.ResetLog()

	go stream.Run(ctx)

	mode := kdio.ModeBytes
	if *lines {
		mode = kdio.ModeLines
	}
	mon := kdio.NewMonitor(64)
	stop := mon.Watch(ctx, kdio.MonitorCfg{Name: cfg.Transport, Stream: stream, Mode: mode, IdleFlush: 50 * time.Millisecond})
	defer stop()

	if *feed != "" {
		se.Feed([]byte(*feed))
	}
	if *send != "" {
		if _, err := stream.Write([]byte(*send)); err != nil {
			return errors.Annotatef(err, "transmit failed")
		}
		mon.EmitTX(cfg.Transport, []byte(*send))
		if glog.V(1) {
			glog.Infof("line saw %q", se.Transmitted())
		}
	}

	for {
		select {
		case ev := <-mon.Events():
			fmt.Printf("%s %s %q\n", ev.TS.Format("15:04:05.000"), ev.Dir, ev.Data)
		case <-ctx.Done():
			traceRegisters(se.Log())
			return nil
		}
	}
}

func traceRegisters(log []mmio.Access) {
	if !glog.V(2) {
		return
	}
	for _, a := range log {
		glog.Infof("%s %#010x %#010x", a.Op, a.Addr, a.Val)
	}
}
