// Command scpidemo wires a Dispatcher to a small virtual power-supply
// command set and feeds it lines from stdin.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	scpi "github.com/Nine-Fives/go-scpi-parser"
	"github.com/Nine-Fives/go-scpi-parser/internal/config"
	"github.com/Nine-Fives/go-scpi-parser/internal/metrics"
)

// supply holds the state a real power supply would keep in hardware
// registers; here it's just package state the handlers close over.
type supply struct {
	voltage  [2]float64
	current  [2]float64
	outputOn [2]bool
}

func (s *supply) chanIndex(ctx *scpi.Context) int {
	n := ctx.NodeParam("n", 1)
	if n < 1 || n > 2 {
		n = 1
	}
	return int(n) - 1
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)

	cfg := config.DefaultConfig()
	reg := prometheus.NewRegistry()

	var m *metrics.Metrics
	if cfg.Monitor.Enabled {
		m = metrics.New(reg)
	}

	d := scpi.NewDispatcher(log, m)
	d.SetIDN("Nine-Fives,PSU3000,SN000000,1.0")

	s := &supply{}
	s.current = [2]float64{0.1, 0.1}

	mustReg := func(err error) {
		if err != nil {
			log.WithError(err).Fatal("scpidemo: registration failed")
		}
	}

	mustReg(d.RegisterBoth(":OUTPut<n:1-2>[:SOURce]:VOLTage", func(ctx *scpi.Context) int {
		v := ctx.Params().GetNumeric(0, 0, 60, 0)
		s.voltage[s.chanIndex(ctx)] = v
		return 0
	}, func(ctx *scpi.Context) int {
		ctx.ResultDouble(s.voltage[s.chanIndex(ctx)], 6)
		return 0
	}))

	mustReg(d.RegisterBoth(":OUTPut<n:1-2>[:SOURce]:CURRent", func(ctx *scpi.Context) int {
		a := ctx.Params().GetNumeric(0, 0, 10, 0.1)
		s.current[s.chanIndex(ctx)] = a
		return 0
	}, func(ctx *scpi.Context) int {
		ctx.ResultDouble(s.current[s.chanIndex(ctx)], 6)
		return 0
	}))

	mustReg(d.RegisterBoth(":OUTPut<n:1-2>[:STATe]", func(ctx *scpi.Context) int {
		on := ctx.Params().GetBool(0, false)
		s.outputOn[s.chanIndex(ctx)] = on
		return 0
	}, func(ctx *scpi.Context) int {
		ctx.ResultBool(s.outputOn[s.chanIndex(ctx)])
		return 0
	}))

	mustReg(d.RegisterQuery(":OUTPut<n:1-2>:MEASure:VOLTage[:DC]", func(ctx *scpi.Context) int {
		idx := s.chanIndex(ctx)
		if !s.outputOn[idx] {
			ctx.ResultDouble(0, 6)
			return 0
		}
		ctx.ResultDouble(s.voltage[idx], 6)
		return 0
	}))

	mustReg(d.RegisterQuery(":OUTPut<n:1-2>:MEASure:CURRent[:DC]", func(ctx *scpi.Context) int {
		idx := s.chanIndex(ctx)
		if !s.outputOn[idx] {
			ctx.ResultDouble(0, 6)
			return 0
		}
		ctx.ResultDouble(s.current[idx], 6)
		return 0
	}))

	ctx := scpi.NewContextWithQueueSize(cfg.ErrorQueueSize)
	ctx.SetOutputCallback(func(s string) { fmt.Println(s) })

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rc := d.Execute([]byte(line+"\n"), ctx)
		if rc != 0 {
			log.WithField("code", int32(rc)).Debug("scpidemo: command returned an error code")
		}
	}
}
