// Command scpiinteractive is a REPL over a Dispatcher exposing a small
// DMM-style measurement command set plus the IEEE 488.2 common commands
// and SYSTem:ERRor family the Dispatcher registers by default.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	scpi "github.com/Nine-Fives/go-scpi-parser"
	"github.com/Nine-Fives/go-scpi-parser/internal/config"
)

func dmmMeasureVoltageDC(ctx *scpi.Context) int {
	fmt.Fprintf(os.Stderr, "meas:volt:dc\r\n")
	if ctx.Params().Size() > 0 {
		fmt.Fprintf(os.Stderr, "\trange=%v\r\n", ctx.Params().At(0).ToString())
	}
	ctx.ResultDouble(0, 6)
	return 0
}

func dmmMeasureVoltageAC(ctx *scpi.Context) int {
	fmt.Fprintf(os.Stderr, "meas:volt:ac\r\n")
	ctx.ResultDouble(0, 6)
	return 0
}

func dmmConfigureVoltageDC(ctx *scpi.Context) int {
	if ctx.Params().Empty() {
		ctx.PushStandardError(scpi.MissingParameter)
		return 0
	}
	rng := ctx.Params().GetDouble(0, 0)
	fmt.Fprintf(os.Stderr, "conf:volt:dc range=%f\r\n", rng)
	return 0
}

func testBool(ctx *scpi.Context) int {
	fmt.Fprintf(os.Stderr, "test:bool\r\n")
	if ctx.Params().Empty() {
		ctx.PushStandardError(scpi.MissingParameter)
		return 0
	}
	fmt.Fprintf(os.Stderr, "\tvalue=%v\r\n", ctx.Params().GetBool(0, false))
	return 0
}

func testChannelList(ctx *scpi.Context) int {
	fmt.Fprintf(os.Stderr, "test:chanlist\r\n")
	if ctx.Params().Empty() || !ctx.Params().At(0).IsChannelList() {
		ctx.PushStandardError(scpi.DataTypeError)
		return 0
	}
	fmt.Fprintf(os.Stderr, "\tchannels=%v\r\n", ctx.Params().At(0).ToChannelList())
	return 0
}

func main() {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	cfg := config.DefaultConfig()
	d := scpi.NewDispatcher(log, nil)
	d.SetIDN("Nine-Fives,DMM2000,SN000000,1.0")

	_ = d.RegisterQuery(":MEASure:VOLTage:DC", dmmMeasureVoltageDC)
	_ = d.RegisterQuery(":MEASure:VOLTage:AC", dmmMeasureVoltageAC)
	_ = d.RegisterCommand(":CONFigure:VOLTage:DC", dmmConfigureVoltageDC)
	_ = d.RegisterCommand(":TEST:BOOL", testBool)
	_ = d.RegisterCommand(":TEST:CHANnellist", testChannelList)

	ctx := scpi.NewContextWithQueueSize(cfg.ErrorQueueSize)
	ctx.SetOutputCallback(func(s string) { fmt.Println(s) })

	fmt.Fprintln(os.Stderr, "scpiinteractive: type SCPI commands, one per line; Ctrl-D to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		d.Execute([]byte(line+"\n"), ctx)
	}
}
