package scpi

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const maxCommandLength = 65536
const maxBlockDataSize = 100 * 1024 * 1024
const maxInputSize = maxBlockDataSize + maxCommandLength

// defaultIDN is the "*IDN?" response a host that hasn't called SetIDN
// gets back, matching the original implementation's placeholder identity
// string.
const defaultIDN = "SCPI-Parser,VirtualInstrument,SN000000,0.1"

// Metrics is the subset of instrumentation the Dispatcher will call into
// when non-nil. internal/metrics.Metrics implements it.
type Metrics interface {
	CommandExecuted()
	ErrorPushed(code Code)
	QueryInterrupted()
	QueueOverflow()
	SetQueueDepth(n int)
}

// Dispatcher is the SCPI command tree plus the per-message execution
// loop: it owns the command tree, the current path context, and wiring
// for diagnostic logging and metrics.
type Dispatcher struct {
	tree             *CommandTree
	pathContext      *PathContext
	autoResetContext bool
	idn              string

	log     *logrus.Logger
	metrics Metrics
}

// NewDispatcher returns a Dispatcher with IEEE 488.2 common commands and
// the SYSTem:ERRor query family already registered. log may be nil (a
// discard logger is used); metrics may be nil (instrumentation is
// skipped).
func NewDispatcher(log *logrus.Logger, m Metrics) *Dispatcher {
	if log == nil {
		log = logrus.New()
		log.SetOutput(discardWriter{})
	}
	d := &Dispatcher{
		tree:             NewCommandTree(),
		pathContext:      &PathContext{},
		autoResetContext: true,
		idn:              defaultIDN,
		log:              log,
		metrics:          m,
	}
	d.registerIEEE488Defaults()
	d.registerDefaultSystemCommands()
	return d
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// SetIDN overrides the "*IDN?" response.
func (d *Dispatcher) SetIDN(idn string) { d.idn = idn }

// SetAutoResetContext controls whether the path context resets to the
// root before each ExecuteAll call. Defaults to true.
func (d *Dispatcher) SetAutoResetContext(v bool) { d.autoResetContext = v }

func (d *Dispatcher) Tree() *CommandTree { return d.tree }

// RegisterCommand registers handler as pattern's set-form implementation.
func (d *Dispatcher) RegisterCommand(pattern string, handler CommandHandler) error {
	if err := d.tree.RegisterCommand(pattern, handler); err != nil {
		d.log.WithFields(logrus.Fields{"pattern": pattern, "error": err}).Warn("scpi: command registration failed")
		return err
	}
	return nil
}

// RegisterQuery registers handler as pattern's query-form implementation.
func (d *Dispatcher) RegisterQuery(pattern string, handler CommandHandler) error {
	if err := d.tree.RegisterQuery(pattern, handler); err != nil {
		d.log.WithFields(logrus.Fields{"pattern": pattern, "error": err}).Warn("scpi: query registration failed")
		return err
	}
	return nil
}

// RegisterBoth registers separate set and query handlers for pattern.
func (d *Dispatcher) RegisterBoth(pattern string, setHandler, queryHandler CommandHandler) error {
	if err := d.tree.RegisterBoth(pattern, setHandler, queryHandler); err != nil {
		d.log.WithFields(logrus.Fields{"pattern": pattern, "error": err}).Warn("scpi: command registration failed")
		return err
	}
	return nil
}

// RegisterAuto infers set-vs-query-vs-common registration from pattern's
// shape: a leading '*' registers a common command, a trailing '?'
// registers a query, anything else registers a set-form command.
func (d *Dispatcher) RegisterAuto(pattern string, handler CommandHandler) error {
	if strings.HasPrefix(pattern, "*") {
		d.tree.RegisterCommonCommand(pattern, handler)
		return nil
	}
	if strings.HasSuffix(pattern, "?") {
		return d.RegisterQuery(pattern, handler)
	}
	return d.RegisterCommand(pattern, handler)
}

// RegisterAutoBoth is RegisterAuto for a pattern with distinct set and
// query implementations.
func (d *Dispatcher) RegisterAutoBoth(pattern string, setHandler, queryHandler CommandHandler) error {
	if strings.HasPrefix(pattern, "*") {
		base := strings.TrimSuffix(pattern, "?")
		if setHandler != nil {
			d.tree.RegisterCommonCommand(base, setHandler)
		}
		if queryHandler != nil {
			d.tree.RegisterCommonCommand(base+"?", queryHandler)
		}
		return nil
	}
	return d.RegisterBoth(pattern, setHandler, queryHandler)
}

// normalizeHandlerReturn maps a handler's raw return code to a code
// suitable for pushing to the error queue: standard error codes and
// positive device-defined codes pass through unchanged; anything else
// becomes a generic ExecutionError.
func normalizeHandlerReturn(rc Code) Code {
	if rc == 0 {
		return 0
	}
	if rc > 0 {
		return rc
	}
	if rc <= -100 && rc >= -499 {
		return rc
	}
	return ExecutionError
}

// Execute runs input against ctx, resetting the path context first if
// auto-reset is enabled. It is equivalent to ExecuteAll: a single call
// may still execute several ';'-separated commands.
func (d *Dispatcher) Execute(input []byte, ctx *Context) Code {
	return d.ExecuteAll(input, ctx)
}

// ExecuteAll splits input into commands and executes each in turn,
// applying the query-sequence, resolve-failure, and path-context-update
// rules described in spec.md §4.11.
func (d *Dispatcher) ExecuteAll(input []byte, ctx *Context) Code {
	if len(input) > maxInputSize {
		ctx.PushStandardErrorWithInfo(OutOfMemory, "Command string too long")
		return OutOfMemory
	}
	if d.autoResetContext {
		d.pathContext.Reset()
	}

	splitter := NewCommandSplitter(input)
	cmds, ok := splitter.Split()
	if !ok {
		code := splitter.ErrorCode()
		if code == NoError {
			code = SyntaxError
		}
		ctx.PushStandardErrorWithInfo(code, splitter.ErrorMessage())
		d.recordError(ctx, code)
		return code
	}

	var lastRc Code
	for _, cmd := range cmds {
		if ctx.HasPendingResponse() {
			if ctx.LastResponseWasIndefinite() {
				ctx.PushStandardError(QueryUnterminatedIndefinite)
			} else {
				ctx.PushStandardError(QueryInterrupted)
			}
			if d.metrics != nil {
				d.metrics.QueryInterrupted()
			}
			ctx.ClearResponses()
		}

		rr := Resolve(d.tree, cmd, d.pathContext)
		if !rr.Ok {
			code := rr.ErrorCode
			if code == NoError {
				code = UndefinedHeader
			}
			ctx.PushStandardErrorWithInfo(code, rr.ErrorMessage)
			d.recordError(ctx, code)
			d.log.WithFields(logrus.Fields{"message": rr.ErrorMessage}).Debug("scpi: resolve failed")
			lastRc = code
			continue
		}

		rc := d.executeResolved(cmd, rr, ctx)
		if rc != 0 {
			lastRc = rc
		}
		if d.metrics != nil {
			d.metrics.CommandExecuted()
		}
		UpdatePathContextAfterResolve(d.pathContext, d.tree, cmd, rr)
	}
	return lastRc
}

func (d *Dispatcher) recordError(ctx *Context, code Code) {
	if d.metrics != nil {
		d.metrics.ErrorPushed(code)
		d.metrics.SetQueueDepth(ctx.ErrorQueue().Count())
	}
	if ctx.ErrorQueue().HasOverflowed() && d.metrics != nil {
		d.metrics.QueueOverflow()
	}
}

func (d *Dispatcher) executeResolved(cmd ParsedCommand, rr ResolveResult, ctx *Context) Code {
	ctx.ResetCommandState()
	ctx.SetQuery(cmd.IsQuery)
	ctx.SetParams(cmd.Params)
	ctx.SetNodeParams(rr.NodeParams)

	var handler CommandHandler
	switch {
	case rr.IsCommon:
		handler = rr.CommonHandler
	case rr.Node == nil:
		ctx.PushStandardError(UndefinedHeader)
		d.recordError(ctx, UndefinedHeader)
		return UndefinedHeader
	case cmd.IsQuery:
		handler = rr.Node.QueryHandler()
		if handler == nil {
			ctx.PushStandardError(QueryError)
			d.recordError(ctx, QueryError)
			return QueryError
		}
	default:
		handler = rr.Node.Handler()
		if handler == nil {
			ctx.PushStandardError(CommandError)
			d.recordError(ctx, CommandError)
			return CommandError
		}
	}

	rc := normalizeHandlerReturn(Code(handler(ctx)))
	if rc != 0 && !ctx.HasTransientError() {
		switch {
		case IsCommandError(rc), IsExecutionError(rc), IsDeviceError(rc), IsQueryError(rc):
			ctx.PushStandardError(rc)
		case rc > 0:
			ctx.PushError(rc, "Device-defined error", "")
		default:
			ctx.PushStandardError(ExecutionError)
		}
		d.recordError(ctx, rc)
	}
	return rc
}

// requireOneNumericParam validates that ctx carries exactly one numeric
// parameter, pushing the appropriate standard error and returning ok=false
// otherwise.
func requireOneNumericParam(ctx *Context) (int32, bool) {
	n := ctx.Params().Size()
	if n == 0 {
		ctx.PushStandardError(MissingParameter)
		return 0, false
	}
	if n > 1 {
		ctx.PushStandardError(ParameterNotAllowed)
		return 0, false
	}
	p := ctx.Params().At(0)
	if !p.IsNumeric() {
		ctx.PushStandardError(DataTypeError)
		return 0, false
	}
	return p.ToInt32(0), true
}

// registerIEEE488Defaults registers the IEEE 488.2 mandatory common
// commands, plus *TST? and *WAI (supplemented from the wider IEEE 488.2
// standard and the teacher's own demo command table; see SPEC_FULL.md §4).
func (d *Dispatcher) registerIEEE488Defaults() {
	d.tree.RegisterCommonCommand("*CLS", func(ctx *Context) int {
		ctx.ClearStatus()
		return 0
	})
	d.tree.RegisterCommonCommand("*IDN?", func(ctx *Context) int {
		ctx.Result(d.idn)
		return 0
	})
	d.tree.RegisterCommonCommand("*RST", func(ctx *Context) int { return 0 })
	d.tree.RegisterCommonCommand("*OPC", func(ctx *Context) int {
		ctx.Status().SetOPC()
		return 0
	})
	d.tree.RegisterCommonCommand("*OPC?", func(ctx *Context) int {
		ctx.ResultInt32(1)
		return 0
	})
	d.tree.RegisterCommonCommand("*ESR?", func(ctx *Context) int {
		ctx.ResultInt32(int32(ctx.Status().ReadAndClearESR()))
		return 0
	})
	d.tree.RegisterCommonCommand("*ESE", func(ctx *Context) int {
		mask, ok := requireOneNumericParam(ctx)
		if !ok {
			return 0
		}
		ctx.Status().SetESE(uint8(mask & 0xFF))
		return 0
	})
	d.tree.RegisterCommonCommand("*ESE?", func(ctx *Context) int {
		ctx.ResultInt32(int32(ctx.Status().GetESE()))
		return 0
	})
	d.tree.RegisterCommonCommand("*SRE", func(ctx *Context) int {
		mask, ok := requireOneNumericParam(ctx)
		if !ok {
			return 0
		}
		ctx.Status().SetSRE(uint8(mask & 0xFF))
		return 0
	})
	d.tree.RegisterCommonCommand("*SRE?", func(ctx *Context) int {
		ctx.ResultInt32(int32(ctx.Status().GetSRE()))
		return 0
	})
	d.tree.RegisterCommonCommand("*STB?", func(ctx *Context) int {
		ctx.ResultInt32(int32(ctx.ComputeSTB()))
		return 0
	})
	d.tree.RegisterCommonCommand("*TST?", func(ctx *Context) int {
		ctx.ResultInt32(0)
		return 0
	})
	d.tree.RegisterCommonCommand("*WAI", func(ctx *Context) int { return 0 })
}

// registerDefaultSystemCommands registers the ":SYSTem:ERRor" family
// spec.md §6 names as the default error-reporting surface.
func (d *Dispatcher) registerDefaultSystemCommands() {
	popErr := func(ctx *Context) int {
		e := ctx.ErrorQueue().Pop()
		ctx.Result(e.ToScpiString())
		return 0
	}
	_ = d.RegisterQuery(":SYSTem:ERRor", popErr)
	_ = d.RegisterQuery(":SYSTem:ERRor:NEXT", popErr)
	_ = d.RegisterQuery(":SYSTem:ERRor:COUNt", func(ctx *Context) int {
		ctx.ResultInt32(int32(ctx.ErrorQueue().Count()))
		return 0
	})
	_ = d.RegisterCommand(":SYSTem:ERRor:CLEar", func(ctx *Context) int {
		ctx.ErrorQueue().PopAll()
		return 0
	})
	_ = d.RegisterQuery(":SYSTem:ERRor:ALL", func(ctx *Context) int {
		ctx.Result(ctx.ErrorQueue().FormatAll())
		return 0
	})
}
