package scpi

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// ByteOrder selects how ResultBlockArray serializes numeric arrays.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// defaultErrorQueueSize matches spec.md §5's stated default.
const defaultErrorQueueSize = 20

type responseItem struct {
	isBinary   bool
	text       string
	bin        []byte
	indefinite bool
}

// Context carries the per-message execution state a command handler
// operates on: its parameters, the accumulated response buffer, the error
// queue, and the status registers.
type Context struct {
	params     ParameterList
	nodeParams NodeParamValues

	outputCallback       func(string)
	binaryOutputCallback func([]byte)

	errorQueue *ErrorQueue
	status     *StatusRegister

	transientErrorCode    Code
	transientErrorMessage string

	isQuery   bool
	byteOrder ByteOrder
	userData  interface{}

	responses              []responseItem
	lastResponseIndefinite bool
}

// NewContext returns a Context with the default error queue capacity.
func NewContext() *Context { return NewContextWithQueueSize(defaultErrorQueueSize) }

// NewContextWithQueueSize returns a Context whose error queue holds at
// most queueSize entries.
func NewContextWithQueueSize(queueSize int) *Context {
	return &Context{
		errorQueue: NewErrorQueue(queueSize),
		status:     &StatusRegister{},
		byteOrder:  BigEndian,
	}
}

func (c *Context) Params() ParameterList        { return c.params }
func (c *Context) NodeParams() NodeParamValues  { return c.nodeParams }

// NodeParam returns the numeric suffix captured for the node named name
// (e.g. "3" from "OUTPut3"), or def if that node had no suffix parameter.
// name is matched case-insensitively against the registered parameter
// name or either node name form.
func (c *Context) NodeParam(name string, def int32) int32 {
	if v, ok := c.nodeParams.Lookup(name); ok {
		return v
	}
	return def
}

func (c *Context) SetOutputCallback(cb func(string))        { c.outputCallback = cb }
func (c *Context) SetBinaryOutputCallback(cb func([]byte))  { c.binaryOutputCallback = cb }

func (c *Context) buffered() bool {
	return c.outputCallback == nil && c.binaryOutputCallback == nil
}

func (c *Context) enqueueTextResponse(s string) {
	if !c.buffered() {
		return
	}
	c.responses = append(c.responses, responseItem{text: s})
	c.lastResponseIndefinite = false
}

// Result emits a plain-text query response.
func (c *Context) Result(s string) {
	if c.outputCallback != nil {
		c.outputCallback(s)
	}
	c.enqueueTextResponse(s)
}

func (c *Context) ResultInt32(v int32)  { c.Result(strconv.FormatInt(int64(v), 10)) }
func (c *Context) ResultInt64(v int64)  { c.Result(strconv.FormatInt(v, 10)) }
func (c *Context) ResultBool(v bool) {
	if v {
		c.Result("1")
	} else {
		c.Result("0")
	}
}

// ResultDouble emits a floating-point response formatted to precision
// significant digits (defaulting to 12, matching the original
// implementation's default).
func (c *Context) ResultDouble(v float64, precision int) {
	if precision <= 0 {
		precision = 12
	}
	c.Result(strconv.FormatFloat(v, 'g', precision, 64))
}

func makeBlockHeader(length int) string {
	digits := strconv.Itoa(length)
	return fmt.Sprintf("#%d%s", len(digits), digits)
}

// ResultBlock emits data as an IEEE 488.2 definite-length arbitrary block.
// When a binary output callback is registered, the header and payload are
// delivered as two separate calls; otherwise a single string (header plus
// payload) is used, or, in buffered mode, a binary response item.
func (c *Context) ResultBlock(data []byte) {
	header := makeBlockHeader(len(data))
	switch {
	case c.binaryOutputCallback != nil:
		c.binaryOutputCallback([]byte(header))
		c.binaryOutputCallback(data)
	case c.outputCallback != nil:
		c.outputCallback(header + string(data))
	default:
		buf := append([]byte(header), data...)
		c.responses = append(c.responses, responseItem{isBinary: true, bin: buf})
		c.lastResponseIndefinite = false
	}
}

// ResultIndefiniteBlock emits data as an IEEE 488.2 indefinite-length
// block ("#0<data>\n").
func (c *Context) ResultIndefiniteBlock(data []byte) {
	framed := append([]byte("#0"), data...)
	framed = append(framed, '\n')
	switch {
	case c.binaryOutputCallback != nil:
		c.binaryOutputCallback([]byte("#0"))
		c.binaryOutputCallback(data)
		c.binaryOutputCallback([]byte{'\n'})
	case c.outputCallback != nil:
		c.outputCallback(string(framed))
	default:
		c.responses = append(c.responses, responseItem{isBinary: true, bin: framed, indefinite: true})
		c.lastResponseIndefinite = true
	}
}

// blockNumeric is the set of element types ResultBlockArray can serialize.
type blockNumeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// ResultBlockArray serializes values in the context's configured byte
// order and emits them as a block response.
func ResultBlockArray[T blockNumeric](c *Context, values []T) {
	var buf []byte
	order := binary.ByteOrder(binary.BigEndian)
	if c.byteOrder == LittleEndian {
		order = binary.LittleEndian
	}
	for _, v := range values {
		buf = append(buf, encodeElement(order, v)...)
	}
	c.ResultBlock(buf)
}

func encodeElement[T blockNumeric](order binary.ByteOrder, v T) []byte {
	switch x := any(v).(type) {
	case int8:
		return []byte{byte(x)}
	case uint8:
		return []byte{x}
	case int16:
		b := make([]byte, 2)
		order.PutUint16(b, uint16(x))
		return b
	case uint16:
		b := make([]byte, 2)
		order.PutUint16(b, x)
		return b
	case int32:
		b := make([]byte, 4)
		order.PutUint32(b, uint32(x))
		return b
	case uint32:
		b := make([]byte, 4)
		order.PutUint32(b, x)
		return b
	case int64:
		b := make([]byte, 8)
		order.PutUint64(b, uint64(x))
		return b
	case uint64:
		b := make([]byte, 8)
		order.PutUint64(b, x)
		return b
	case float32:
		b := make([]byte, 4)
		order.PutUint32(b, math.Float32bits(x))
		return b
	case float64:
		b := make([]byte, 8)
		order.PutUint64(b, math.Float64bits(x))
		return b
	}
	return nil
}

// HasPendingResponse reports whether a query response is buffered and
// unread.
func (c *Context) HasPendingResponse() bool { return len(c.responses) > 0 }

// LastResponseWasIndefinite reports whether the most recently completed
// response used indefinite-length block framing.
func (c *Context) LastResponseWasIndefinite() bool { return c.lastResponseIndefinite }

// PopTextResponse removes and returns the oldest buffered response,
// coercing binary items to a string. Calling this with no response
// pending pushes QueryUnterminated and returns "".
func (c *Context) PopTextResponse() string {
	if len(c.responses) == 0 {
		c.PushStandardError(QueryUnterminated)
		return ""
	}
	item := c.responses[0]
	c.responses = c.responses[1:]
	if item.isBinary {
		return string(item.bin)
	}
	return item.text
}

// PopBinaryResponse is the binary-output analogue of PopTextResponse.
func (c *Context) PopBinaryResponse() []byte {
	if len(c.responses) == 0 {
		c.PushStandardError(QueryUnterminated)
		return nil
	}
	item := c.responses[0]
	c.responses = c.responses[1:]
	if item.isBinary {
		return item.bin
	}
	return []byte(item.text)
}

// ClearResponses discards any buffered, unread responses.
func (c *Context) ClearResponses() {
	c.responses = nil
	c.lastResponseIndefinite = false
}

func (c *Context) ErrorQueue() *ErrorQueue { return c.errorQueue }

// PushError enqueues a custom error, also setting the corresponding ESR
// bit via the status register.
func (c *Context) PushError(code Code, message, context string) {
	c.transientErrorCode = code
	c.transientErrorMessage = message
	c.status.SetErrorByCode(code)
	c.errorQueue.Push(code, message, context)
}

// PushStandardError enqueues code with its default IEEE message text.
func (c *Context) PushStandardError(code Code) {
	c.PushError(code, GetStandardMessage(code), "")
}

// PushStandardErrorWithInfo enqueues code with its default message text
// plus "; info" appended, when info is non-empty.
func (c *Context) PushStandardErrorWithInfo(code Code, info string) {
	msg := GetStandardMessage(code)
	if info != "" {
		msg = msg + "; " + info
	}
	c.PushError(code, msg, "")
}

func (c *Context) HasTransientError() bool        { return c.transientErrorCode != NoError }
func (c *Context) TransientErrorCode() Code       { return c.transientErrorCode }
func (c *Context) TransientErrorMessage() string  { return c.transientErrorMessage }
func (c *Context) ClearTransientError() {
	c.transientErrorCode = NoError
	c.transientErrorMessage = ""
}

func (c *Context) Status() *StatusRegister { return c.status }

// ComputeSTB computes the status byte. MAV reflects buffered-mode
// responses only: if an output callback is registered, the host is
// responsible for its own transport-level "data available" signaling.
func (c *Context) ComputeSTB() uint8 {
	mav := c.buffered() && len(c.responses) > 0
	return c.status.ComputeSTB(!c.errorQueue.Empty(), mav)
}

func (c *Context) IsQuery() bool     { return c.isQuery }
func (c *Context) SetQuery(v bool)   { c.isQuery = v }
func (c *Context) SetByteOrder(o ByteOrder) { c.byteOrder = o }
func (c *Context) ByteOrder() ByteOrder     { return c.byteOrder }
func (c *Context) SetUserData(v interface{}) { c.userData = v }
func (c *Context) UserData() interface{}     { return c.userData }

// ResetCommandState clears the per-command parameters and transient error
// ahead of dispatching the next command. It deliberately leaves the error
// queue, status registers, and buffered responses untouched.
func (c *Context) ResetCommandState() {
	c.params = ParameterList{}
	c.nodeParams = nil
	c.isQuery = false
	c.ClearTransientError()
}

// SetParams installs the parsed parameter list for the command about to
// execute.
func (c *Context) SetParams(pl ParameterList) { c.params = pl }

// SetNodeParams installs the resolved node-suffix values for the command
// about to execute.
func (c *Context) SetNodeParams(v NodeParamValues) { c.nodeParams = v }

// ClearStatus implements "*CLS": drains the error queue and pending
// responses and clears the ESR, but preserves the ESE/SRE enable masks.
func (c *Context) ClearStatus() {
	c.errorQueue.Clear()
	c.ClearResponses()
	c.status.ClearForCLS()
	c.ClearTransientError()
}
