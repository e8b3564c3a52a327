package scpi

import (
	"encoding/hex"
	"strconv"
)

// ParameterType identifies the kind of value a Parameter holds.
type ParameterType int

const (
	ParamNone ParameterType = iota
	ParamInteger
	ParamDouble
	ParamBoolean
	ParamString
	ParamIdentifier
	ParamNumericKeyword
	ParamNumericWithUnit
	ParamChannelList
	ParamBlockData
)

// Parameter is a single typed SCPI argument value, as produced by the
// command splitter from one program-data token.
type Parameter struct {
	typ         ParameterType
	intValue    int64
	doubleValue float64
	boolValue   bool
	stringValue string
	keyword     NumericKeyword
	unitValue   UnitValue
	channelList []int
	blockData   []byte
}

// Type returns the parameter's type tag.
func (p Parameter) Type() ParameterType { return p.typ }

func FromInt(value int64) Parameter { return Parameter{typ: ParamInteger, intValue: value} }
func FromDouble(value float64) Parameter { return Parameter{typ: ParamDouble, doubleValue: value} }
func FromBoolean(value bool) Parameter { return Parameter{typ: ParamBoolean, boolValue: value} }
func FromString(value string) Parameter { return Parameter{typ: ParamString, stringValue: value} }
func FromIdentifierRaw(value string) Parameter {
	return Parameter{typ: ParamIdentifier, stringValue: value}
}

// FromIdentifier builds a Parameter from a bare program-data identifier,
// inferring boolean ("ON"/"OFF"/"1"/"0") and numeric-keyword spellings the
// way the original dispatcher does before falling back to a plain
// identifier.
func FromIdentifier(value string) Parameter {
	switch value {
	case "ON", "on", "On", "1":
		return Parameter{typ: ParamBoolean, boolValue: true, stringValue: value}
	case "OFF", "off", "Off", "0":
		return Parameter{typ: ParamBoolean, boolValue: false, stringValue: value}
	}
	if kw, ok := ParseNumericKeyword(value); ok {
		return Parameter{typ: ParamNumericKeyword, keyword: kw, stringValue: value}
	}
	return Parameter{typ: ParamIdentifier, stringValue: value}
}

func FromKeyword(k NumericKeyword) Parameter {
	return Parameter{typ: ParamNumericKeyword, keyword: k, stringValue: keywordToString(k)}
}

func FromUnitValue(uv UnitValue) Parameter {
	return Parameter{typ: ParamNumericWithUnit, unitValue: uv, doubleValue: uv.ScaledValue}
}

// FromChannelList builds a Parameter from an already-expanded, flat
// channel index list (see DESIGN.md Open Question 5 for why this is a flat
// []int rather than a multi-dimensional model).
func FromChannelList(channels []int) Parameter {
	return Parameter{typ: ParamChannelList, channelList: channels}
}

func FromBlockData(data []byte) Parameter {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Parameter{typ: ParamBlockData, blockData: cp}
}

// IsNumeric reports whether p holds an integer or floating-point value.
func (p Parameter) IsNumeric() bool { return p.typ == ParamInteger || p.typ == ParamDouble }
func (p Parameter) IsInteger() bool { return p.typ == ParamInteger }
func (p Parameter) IsDouble() bool  { return p.typ == ParamDouble }
func (p Parameter) IsBoolean() bool { return p.typ == ParamBoolean }
func (p Parameter) IsString() bool  { return p.typ == ParamString }
func (p Parameter) IsIdentifier() bool     { return p.typ == ParamIdentifier }
func (p Parameter) IsNumericKeyword() bool { return p.typ == ParamNumericKeyword }
func (p Parameter) HasUnit() bool          { return p.typ == ParamNumericWithUnit }
func (p Parameter) IsChannelList() bool    { return p.typ == ParamChannelList }
func (p Parameter) IsBlockData() bool      { return p.typ == ParamBlockData }

func (p Parameter) NumericKeyword() NumericKeyword { return p.keyword }
func (p Parameter) IsMin() bool  { return p.keyword == KeywordMinimum }
func (p Parameter) IsMax() bool  { return p.keyword == KeywordMaximum }
func (p Parameter) IsDef() bool  { return p.keyword == KeywordDefault }
func (p Parameter) IsInf() bool  { return IsInfinityKeyword(p.keyword) }
func (p Parameter) IsUp() bool   { return p.keyword == KeywordUp }
func (p Parameter) IsDown() bool { return p.keyword == KeywordDown }

// ToInt32 returns p's value coerced to int32, or defaultValue if p isn't
// a numeric parameter.
func (p Parameter) ToInt32(defaultValue int32) int32 {
	switch p.typ {
	case ParamInteger:
		return int32(p.intValue)
	case ParamDouble:
		return int32(p.doubleValue)
	case ParamNumericWithUnit:
		return int32(p.unitValue.ScaledValue)
	case ParamBoolean:
		if p.boolValue {
			return 1
		}
		return 0
	}
	return defaultValue
}

func (p Parameter) ToInt64(defaultValue int64) int64 {
	switch p.typ {
	case ParamInteger:
		return p.intValue
	case ParamDouble:
		return int64(p.doubleValue)
	case ParamNumericWithUnit:
		return int64(p.unitValue.ScaledValue)
	}
	return defaultValue
}

func (p Parameter) ToDouble(defaultValue float64) float64 {
	switch p.typ {
	case ParamInteger:
		return float64(p.intValue)
	case ParamDouble:
		return p.doubleValue
	case ParamNumericWithUnit:
		return p.unitValue.ScaledValue
	}
	return defaultValue
}

func (p Parameter) ToBool(defaultValue bool) bool {
	if p.typ == ParamBoolean {
		return p.boolValue
	}
	if p.IsNumeric() {
		return p.ToDouble(0) != 0
	}
	return defaultValue
}

// ToString renders p for display/response purposes.
func (p Parameter) ToString() string {
	switch p.typ {
	case ParamString:
		return p.stringValue
	case ParamIdentifier:
		return p.stringValue
	case ParamNumericKeyword:
		return keywordToString(p.keyword)
	case ParamBoolean:
		if p.boolValue {
			return "1"
		}
		return "0"
	case ParamInteger:
		return strconv.FormatInt(p.intValue, 10)
	case ParamDouble:
		return strconv.FormatFloat(p.doubleValue, 'g', -1, 64)
	case ParamNumericWithUnit:
		return strconv.FormatFloat(p.unitValue.ScaledValue, 'g', -1, 64)
	case ParamBlockData:
		return string(p.blockData)
	}
	return ""
}

func (p Parameter) UnitValue() UnitValue { return p.unitValue }
func (p Parameter) RawValue() float64    { return p.unitValue.RawValue }
func (p Parameter) SiPrefix() SiPrefix   { return p.unitValue.Prefix }
func (p Parameter) BaseUnit() BaseUnit   { return p.unitValue.Unit }

// ToDoubleOr resolves p to a double: if p is a concrete numeric value, that
// value is returned; if p is MIN/MAX/DEF, the corresponding bound is
// returned instead.
func (p Parameter) ToDoubleOr(minVal, maxVal, defVal float64) float64 {
	switch {
	case p.typ == ParamNumericKeyword && p.IsMin():
		return minVal
	case p.typ == ParamNumericKeyword && p.IsMax():
		return maxVal
	case p.typ == ParamNumericKeyword && p.IsDef():
		return defVal
	case p.IsNumeric() || p.typ == ParamNumericWithUnit:
		return p.ToDouble(defVal)
	}
	return defVal
}

// ResolveNumeric resolves a numeric keyword via resolver, or returns p's
// plain numeric value.
func (p Parameter) ResolveNumeric(resolver func(NumericKeyword) float64, defaultValue float64) float64 {
	if p.typ == ParamNumericKeyword {
		return resolver(p.keyword)
	}
	if p.IsNumeric() || p.typ == ParamNumericWithUnit {
		return p.ToDouble(defaultValue)
	}
	return defaultValue
}

func (p Parameter) ToChannelList() []int { return p.channelList }
func (p Parameter) ToBlockData() []byte  { return p.blockData }
func (p Parameter) BlockSize() int       { return len(p.blockData) }
func (p Parameter) BlockToHex() string   { return hex.EncodeToString(p.blockData) }

func (p Parameter) TypeName() string {
	switch p.typ {
	case ParamInteger:
		return "INTEGER"
	case ParamDouble:
		return "DOUBLE"
	case ParamBoolean:
		return "BOOLEAN"
	case ParamString:
		return "STRING"
	case ParamIdentifier:
		return "IDENTIFIER"
	case ParamNumericKeyword:
		return "NUMERIC_KEYWORD"
	case ParamNumericWithUnit:
		return "NUMERIC_WITH_UNIT"
	case ParamChannelList:
		return "CHANNEL_LIST"
	case ParamBlockData:
		return "BLOCK_DATA"
	}
	return "NONE"
}

// ParameterList is the ordered list of arguments parsed for one command.
type ParameterList struct {
	params []Parameter
}

func (pl *ParameterList) Add(p Parameter) { pl.params = append(pl.params, p) }
func (pl ParameterList) Size() int        { return len(pl.params) }
func (pl ParameterList) Empty() bool      { return len(pl.params) == 0 }

func (pl ParameterList) At(index int) Parameter {
	if index < 0 || index >= len(pl.params) {
		return Parameter{}
	}
	return pl.params[index]
}

func (pl ParameterList) GetInt(index int, defaultValue int32) int32 {
	return pl.At(index).ToInt32(defaultValue)
}

func (pl ParameterList) GetInt64(index int, defaultValue int64) int64 {
	return pl.At(index).ToInt64(defaultValue)
}

func (pl ParameterList) GetDouble(index int, defaultValue float64) float64 {
	return pl.At(index).ToDouble(defaultValue)
}

func (pl ParameterList) GetBool(index int, defaultValue bool) bool {
	return pl.At(index).ToBool(defaultValue)
}

func (pl ParameterList) GetString(index int, defaultValue string) string {
	if index < 0 || index >= len(pl.params) {
		return defaultValue
	}
	return pl.params[index].ToString()
}

// GetScaledDouble returns the base-unit-scaled value of a unit parameter,
// or its plain numeric value otherwise.
func (pl ParameterList) GetScaledDouble(index int, defaultValue float64) float64 {
	return pl.At(index).ToDouble(defaultValue)
}

func (pl ParameterList) GetNumeric(index int, minVal, maxVal, defVal float64) float64 {
	return pl.At(index).ToDoubleOr(minVal, maxVal, defVal)
}

func (pl ParameterList) HasUnit(index int) bool { return pl.At(index).HasUnit() }
func (pl ParameterList) GetUnit(index int) BaseUnit { return pl.At(index).BaseUnit() }
func (pl ParameterList) HasBlockData(index int) bool { return pl.At(index).IsBlockData() }
func (pl ParameterList) GetBlockData(index int) []byte { return pl.At(index).ToBlockData() }
func (pl ParameterList) IsKeyword(index int) bool { return pl.At(index).IsNumericKeyword() }
