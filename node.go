package scpi

import (
	"math"
	"strings"
)

// NodeParamConstraint bounds the numeric suffix a command tree node may
// carry (e.g. the "3" in "OUTPut3"). The zero value is not meaningful;
// use RangeConstraint/OptionalConstraint/OptionalRangeConstraint.
type NodeParamConstraint struct {
	MinValue     int32
	MaxValue     int32
	Required     bool
	DefaultValue int32
}

// DefaultNodeParamConstraint matches a plain numbered node with no
// declared range: any positive suffix is valid, and a suffix must be
// present.
func DefaultNodeParamConstraint() NodeParamConstraint {
	return NodeParamConstraint{MinValue: 1, MaxValue: math.MaxInt32, Required: true, DefaultValue: 1}
}

// RangeConstraint requires a suffix in [min, max].
func RangeConstraint(min, max int32) NodeParamConstraint {
	return NodeParamConstraint{MinValue: min, MaxValue: max, Required: true, DefaultValue: min}
}

// OptionalConstraint allows the node to appear with no suffix at all, in
// which case defaultValue is used.
func OptionalConstraint(defaultValue int32) NodeParamConstraint {
	return NodeParamConstraint{MinValue: 1, MaxValue: math.MaxInt32, Required: false, DefaultValue: defaultValue}
}

// OptionalRangeConstraint combines a bounded range with an optional
// suffix.
func OptionalRangeConstraint(min, max, defaultValue int32) NodeParamConstraint {
	return NodeParamConstraint{MinValue: min, MaxValue: max, Required: false, DefaultValue: defaultValue}
}

// Validate reports whether value falls within the constraint's range.
func (c NodeParamConstraint) Validate(value int32) bool {
	return value >= c.MinValue && value <= c.MaxValue
}

// NodeParamDef names the numeric suffix parameter a node accepts, if any.
type NodeParamDef struct {
	Name       string
	Constraint NodeParamConstraint
}

// HasParam reports whether the node declares a numeric suffix parameter.
func (d NodeParamDef) HasParam() bool { return d.Name != "" }

// CommandHandler executes one resolved command against ctx and returns a
// result code (0 for success; see normalizeHandlerReturn for how
// non-zero codes are interpreted).
type CommandHandler func(*Context) int

// CommandNode is one mnemonic level of the command tree.
type CommandNode struct {
	ShortName string
	LongName  string
	ParamDef  NodeParamDef
	IsOptional bool

	handler      CommandHandler
	queryHandler CommandHandler

	Children map[string]*CommandNode
}

// NewCommandNode builds a node from a pattern-parser-derived short/long
// name pair.
func NewCommandNode(shortName, longName string) *CommandNode {
	return &CommandNode{
		ShortName: shortName,
		LongName:  longName,
		Children:  make(map[string]*CommandNode),
	}
}

func (n *CommandNode) SetHandler(h CommandHandler)      { n.handler = h }
func (n *CommandNode) SetQueryHandler(h CommandHandler) { n.queryHandler = h }
func (n *CommandNode) Handler() CommandHandler          { return n.handler }
func (n *CommandNode) QueryHandler() CommandHandler     { return n.queryHandler }

func (n *CommandNode) addChild(child *CommandNode) {
	n.Children[strings.ToUpper(child.ShortName)] = child
}

// matchName reports whether input matches shortName exactly, longName
// exactly, or a valid-length case-insensitive prefix of longName that is
// at least as long as shortName (the standard SCPI short/long-form rule).
func matchName(input, shortName, longName string) bool {
	up := strings.ToUpper(input)
	shortUp := strings.ToUpper(shortName)
	longUp := strings.ToUpper(longName)

	if up == shortUp {
		return true
	}
	if up == longUp {
		return true
	}
	if len(up) < len(shortUp) || len(up) > len(longUp) {
		return false
	}
	return strings.HasPrefix(longUp, up)
}

// findChildResult reports the outcome of matching one path segment
// against a node's children.
type findChildResult struct {
	Node       *CommandNode
	Value      int32
	Found      bool
	OutOfRange bool
}

// findChild matches baseName (with optional numeric suffix) against n's
// children, validating any node-parameter constraint the matched child
// declares.
func (n *CommandNode) findChild(baseName string, suffix int32, hasSuffix bool) findChildResult {
	for _, child := range n.Children {
		if !matchName(baseName, child.ShortName, child.LongName) {
			continue
		}
		if !child.ParamDef.HasParam() {
			if hasSuffix {
				// A plain node was given a numeric suffix it doesn't accept.
				continue
			}
			return findChildResult{Node: child, Found: true}
		}
		if hasSuffix {
			if !child.ParamDef.Constraint.Validate(suffix) {
				return findChildResult{Node: child, Value: suffix, Found: true, OutOfRange: true}
			}
			return findChildResult{Node: child, Value: suffix, Found: true}
		}
		if child.ParamDef.Constraint.Required {
			continue
		}
		return findChildResult{Node: child, Value: child.ParamDef.Constraint.DefaultValue, Found: true}
	}
	return findChildResult{}
}

// findChildFullName is a convenience over findChild that first splits a
// combined name+suffix string such as "CHANnel3".
func (n *CommandNode) findChildFullName(fullName string) findChildResult {
	base, suffix, hasSuffix := splitNumericSuffix(fullName)
	return n.findChild(base, suffix, hasSuffix)
}
