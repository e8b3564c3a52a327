package scpi

import (
	"fmt"
	"strconv"
	"strings"
)

// PatternNode is one ':'-separated level of a registration pattern string
// such as "MEASure<ch:1-8>:VOLTage[:DC]?".
type PatternNode struct {
	Name       string
	ShortName  string
	IsOptional bool
	ParamName  string
	Constraint NodeParamConstraint
	HasParam   bool
}

// ParsePattern parses a registration string into its ':'-separated nodes
// plus whether it ends in '?'. autoIndex-numbered anonymous parameters
// (from a bare trailing '#') are named "_1", "_2", ...
func ParsePattern(pattern string) ([]PatternNode, bool, error) {
	isQuery := false
	p := pattern
	if strings.HasSuffix(p, "?") {
		isQuery = true
		p = p[:len(p)-1]
	}
	p = strings.TrimPrefix(p, ":")

	parts, err := splitPatternParts(p)
	if err != nil {
		return nil, false, err
	}

	autoIndex := 1
	nodes := make([]PatternNode, 0, len(parts))
	for _, part := range parts {
		node, err := parseNode(part, &autoIndex)
		if err != nil {
			return nil, false, err
		}
		nodes = append(nodes, node)
	}
	return nodes, isQuery, nil
}

// splitPatternParts splits a pattern body on top-level ':' characters,
// treating "[:xxx]" as a single optional node rather than splitting inside
// the brackets, and respecting nesting inside '<...>'.
func splitPatternParts(s string) ([]string, error) {
	var parts []string
	var cur strings.Builder
	bracketDepth := 0
	angleDepth := 0

	flush := func() {
		parts = append(parts, cur.String())
		cur.Reset()
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '[':
			if bracketDepth == 0 && angleDepth == 0 && cur.Len() > 0 {
				flush()
			}
			bracketDepth++
			cur.WriteByte(c)
		case ']':
			bracketDepth--
			if bracketDepth < 0 {
				return nil, fmt.Errorf("unmatched ']' in pattern")
			}
			cur.WriteByte(c)
		case '<':
			angleDepth++
			cur.WriteByte(c)
		case '>':
			angleDepth--
			if angleDepth < 0 {
				return nil, fmt.Errorf("unmatched '>' in pattern")
			}
			cur.WriteByte(c)
		case ':':
			if bracketDepth == 0 && angleDepth == 0 {
				flush()
			} else {
				cur.WriteByte(c)
			}
		default:
			cur.WriteByte(c)
		}
	}
	if bracketDepth != 0 {
		return nil, fmt.Errorf("unmatched '[' in pattern")
	}
	if angleDepth != 0 {
		return nil, fmt.Errorf("unmatched '<' in pattern")
	}
	flush()
	return parts, nil
}

func parseNode(nodeStr string, autoIndex *int) (PatternNode, error) {
	node := PatternNode{}

	s := nodeStr
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return node, fmt.Errorf("malformed optional node: %q", nodeStr)
		}
		node.IsOptional = true
		s = s[1 : len(s)-1]
		s = strings.TrimPrefix(s, ":")
	}

	if idx := strings.IndexByte(s, '<'); idx >= 0 {
		if !strings.HasSuffix(s, ">") {
			return node, fmt.Errorf("malformed parameter in node: %q", nodeStr)
		}
		name := s[:idx]
		paramStr := s[idx+1 : len(s)-1]
		if err := parseParamDef(paramStr, &node, autoIndex); err != nil {
			return node, err
		}
		s = name
	} else if strings.HasSuffix(s, "#") {
		s = s[:len(s)-1]
		node.HasParam = true
		node.ParamName = fmt.Sprintf("_%d", *autoIndex)
		*autoIndex++
		node.Constraint = DefaultNodeParamConstraint()
	}

	if s == "" {
		return node, fmt.Errorf("empty node in pattern: %q", nodeStr)
	}

	node.Name = s
	node.ShortName = extractShortName(s)
	return node, nil
}

func parseParamDef(paramStr string, node *PatternNode, autoIndex *int) error {
	node.HasParam = true
	if paramStr == "" {
		node.ParamName = fmt.Sprintf("_%d", *autoIndex)
		*autoIndex++
		node.Constraint = DefaultNodeParamConstraint()
		return nil
	}

	name := paramStr
	rangeStr := ""
	if idx := strings.IndexByte(paramStr, ':'); idx >= 0 {
		name = paramStr[:idx]
		rangeStr = paramStr[idx+1:]
	}
	if name == "" {
		name = fmt.Sprintf("_%d", *autoIndex)
		*autoIndex++
	}
	node.ParamName = name

	if rangeStr == "" {
		node.Constraint = DefaultNodeParamConstraint()
		return nil
	}
	dash := strings.IndexByte(rangeStr, '-')
	if dash <= 0 {
		return fmt.Errorf("malformed range %q in parameter", rangeStr)
	}
	minStr, maxStr := rangeStr[:dash], rangeStr[dash+1:]
	minVal, err := strconv.Atoi(minStr)
	if err != nil {
		return fmt.Errorf("malformed range %q in parameter", rangeStr)
	}
	maxVal, err := strconv.Atoi(maxStr)
	if err != nil {
		return fmt.Errorf("malformed range %q in parameter", rangeStr)
	}
	if minVal > maxVal {
		return fmt.Errorf("invalid range %d-%d in parameter", minVal, maxVal)
	}
	node.Constraint = RangeConstraint(int32(minVal), int32(maxVal))
	return nil
}

// extractShortName collects the uppercase letters of name in order, which
// is the SCPI convention for deriving a mnemonic's short form from its
// long form (e.g. "MEASure" -> "MEAS"). If name has no uppercase letters
// at all, the whole (uppercased) name is used as both forms.
func extractShortName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return strings.ToUpper(name)
	}
	return sb.String()
}
