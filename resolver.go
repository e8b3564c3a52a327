package scpi

import "strings"

// maxResolveDepth bounds the path resolver's DFS recursion, guarding
// against pathological command trees.
const maxResolveDepth = 32

// PathContext tracks the command tree node a relative (non-absolute)
// command header should be resolved against, per IEEE 488.2's notion of
// "current path".
type PathContext struct {
	current *CommandNode
}

// CurrentNode returns the current context node, or nil for the root.
func (pc *PathContext) CurrentNode() *CommandNode { return pc.current }

// Reset returns the context to the root.
func (pc *PathContext) Reset() { pc.current = nil }

// PathNode is one ':'-separated segment of a parsed command header.
type PathNode struct {
	BaseName  string
	Suffix    int32
	HasSuffix bool
}

// NodeParamValue is one extracted node-suffix binding: the numeric suffix
// captured at a param-bearing node, retrievable by its registered
// parameter name or by either form of the node's own name.
type NodeParamValue struct {
	ParamName string
	ShortName string
	LongName  string
	Value     int32
}

// NodeParamValues is the ordered list of bindings accumulated by one
// resolve. Lookup is case-insensitive and accepts the parameter name or
// either node name form.
type NodeParamValues []NodeParamValue

// Lookup finds the value bound under name, matching case-insensitively
// against each binding's parameter name, short node name, or long node
// name.
func (vals NodeParamValues) Lookup(name string) (int32, bool) {
	for _, v := range vals {
		if strings.EqualFold(v.ParamName, name) || strings.EqualFold(v.ShortName, name) || strings.EqualFold(v.LongName, name) {
			return v.Value, true
		}
	}
	return 0, false
}

// ResolveResult is the outcome of resolving one ParsedCommand against a
// CommandTree.
type ResolveResult struct {
	Node          *CommandNode
	NodeParams    NodeParamValues
	ConsumedPath  []*CommandNode
	IsCommon      bool
	CommonHandler CommandHandler
	CommonName    string
	Ok            bool
	ErrorCode     Code
	ErrorMessage  string
}

type dfsKey struct {
	node  *CommandNode
	index int
}

// Resolve walks cmd's path through tree starting from ctx's current
// position (or the tree root for absolute paths), matching optional nodes
// via epsilon-moves interleaved with literal-segment consume-moves.
func Resolve(tree *CommandTree, cmd ParsedCommand, ctx *PathContext) ResolveResult {
	if cmd.IsCommon {
		name := buildCommonName(cmd)
		if h, ok := tree.FindCommonCommand(name); ok {
			return ResolveResult{IsCommon: true, CommonHandler: h, CommonName: name, Ok: true}
		}
		return ResolveResult{
			IsCommon: true, CommonName: name, Ok: false,
			ErrorCode: UndefinedHeader, ErrorMessage: "Undefined header near: " + name,
		}
	}

	start := tree.Root()
	if !cmd.IsAbsolute {
		if ctx.current != nil {
			start = ctx.current
		}
	}

	visited := make(map[dfsKey]bool)
	node, consumed, nodeParams, ok := dfsResolve(start, cmd.Path, 0, 0, visited, nil, nil)
	if !ok {
		near := ""
		if len(cmd.Path) > 0 {
			near = cmd.Path[len(cmd.Path)-1].BaseName
		}
		return ResolveResult{
			Ok: false, ErrorCode: UndefinedHeader,
			ErrorMessage: "Undefined header near: " + near,
		}
	}
	return ResolveResult{Node: node, NodeParams: nodeParams, ConsumedPath: consumed, Ok: true}
}

func dfsResolve(
	node *CommandNode, path []PathNode, index, depth int,
	visited map[dfsKey]bool, consumed []*CommandNode, nodeParams NodeParamValues,
) (*CommandNode, []*CommandNode, NodeParamValues, bool) {
	if depth > maxResolveDepth {
		return nil, nil, nil, false
	}
	key := dfsKey{node, index}
	if visited[key] {
		return nil, nil, nil, false
	}
	visited[key] = true

	if index == len(path) {
		return node, consumed, nodeParams, true
	}

	seg := path[index]
	res := node.findChild(seg.BaseName, seg.Suffix, seg.HasSuffix)
	if res.Found && !res.OutOfRange {
		nextParams := nodeParams
		if res.Node.ParamDef.HasParam() {
			nextParams = append(append(NodeParamValues(nil), nodeParams...), NodeParamValue{
				ParamName: res.Node.ParamDef.Name,
				ShortName: res.Node.ShortName,
				LongName:  res.Node.LongName,
				Value:     res.Value,
			})
		}
		nextConsumed := append(append([]*CommandNode(nil), consumed...), res.Node)
		if n, c, np, ok := dfsResolve(res.Node, path, index+1, depth+1, visited, nextConsumed, nextParams); ok {
			return n, c, np, true
		}
	}

	for _, child := range node.Children {
		if !child.IsOptional {
			continue
		}
		if n, c, np, ok := dfsResolve(child, path, index, depth+1, visited, consumed, nodeParams); ok {
			return n, c, np, true
		}
	}

	return nil, nil, nil, false
}

func buildCommonName(cmd ParsedCommand) string {
	name := "*" + strings.ToUpper(cmd.CommonName)
	if cmd.IsQuery {
		name += "?"
	}
	return name
}

// UpdatePathContextAfterResolve applies the IEEE 488.2 "current path"
// update rule after a successful resolve. It must not be called after a
// failed resolve.
func UpdatePathContextAfterResolve(ctx *PathContext, tree *CommandTree, cmd ParsedCommand, rr ResolveResult) {
	if cmd.IsCommon {
		return
	}
	startNode := tree.Root()
	if !cmd.IsAbsolute && ctx.current != nil {
		startNode = ctx.current
	}
	switch {
	case len(rr.ConsumedPath) >= 2:
		ctx.current = rr.ConsumedPath[len(rr.ConsumedPath)-2]
	case len(rr.ConsumedPath) == 1:
		if startNode == tree.Root() {
			ctx.current = nil
		}
		// else: relative single-level command leaves context unchanged.
	}
}
