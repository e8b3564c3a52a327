package scpi

import "strings"

// CommandTree is the root of the SCPI command namespace: a trie of
// CommandNodes plus a separate registry of IEEE 488.2 common commands
// (the "*"-prefixed ones, which never nest).
type CommandTree struct {
	root           *CommandNode
	commonCommands map[string]CommandHandler
}

// NewCommandTree returns an empty tree.
func NewCommandTree() *CommandTree {
	return &CommandTree{
		root:           NewCommandNode("ROOT", "ROOT"),
		commonCommands: make(map[string]CommandHandler),
	}
}

// Root returns the tree's root node.
func (t *CommandTree) Root() *CommandNode { return t.root }

// ensurePath walks nodes from the root, reusing existing children by
// upper-cased short name or creating new ones, and returns the path of
// concrete tree nodes. Reusing an existing node whose new registration
// marks it optional forces IsOptional=true on the shared node.
func (t *CommandTree) ensurePath(nodes []PatternNode) []*CommandNode {
	path := make([]*CommandNode, 0, len(nodes))
	cur := t.root
	for _, pn := range nodes {
		key := strings.ToUpper(pn.ShortName)
		child, ok := cur.Children[key]
		if !ok {
			child = NewCommandNode(pn.ShortName, pn.Name)
			if pn.HasParam {
				child.ParamDef = NodeParamDef{Name: pn.ParamName, Constraint: pn.Constraint}
			}
			cur.addChild(child)
		}
		if pn.IsOptional {
			child.IsOptional = true
		}
		path = append(path, child)
		cur = child
	}
	return path
}

// findTrailingOptionalStart returns the index of the first node in the
// maximal run of optional nodes at the end of path, or len(path) if path
// doesn't end in an optional node.
func findTrailingOptionalStart(path []*CommandNode) int {
	i := len(path)
	for i > 0 && path[i-1].IsOptional {
		i--
	}
	return i
}

// setHandlersForOptionalChain binds handler to every valid sub-path
// length from the last non-optional ancestor through the full path, so a
// command like "MEASure[:VOLTage]" is reachable both as "MEASure" and as
// "MEASure:VOLTage".
func setHandlersForOptionalChain(path []*CommandNode, optionalStart int, handler CommandHandler, isQuery bool) {
	start := optionalStart
	for length := start; length <= len(path); length++ {
		if length == 0 {
			continue
		}
		node := path[length-1]
		if isQuery {
			node.SetQueryHandler(handler)
		} else {
			node.SetHandler(handler)
		}
	}
}

func (t *CommandTree) register(pattern string, handler CommandHandler, isQuery bool) error {
	nodes, patternIsQuery, err := ParsePattern(pattern)
	if err != nil {
		return err
	}
	_ = patternIsQuery
	path := t.ensurePath(nodes)
	if len(path) == 0 {
		return nil
	}
	optionalStart := findTrailingOptionalStart(path)
	if optionalStart < len(path) {
		setHandlersForOptionalChain(path, optionalStart, handler, isQuery)
	} else {
		leaf := path[len(path)-1]
		if isQuery {
			leaf.SetQueryHandler(handler)
		} else {
			leaf.SetHandler(handler)
		}
	}
	return nil
}

// RegisterCommand registers handler as the set-form handler for pattern.
func (t *CommandTree) RegisterCommand(pattern string, handler CommandHandler) error {
	return t.register(strings.TrimSuffix(pattern, "?"), handler, false)
}

// RegisterQuery registers handler as the query-form handler for pattern,
// implicitly adding a trailing '?' if pattern doesn't already have one.
func (t *CommandTree) RegisterQuery(pattern string, handler CommandHandler) error {
	base := strings.TrimSuffix(pattern, "?")
	return t.register(base, handler, true)
}

// RegisterBoth registers separate set and query handlers for the same
// pattern.
func (t *CommandTree) RegisterBoth(pattern string, setHandler, queryHandler CommandHandler) error {
	base := strings.TrimSuffix(pattern, "?")
	if setHandler != nil {
		if err := t.register(base, setHandler, false); err != nil {
			return err
		}
	}
	if queryHandler != nil {
		if err := t.register(base, queryHandler, true); err != nil {
			return err
		}
	}
	return nil
}

func normalizeCommonName(name string) string {
	up := strings.ToUpper(name)
	if !strings.HasPrefix(up, "*") {
		up = "*" + up
	}
	return up
}

// RegisterCommonCommand registers handler for an IEEE 488.2 common
// command such as "*CLS" or "*ESE?". The trailing '?' (if present)
// distinguishes the query form from the set form in the registry key.
func (t *CommandTree) RegisterCommonCommand(name string, handler CommandHandler) {
	t.commonCommands[normalizeCommonName(name)] = handler
}

// FindCommonCommand looks up a common command handler by name (including
// any trailing '?').
func (t *CommandTree) FindCommonCommand(name string) (CommandHandler, bool) {
	h, ok := t.commonCommands[normalizeCommonName(name)]
	return h, ok
}

func (t *CommandTree) HasCommonCommand(name string) bool {
	_, ok := t.commonCommands[normalizeCommonName(name)]
	return ok
}
