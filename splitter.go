package scpi


// ParsedCommand is one fully-lexed program message command, ready for
// path resolution.
type ParsedCommand struct {
	IsCommon   bool
	CommonName string
	IsQuery    bool
	IsAbsolute bool
	Path       []PathNode
	Params     ParameterList
}

// maxChannelExpand caps how many indices one channel list may expand to
// in total, per spec.md's memory bounds.
const maxChannelExpand = 100000

// CommandSplitter splits one program message into a sequence of
// ParsedCommands, stopping at the first error (spec.md's Open Question 1:
// the splitter fails fast rather than trying to recover mid-command).
type CommandSplitter struct {
	lex          *Lexer
	errorCode    Code
	errorMessage string
}

// NewCommandSplitter returns a splitter over input.
func NewCommandSplitter(input []byte) *CommandSplitter {
	return &CommandSplitter{lex: NewLexer(input)}
}

func (s *CommandSplitter) ErrorCode() Code       { return s.errorCode }
func (s *CommandSplitter) ErrorMessage() string  { return s.errorMessage }

func (s *CommandSplitter) fail(code Code, msg string) {
	s.errorCode = code
	s.errorMessage = msg
}

// Split parses the whole input into commands. ok is false if any command
// failed to parse; the commands successfully parsed before the failure
// are still returned.
func (s *CommandSplitter) Split() ([]ParsedCommand, bool) {
	var commands []ParsedCommand

	for {
		for s.lex.Peek().Type == TokNewline {
			s.lex.Next()
		}
		if s.lex.Peek().Type == TokEOF {
			return commands, true
		}

		cmd, ok := s.parseOneCommand()
		if !ok {
			return commands, false
		}
		commands = append(commands, cmd)

		switch s.lex.Peek().Type {
		case TokSemicolon, TokNewline:
			s.lex.Next()
		case TokEOF:
			return commands, true
		default:
			s.fail(SyntaxError, "Syntax error")
			return commands, false
		}
	}
}

func (s *CommandSplitter) parseOneCommand() (ParsedCommand, bool) {
	cmd, ok := s.parseHeader()
	if !ok {
		return cmd, false
	}
	if t := s.lex.Peek(); t.Type != TokSemicolon && t.Type != TokNewline && t.Type != TokEOF {
		if !s.skipParamSeparator() {
			return cmd, false
		}
		if !s.parseParameters(&cmd) {
			return cmd, false
		}
	}
	return cmd, true
}

func (s *CommandSplitter) skipParamSeparator() bool {
	for s.lex.Peek().Type == TokError {
		t := s.lex.Next()
		s.fail(t.ErrorCode, t.ErrorMessage)
		return false
	}
	// A space between header and parameters has already been consumed by
	// the lexer's whitespace skipping; nothing further to do here unless
	// the next token is itself invalid.
	return true
}

func (s *CommandSplitter) parseHeader() (ParsedCommand, bool) {
	var cmd ParsedCommand

	if s.lex.Peek().Type == TokAsterisk {
		s.lex.Next()
		idTok := s.lex.Next()
		if idTok.Type != TokIdentifier {
			s.fail(CommandHeaderError, "Command header error")
			return cmd, false
		}
		cmd.IsCommon = true
		cmd.CommonName = idTok.Text
		if s.lex.Peek().Type == TokQuestion {
			s.lex.Next()
			cmd.IsQuery = true
		}
		return cmd, true
	}

	if s.lex.Peek().Type == TokColon {
		s.lex.Next()
		cmd.IsAbsolute = true
	}

	for {
		idTok := s.lex.Next()
		if idTok.Type == TokError {
			s.fail(idTok.ErrorCode, idTok.ErrorMessage)
			return cmd, false
		}
		if idTok.Type != TokIdentifier {
			s.fail(CommandHeaderError, "Command header error")
			return cmd, false
		}
		cmd.Path = append(cmd.Path, PathNode{
			BaseName: idTok.BaseName, Suffix: idTok.NumericSuffix, HasSuffix: idTok.HasNumericSuffix,
		})

		if s.lex.Peek().Type == TokQuestion {
			s.lex.Next()
			cmd.IsQuery = true
			return cmd, true
		}
		if s.lex.Peek().Type == TokColon {
			s.lex.Next()
			continue
		}
		return cmd, true
	}
}

func (s *CommandSplitter) parseParameters(cmd *ParsedCommand) bool {
	for {
		if !s.parseOneParameter(cmd) {
			return false
		}
		if s.lex.Peek().Type != TokComma {
			return true
		}
		s.lex.Next()
	}
}

func (s *CommandSplitter) parseOneParameter(cmd *ParsedCommand) bool {
	tok := s.lex.Peek()

	switch tok.Type {
	case TokLParen:
		return s.parseChannelList(cmd)

	case TokBlockData:
		s.lex.Next()
		cmd.Params.Add(FromBlockData(tok.BlockData))
		return true

	case TokString:
		s.lex.Next()
		cmd.Params.Add(FromString(tok.Text))
		return true

	case TokNumber:
		s.lex.Next()
		if next := s.lex.Peek(); next.Type == TokIdentifier && areAdjacent(tok, next) {
			s.lex.Next()
			if prefix, unit, ok := parseUnitSuffix(next.Text); ok {
				uv := UnitValue{RawValue: tok.NumberValue, Prefix: prefix, Unit: unit, ScaledValue: tok.NumberValue * getMultiplier(prefix)}
				cmd.Params.Add(FromUnitValue(uv))
				return true
			}
			// Not a real unit suffix: treat the identifier as its own
			// parameter and the number as plain numeric.
			if tok.IsInteger {
				cmd.Params.Add(FromInt(tok.IntValue))
			} else {
				cmd.Params.Add(FromDouble(tok.NumberValue))
			}
			cmd.Params.Add(FromIdentifier(next.Text))
			return true
		}
		if tok.IsInteger {
			cmd.Params.Add(FromInt(tok.IntValue))
		} else {
			cmd.Params.Add(FromDouble(tok.NumberValue))
		}
		return true

	case TokIdentifier:
		s.lex.Next()
		if (tok.Text == "+" || tok.Text == "-") {
			if next := s.lex.Peek(); next.Type == TokIdentifier && areAdjacent(tok, next) {
				s.lex.Next()
				cmd.Params.Add(FromIdentifier(tok.Text + next.Text))
				return true
			}
		}
		cmd.Params.Add(FromIdentifier(tok.Text))
		return true
	}

	s.fail(SyntaxError, "Syntax error")
	return false
}

func areAdjacent(a, b Token) bool {
	return a.Position+len(a.Text) == b.Position
}

func (s *CommandSplitter) parseChannelList(cmd *ParsedCommand) bool {
	s.lex.Next() // '('
	if s.lex.Peek().Type != TokAt {
		s.fail(SyntaxError, "Syntax error")
		return false
	}
	s.lex.Next() // '@'

	var channels []int
	for {
		startTok := s.lex.Next()
		if startTok.Type != TokNumber || !startTok.IsInteger {
			s.fail(SyntaxError, "Syntax error")
			return false
		}
		startVal := int(startTok.IntValue)

		if s.lex.Peek().Type == TokColon {
			s.lex.Next()
			endTok := s.lex.Next()
			if endTok.Type != TokNumber || !endTok.IsInteger {
				s.fail(SyntaxError, "Syntax error")
				return false
			}
			endVal := int(endTok.IntValue)
			if endVal < startVal {
				s.fail(IllegalParameterValue, "Illegal parameter value")
				return false
			}
			diff := int64(endVal) - int64(startVal)
			if diff+1 > maxChannelExpand || len(channels)+int(diff)+1 > maxChannelExpand {
				s.fail(TooMuchData, "Too much data")
				return false
			}
			for v := startVal; v <= endVal; v++ {
				channels = append(channels, v)
			}
		} else {
			if len(channels)+1 > maxChannelExpand {
				s.fail(TooMuchData, "Too much data")
				return false
			}
			channels = append(channels, startVal)
		}

		if s.lex.Peek().Type == TokComma {
			s.lex.Next()
			continue
		}
		break
	}

	if s.lex.Peek().Type != TokRParen {
		s.fail(SyntaxError, "Syntax error")
		return false
	}
	s.lex.Next()

	cmd.Params.Add(FromChannelList(channels))
	return true
}
