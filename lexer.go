package typeshape

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// maxTokenLen caps the length of a single token.  The scanner treats
// anything longer as an internal fatal condition, mirroring the
// fixed-size token buffers of generated scanners.
const maxTokenLen = 4096

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInvalid
	tokInt
	tokLowerName
	tokUpperName
	tokStar
	tokComma
	tokColon
	tokLparen
	tokRparen
	tokLbrace
	tokRbrace
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// scanFatal is the panic payload for conditions the scanner cannot
// recover from: a failing read on the underlying stream, a malformed
// scan buffer, an over-long token.  Only the scan session's recovery
// boundary may catch it.
type scanFatal struct {
	msg string
}

// bufferState is the scan-buffer handle installed for string input.
// It owns the doubly-terminated byte buffer for the duration of one
// session and carries its own line/column counters.
type bufferState struct {
	data   []byte
	pos    int
	lineno int
	column int
}

// scanner is one instance of the tokenizer, bound to an error context
// for its lifetime.  Input comes either from a stream (standard input
// by default) or from an installed scan buffer.
type scanner struct {
	ctx       *Context
	in        *bufio.Reader
	state     *bufferState
	line      int
	col       int
	destroyed bool
}

// newScanner creates a scanner bound to ctx.  The default input is
// standard input, matching the scanning protocol's convention.
func newScanner(ctx *Context) (*scanner, error) {
	if ctx == nil {
		return nil, errors.New("scanner requires an error context")
	}
	return &scanner{
		ctx:  ctx,
		in:   bufio.NewReader(os.Stdin),
		line: 1,
		col:  1,
	}, nil
}

// setInput replaces the scan input with r.  Callers skip this for
// standard input, which is already the default.
func (s *scanner) setInput(r io.Reader) {
	s.in = bufio.NewReader(r)
}

// scanBuffer installs buf as the scan buffer.  The buffer must end in
// two zero terminator bytes; anything else is a fatal condition.
func (s *scanner) scanBuffer(buf []byte) *bufferState {
	if len(buf) < 2 || buf[len(buf)-1] != 0 || buf[len(buf)-2] != 0 {
		s.fatal("bad buffer in scanBuffer()")
	}
	st := &bufferState{data: buf, lineno: 1, column: 1}
	s.state = st
	return st
}

// deleteBuffer releases the scan-buffer handle.  The owned buffer is
// dropped with it.
func (s *scanner) deleteBuffer(st *bufferState) {
	if st == nil {
		return
	}
	st.data = nil
	if s.state == st {
		s.state = nil
	}
}

// destroy tears the scanner down.  It must run exactly once per
// session, on every exit path.
func (s *scanner) destroy() {
	s.in = nil
	s.state = nil
	s.destroyed = true
}

func (s *scanner) fatal(msg string) {
	panic(scanFatal{msg: msg})
}

// position returns the current 1-based line and column, from the scan
// buffer's own counters when one is installed.
func (s *scanner) position() (int, int) {
	if s.state != nil {
		return s.state.lineno, s.state.column
	}
	return s.line, s.col
}

// peekByte returns the next input byte without consuming it.  The
// second result is false at end of input.
func (s *scanner) peekByte() (byte, bool) {
	if st := s.state; st != nil {
		if st.pos >= len(st.data)-2 || st.data[st.pos] == 0 {
			return 0, false
		}
		return st.data[st.pos], true
	}
	b, err := s.in.Peek(1)
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		s.fatal("input in scanner failed")
	}
	return b[0], true
}

// readByte consumes and returns the next input byte.
func (s *scanner) readByte() (byte, bool) {
	if st := s.state; st != nil {
		if st.pos >= len(st.data)-2 || st.data[st.pos] == 0 {
			return 0, false
		}
		b := st.data[st.pos]
		st.pos++
		if b == '\n' {
			st.lineno++
			st.column = 1
		} else {
			st.column++
		}
		return b, true
	}
	b, err := s.in.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		s.fatal("input in scanner failed")
	}
	if b == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return b, true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameByte(b byte) bool {
	return isNameStart(b) || isDigit(b)
}

// skipSpace consumes whitespace and '#' line comments.
func (s *scanner) skipSpace() {
	for {
		b, ok := s.peekByte()
		if !ok {
			return
		}
		switch {
		case isSpace(b):
			s.readByte()
		case b == '#':
			for {
				c, ok := s.readByte()
				if !ok || c == '\n' {
					break
				}
			}
		default:
			return
		}
	}
}

// next returns the next token.  At end of input it returns tokEOF
// forever.
func (s *scanner) next() token {
	s.skipSpace()
	line, col := s.position()
	b, ok := s.peekByte()
	if !ok {
		return token{kind: tokEOF, line: line, col: col}
	}

	switch b {
	case '*':
		s.readByte()
		return token{kind: tokStar, text: "*", line: line, col: col}
	case ',':
		s.readByte()
		return token{kind: tokComma, text: ",", line: line, col: col}
	case ':':
		s.readByte()
		return token{kind: tokColon, text: ":", line: line, col: col}
	case '(':
		s.readByte()
		return token{kind: tokLparen, text: "(", line: line, col: col}
	case ')':
		s.readByte()
		return token{kind: tokRparen, text: ")", line: line, col: col}
	case '{':
		s.readByte()
		return token{kind: tokLbrace, text: "{", line: line, col: col}
	case '}':
		s.readByte()
		return token{kind: tokRbrace, text: "}", line: line, col: col}
	}

	switch {
	case isDigit(b):
		return token{kind: tokInt, text: s.scanWhile(isDigit), line: line, col: col}
	case isNameStart(b):
		text := s.scanWhile(isNameByte)
		kind := tokLowerName
		if text[0] >= 'A' && text[0] <= 'Z' {
			kind = tokUpperName
		}
		return token{kind: kind, text: text, line: line, col: col}
	default:
		s.readByte()
		return token{kind: tokInvalid, text: string(b), line: line, col: col}
	}
}

// scanWhile consumes bytes matching pred and returns them.  A run
// longer than maxTokenLen is fatal.
func (s *scanner) scanWhile(pred func(byte) bool) string {
	buf := make([]byte, 0, 16)
	for {
		b, ok := s.peekByte()
		if !ok || !pred(b) {
			return string(buf)
		}
		s.readByte()
		buf = append(buf, b)
		if len(buf) > maxTokenLen {
			s.fatal("token too large, exceeds maximum")
		}
	}
}
