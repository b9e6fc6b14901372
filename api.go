// Package typeshape parses textual array-type descriptions into type
// trees, and attaches externally supplied per-dimension offset tables
// to a concrete dtype to build ragged-array types.
package typeshape

import (
	"io"
	"math"
	"os"
)

// maxInputLen is the hard cap on string input.  The scanning protocol
// truncates larger lengths internally, so this is a precondition, not
// a soft limit.
const maxInputLen = math.MaxInt32 / 2

// FromFile parses the type description in the named file.  The path
// "-" reads standard input instead.  On failure it returns nil with
// the error reported through ctx.
func FromFile(path string, ctx *Context) Type {
	return fromFile(nil, path, ctx)
}

// FromFileFillMeta is FromFile with dimension metadata threaded
// through to the grammar, shaping any 'var' dimensions it encounters.
func FromFileFillMeta(meta *Meta, path string, ctx *Context) Type {
	return fromFile(meta, path, ctx)
}

// FromString parses an in-memory type description.  On failure it
// returns nil with the error reported through ctx.
func FromString(text string, ctx *Context) Type {
	return fromString(nil, text, ctx)
}

// FromStringFillMeta is FromString with dimension metadata threaded
// through to the grammar.
func FromStringFillMeta(meta *Meta, text string, ctx *Context) Type {
	return fromString(meta, text, ctx)
}

// FromMetaAndDtype parses dtype, which must describe a concrete type,
// and wraps it in one variable dimension per metadata record.  The
// first record shapes the outermost dimension.  With zero records the
// parsed dtype is returned unchanged.
func FromMetaAndDtype(meta *Meta, dtype string, ctx *Context) Type {
	t := FromString(dtype, ctx)
	if t == nil {
		return nil
	}

	if t.Abstract() {
		ctx.report(InvalidArgumentError, "cannot create abstract type with offsets")
		return nil
	}

	// Built bottom-up: wrapping last-to-first leaves the first
	// record outermost.
	for i := meta.NumDims() - 1; i >= 0; i-- {
		t = NewVarDimType(t, meta.OffsetArrays[i], ctx)
		if t == nil {
			return nil
		}
	}
	return t
}

func fromFile(meta *Meta, name string, ctx *Context) Type {
	if name == "-" {
		return fromReader(meta, os.Stdin, true, ctx)
	}

	f, err := os.Open(name)
	if err != nil {
		ctx.report(OSError, "could not open %s", name)
		return nil
	}
	defer f.Close()

	return fromReader(meta, f, false, ctx)
}

func fromString(meta *Meta, text string, ctx *Context) Type {
	buffer := prepareBuffer(text, ctx)
	if buffer == nil {
		return nil
	}
	return fromBuffer(meta, buffer, ctx)
}

// prepareBuffer copies text into a heap buffer of len(text)+2 bytes
// with the last two bytes forced to the zero terminator, as the
// scanning protocol requires.
func prepareBuffer(text string, ctx *Context) []byte {
	if len(text) > maxInputLen {
		ctx.report(LexError, "maximum input length: %d", maxInputLen)
		return nil
	}

	buffer := make([]byte, len(text)+2)
	copy(buffer, text)
	buffer[len(text)] = 0
	buffer[len(text)+1] = 0
	return buffer
}

// fromReader runs one scan session over a stream.  The deferred
// recovery boundary converts a fatal scanner condition into an
// ordinary MemoryError return; it closes over sc so it sees the
// handle's most recent value and tears it down exactly once.
func fromReader(meta *Meta, r io.Reader, isStdin bool, ctx *Context) (t Type) {
	var sc *scanner

	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(scanFatal); !ok {
				panic(e)
			}
			if sc != nil {
				sc.destroy()
			}
			ctx.report(MemoryError, "out of memory (most likely) or internal lexer error")
			t = nil
		}
	}()

	sc, err := newScanner(ctx)
	if err != nil {
		ctx.report(LexError, "lexer initialization failed")
		return nil
	}

	if !isStdin {
		sc.setInput(r)
	}

	ast, ret := parse(sc, meta, ctx)
	sc.destroy()
	sc = nil

	if ret == 2 {
		ctx.report(MemoryError, "out of memory")
	}
	return ast
}

// fromBuffer runs one scan session over an owned, doubly-terminated
// buffer.  Teardown of the scanner, the scan-buffer handle, and the
// buffer itself happens on every exit path, including the recovered
// fatal-error path.
func fromBuffer(meta *Meta, buffer []byte, ctx *Context) (t Type) {
	var (
		sc    *scanner
		state *bufferState
	)

	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(scanFatal); !ok {
				panic(e)
			}
			if sc != nil {
				sc.deleteBuffer(state)
				sc.destroy()
			}
			buffer = nil
			ctx.report(MemoryError, "internal lexer error")
			t = nil
		}
	}()

	sc, err := newScanner(ctx)
	if err != nil {
		ctx.report(LexError, "lexer initialization failed")
		return nil
	}

	state = sc.scanBuffer(buffer)
	state.lineno = 1
	state.column = 1

	ast, ret := parse(sc, meta, ctx)
	sc.deleteBuffer(state)
	sc.destroy()
	sc, state = nil, nil

	if ret == 2 {
		ctx.report(MemoryError, "out of memory")
	}
	return ast
}
