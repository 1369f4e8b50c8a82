package reader

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/mlisp-lang/mlisp/sx"
)

// DefaultNestingLimit is the default maximum nesting depth, grounded on
// the teacher's sxreader.DefaultNestingLimit.
const DefaultNestingLimit = 1000

// DefaultListLimit is the default maximum length of a single list.
const DefaultListLimit = 10000

type macroFn func(*Reader, rune) (sx.Value, error)

// Option configures a Reader at construction time, the same functional-
// options shape the teacher uses for WithNestingLimit/WithListLimit.
type Option func(*Reader)

// WithNestingLimit overrides DefaultNestingLimit.
func WithNestingLimit(depth uint) Option { return func(rd *Reader) { rd.maxDepth = depth } }

// WithListLimit overrides DefaultListLimit.
func WithListLimit(length uint) Option { return func(rd *Reader) { rd.maxLength = length } }

// Reader consumes runes from a stream and parses them into sx.Value
// trees, tracking line/column position for diagnostics.
type Reader struct {
	rr      io.RuneReader
	err     error
	name    string
	buf     []rune
	line    int
	col     int
	prevCol int
	macros  map[rune]macroFn

	maxDepth, curDepth uint
	maxLength          uint
}

// New creates a Reader over r.
func New(r io.Reader, name string, opts ...Option) *Reader {
	rd := &Reader{
		rr:   bufio.NewReader(r),
		name: name,
		macros: map[rune]macroFn{
			'"':  readString,
			'#':  readHash,
			'\'': readQuote,
			'(':  readList(')'),
			')':  unmatchedDelimiter,
			',':  readUnquote,
			'`':  readQuasiquote,
			';':  readComment,
		},
		maxDepth:  DefaultNestingLimit,
		maxLength: DefaultListLimit,
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Name returns the stream's name, used in positions and diagnostics.
func (rd *Reader) Name() string { return rd.name }

// Position returns the reader's current location.
func (rd *Reader) Position() Position {
	return Position{Name: rd.name, Line: rd.line + 1, Col: rd.col}
}

func (rd *Reader) nextRune() (rune, error) {
	if rd.err != nil {
		return -1, rd.err
	}
	var ch rune
	if len(rd.buf) > 0 {
		ch = rd.buf[0]
		if len(rd.buf) > 1 {
			rd.buf = rd.buf[1:]
		} else {
			rd.buf = nil
		}
	} else {
		var err error
		ch, _, err = rd.rr.ReadRune()
		if err != nil {
			if err == io.EOF {
				err = EndOfStream
			}
			rd.err = err
			return -1, err
		}
	}
	if ch == '\n' {
		rd.line++
		rd.prevCol = rd.col
		rd.col = 0
	} else {
		rd.col++
	}
	return ch, nil
}

func (rd *Reader) unreadRunes(chs ...rune) {
	hasNewline := false
	for _, ch := range chs {
		if ch == '\n' {
			hasNewline = true
		}
	}
	if hasNewline {
		rd.line--
		rd.col = rd.prevCol
	} else {
		rd.col--
	}
	rd.buf = append(chs, rd.buf...)
}

func isSpace(ch rune) bool { return (ch <= ' ' && ch >= 0) || unicode.IsSpace(ch) }

// isSymbolTerminator reports whether ch ends the current token: any
// registered read macro, plus control/separator runes and the list
// delimiters `{` `}` spec.md §4.3 reserves alongside `(` `)`.
func (rd *Reader) isSymbolTerminator(ch rune) bool {
	if _, found := rd.macros[ch]; found {
		return true
	}
	if ch == '{' || ch == '}' {
		return true
	}
	return unicode.In(ch, unicode.C, unicode.Z)
}

func (rd *Reader) skipSpace() (rune, error) {
	for {
		ch, err := rd.nextRune()
		if err != nil {
			return -1, err
		}
		if !isSpace(ch) {
			return ch, nil
		}
	}
}

// Read parses and returns one top-level value. It returns EndOfStream
// once the stream is exhausted with no partial token pending.
func (rd *Reader) Read() (sx.Value, error) {
	if rd.curDepth > rd.maxDepth {
		return nil, rd.annotateError(ErrTooDeeplyNested, rd.Position())
	}
	rd.curDepth++
	defer func() { rd.curDepth-- }()
	for {
		val, err := rd.readValue()
		if err == nil {
			return val, nil
		}
		if err == errSkip {
			continue
		}
		return nil, err
	}
}

// ReadAll reads every top-level form until EndOfStream.
func (rd *Reader) ReadAll() ([]sx.Value, error) {
	var vals []sx.Value
	for {
		val, err := rd.Read()
		if err != nil {
			if err == EndOfStream {
				return vals, nil
			}
			return vals, err
		}
		vals = append(vals, val)
	}
}

func (rd *Reader) readValue() (sx.Value, error) {
	ch, err := rd.skipSpace()
	if err != nil {
		return nil, err
	}
	if isDigit(ch) {
		return readNumber(rd, ch)
	}
	if ch == '~' {
		ch2, err2 := rd.nextRune()
		if err2 != nil {
			return nil, err2
		}
		if isDigit(ch2) {
			return readNegativeNumber(rd, ch2)
		}
		rd.unreadRunes(ch2)
	}
	if m, found := rd.macros[ch]; found {
		return m(rd, ch)
	}
	return readSymbolOrKeyword(rd, ch)
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

func (rd *Reader) readToken(firstCh rune) (string, error) {
	var sb strings.Builder
	if firstCh > ' ' {
		sb.WriteRune(firstCh)
	}
	for {
		ch, err := rd.nextRune()
		if err != nil {
			if err == EndOfStream {
				return sb.String(), nil
			}
			return sb.String(), err
		}
		if rd.isSymbolTerminator(ch) {
			rd.unreadRunes(ch)
			return sb.String(), nil
		}
		sb.WriteRune(ch)
	}
}

func readNumber(rd *Reader, firstCh rune) (sx.Value, error) {
	begin := rd.Position()
	tok, err := rd.readToken(firstCh)
	if err != nil {
		return nil, rd.annotateError(err, begin)
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return nil, rd.annotateError(err, begin)
	}
	return sx.Integer(n), nil
}

func readNegativeNumber(rd *Reader, firstDigit rune) (sx.Value, error) {
	begin := rd.Position()
	tok, err := rd.readToken(firstDigit)
	if err != nil {
		return nil, rd.annotateError(err, begin)
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return nil, rd.annotateError(err, begin)
	}
	return sx.Integer(-n), nil
}

// isSymbolStart reports whether ch may begin a symbol: letters, the
// conventional Lisp punctuation set, or any other printable rune that
// isn't a macro character (spec.md §4.3: "other symbol-start characters
// (letters, * / > < = ? ! - + and similar)").
func isSymbolStart(ch rune) bool {
	if unicode.IsLetter(ch) {
		return true
	}
	switch ch {
	case '*', '/', '>', '<', '=', '?', '!', '-', '+', '_', '%', '&', ':', '.':
		return true
	}
	return unicode.IsPrint(ch)
}

func readSymbolOrKeyword(rd *Reader, firstCh rune) (sx.Value, error) {
	begin := rd.Position()
	if !isSymbolStart(firstCh) {
		return nil, rd.annotateError(UnexpectedCharacter{Ch: firstCh}, begin)
	}
	tok, err := rd.readToken(firstCh)
	if err != nil {
		return nil, rd.annotateError(err, begin)
	}
	return sx.Symbol(tok), nil
}

func (rd *Reader) annotateError(err error, begin Position) error {
	if err == EndOfStream || err == errSkip {
		return err
	}
	return Error{Cause: err, Begin: begin, End: rd.Position()}
}
