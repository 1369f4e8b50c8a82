package reader

import (
	"io"
	"strings"

	"github.com/mlisp-lang/mlisp/sx"
)

func unmatchedDelimiter(rd *Reader, ch rune) (sx.Value, error) {
	return nil, rd.annotateError(UnmatchedDelimiter{Ch: ch}, rd.Position())
}

func readComment(rd *Reader, _ rune) (sx.Value, error) {
	begin := rd.Position()
	for {
		ch, err := rd.nextRune()
		if err != nil {
			return nil, rd.annotateError(err, begin)
		}
		if ch == '\n' {
			return nil, errSkip
		}
	}
}

// readHash reads the `#t`/`#f` boolean literals (spec.md §4.3); any
// other text after `#` is InvalidBooleanLiteral.
func readHash(rd *Reader, _ rune) (sx.Value, error) {
	begin := rd.Position()
	ch, err := rd.nextRune()
	if err != nil {
		return nil, rd.annotateError(err, begin)
	}
	switch ch {
	case 't':
		return sx.True, nil
	case 'f':
		return sx.False, nil
	default:
		rest, _ := rd.readToken(ch)
		return nil, rd.annotateError(InvalidBooleanLiteral{Text: rest}, begin)
	}
}

func readString(rd *Reader, _ rune) (sx.Value, error) {
	begin := rd.Position()
	var sb strings.Builder
	for {
		ch, err := rd.nextRune()
		if err != nil {
			return nil, rd.annotateError(err, begin)
		}
		if ch == '\\' {
			ch, err = rd.nextRune()
			if err != nil {
				return nil, rd.annotateError(err, begin)
			}
			switch ch {
			case '"', '\\':
			case 'n':
				ch = '\n'
			case 'r':
				ch = '\r'
			case 't':
				ch = '\t'
			}
		} else if ch == '"' {
			return sx.MakeString(sb.String()), nil
		}
		sb.WriteRune(ch)
	}
}

func readList(endCh rune) macroFn {
	return func(rd *Reader, _ rune) (sx.Value, error) {
		begin := rd.Position()
		result, err := rd.readListBody(endCh)
		if err != nil {
			return nil, rd.annotateError(err, begin)
		}
		return result, nil
	}
}

func (rd *Reader) readListBody(endCh rune) (*sx.Pair, error) {
	var lb sx.ListBuilder
	length := uint(0)
	for {
		if rd.maxLength > 0 {
			if length > rd.maxLength {
				return nil, ErrListTooLong
			}
			length++
		}
		ch, err := rd.skipListSpace()
		if err != nil {
			if err == EndOfStream {
				return nil, EndOfStream
			}
			return nil, err
		}
		if ch == endCh {
			break
		}
		rd.unreadRunes(ch)
		val, err := rd.Read()
		if err != nil {
			return nil, err
		}
		lb.Add(val)
	}
	return lb.List(), nil
}

// skipListSpace skips whitespace and embedded comments between list
// elements, same as the teacher's readListCh.
func (rd *Reader) skipListSpace() (rune, error) {
	for {
		ch, err := rd.nextRune()
		if err != nil {
			return 0, err
		}
		if isSpace(ch) {
			continue
		}
		if ch != ';' {
			return ch, nil
		}
		if _, err := readComment(rd, ch); err != nil && err != errSkip {
			return 0, err
		}
	}
}

func readQuote(rd *Reader, _ rune) (sx.Value, error) {
	obj, err := rd.Read()
	if err != nil {
		if err == EndOfStream {
			return nil, Error{Cause: io.ErrUnexpectedEOF, Begin: rd.Position(), End: rd.Position()}
		}
		return nil, err
	}
	return sx.Quote{Wrapped: obj}, nil
}

func readQuasiquote(rd *Reader, _ rune) (sx.Value, error) {
	obj, err := rd.Read()
	if err != nil {
		if err == EndOfStream {
			return nil, Error{Cause: io.ErrUnexpectedEOF, Begin: rd.Position(), End: rd.Position()}
		}
		return nil, err
	}
	return sx.Quasiquote{Wrapped: obj}, nil
}

func readUnquote(rd *Reader, _ rune) (sx.Value, error) {
	ch, err := rd.nextRune()
	splicing := false
	if err == nil && ch == '@' {
		splicing = true
	} else if err == nil {
		rd.unreadRunes(ch)
	}
	obj, err := rd.Read()
	if err != nil {
		return nil, err
	}
	if splicing {
		return sx.UnquoteSplicing{Wrapped: obj}, nil
	}
	return sx.Unquote{Wrapped: obj}, nil
}
