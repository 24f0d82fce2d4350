package shell

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Operators produced by the tokenizer.
const (
	OpPipe        = "|"
	OpOutput      = ">"
	OpAppend      = ">>"
	OpInput       = "<"
	OpError       = "2>"
	OpErrorAppend = "2>>"
	OpBoth        = "&>"
	OpBackground  = "&"
)

// LexResult holds the tokens of a line along with any non-fatal problems
// found while reading it.
type LexResult struct {
	Tokens   []string
	Warnings []string
}

type lexer struct {
	input string
	pos   int

	tokens  []string
	current strings.Builder
}

// char decodes the character starting at byte offset i. The width is 0 at the
// end of the input.
func (l *lexer) char(i int) (rune, int) {
	if i >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[i:])
}

// literal copies the character at byte offset i into the current word as the
// raw bytes of the line, so bytes that aren't valid UTF-8 survive, and returns
// its width.
func (l *lexer) literal(i int) int {
	_, size := l.char(i)
	l.current.WriteString(l.input[i : i+size])
	return size
}

func (l *lexer) flush() {
	if l.current.Len() > 0 {
		l.tokens = append(l.tokens, l.current.String())
		l.current.Reset()
	}
}

func (l *lexer) emit(op string) {
	l.flush()
	l.tokens = append(l.tokens, op)
}

// Tokenize splits a line into words and operators.
//
// Single quotes preserve everything up to the closing quote. Inside double
// quotes and outside of quotes a backslash makes the next character literal.
// Whitespace outside quotes separates words. Quotes are removed but never
// produce an empty word on their own. An unterminated quote runs to the end of
// the line.
func Tokenize(line string) []string {
	return Lex(line).Tokens
}

// Lex is Tokenize but also reports unterminated quotes.
func Lex(line string) LexResult {
	l := &lexer{input: line}

	var quote rune
	for l.pos < len(l.input) {
		c, size := l.char(l.pos)
		next, nextSize := l.char(l.pos + size)
		hasNext := nextSize > 0
		advance := size

		switch quote {
		case '\'':
			if c == '\'' {
				quote = 0
			} else {
				l.literal(l.pos)
			}
			l.pos += advance
			continue

		case '"':
			switch {
			case c == '"':
				quote = 0
			case c == '\\' && hasNext:
				advance += l.literal(l.pos + size)
			default:
				l.literal(l.pos)
			}
			l.pos += advance
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = c

		case c == '\\':
			if hasNext {
				advance += l.literal(l.pos + size)
			} else {
				l.literal(l.pos)
			}

		case c == '|':
			l.emit(OpPipe)

		case c == '<':
			l.emit(OpInput)

		case c == '>':
			if hasNext && next == '>' {
				l.emit(OpAppend)
				advance += nextSize
			} else {
				l.emit(OpOutput)
			}

		case c == '&':
			if hasNext && next == '>' {
				l.emit(OpBoth)
				advance += nextSize
			} else {
				// A lone & starts a word so "a &b" keeps "&b" together.
				l.flush()
				l.literal(l.pos)
			}

		// Only 1> and 2> name a stream. Any other digit before > is a plain
		// word and the > redirects stdout.
		case (c == '1' || c == '2') && hasNext && next == '>':
			truncOp, appendOp := OpError, OpErrorAppend
			if c == '1' {
				truncOp, appendOp = OpOutput, OpAppend
			}

			if after, _ := l.char(l.pos + size + nextSize); after == '>' {
				l.emit(appendOp)
				advance += nextSize + 1
			} else {
				l.emit(truncOp)
				advance += nextSize
			}

		case unicode.IsSpace(c):
			l.flush()

		default:
			l.literal(l.pos)
		}
		l.pos += advance
	}
	l.flush()

	out := LexResult{Tokens: l.tokens}
	switch quote {
	case '\'':
		out.Warnings = append(out.Warnings, "unterminated single quote")
	case '"':
		out.Warnings = append(out.Warnings, "unterminated double quote")
	}
	return out
}
