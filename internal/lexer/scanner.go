// Package lexer turns a source buffer into a flat token stream
// (spec.md §4.1). It is a single-pass state-machine scanner: start,
// comment, string, identifier, number, number_after_dot, end.
package lexer

import (
	"fortio.org/safecast"

	"lox/internal/diag"
	"lox/internal/source"
	"lox/internal/token"
)

// Scanner produces a token.Token stream from a source.File, accumulating
// lexing errors into a diag.Bag rather than failing fast (spec.md §4.1:
// "scanning continues").
type Scanner struct {
	file *source.File
	bag  *diag.Bag

	start, current uint32
}

// New creates a Scanner over file, reporting lexing diagnostics into bag.
func New(file *source.File, bag *diag.Bag) *Scanner {
	return &Scanner{file: file, bag: bag}
}

// ScanTokens runs the scanner to completion and returns every token,
// always ending with a synthetic Eof (spec.md §9, open question iii).
// Line/column positions are not tracked as the scanner advances; each
// token resolves its human-facing position lazily from the file's line
// index (source.File.Pos), the same way diagnostics resolve any other
// byte offset back to a line/col pair.
func (s *Scanner) ScanTokens() []token.Token {
	var tokens []token.Token
	for !s.atEnd() {
		tok, ok := s.scanToken()
		if ok {
			tokens = append(tokens, tok)
		}
	}
	s.start = s.current
	tokens = append(tokens, s.makeToken(token.EOF))
	return tokens
}

func (s *Scanner) atEnd() bool { return int(s.current) >= len(s.file.Content) }

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.file.Content[s.current]
}

func (s *Scanner) peekNext() byte {
	if int(s.current)+1 >= len(s.file.Content) {
		return 0
	}
	return s.file.Content[s.current+1]
}

func (s *Scanner) advance() byte {
	c := s.file.Content[s.current]
	s.current++
	return c
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) makeToken(kind token.Kind) token.Token {
	return token.Token{
		Kind: kind,
		Span: source.Span{Start: s.start, End: s.current},
		Pos:  s.file.Pos(s.start),
	}
}

// scanToken consumes one token (or zero, for whitespace/comments) and
// reports whether a token was produced.
func (s *Scanner) scanToken() (token.Token, bool) {
	s.skipWhitespaceAndComments()
	if s.atEnd() {
		return token.Token{}, false
	}
	s.start = s.current

	c := s.advance()
	switch c {
	case '(':
		return s.makeToken(token.LParen), true
	case ')':
		return s.makeToken(token.RParen), true
	case '{':
		return s.makeToken(token.LBrace), true
	case '}':
		return s.makeToken(token.RBrace), true
	case '[':
		return s.makeToken(token.LBracket), true
	case ']':
		return s.makeToken(token.RBracket), true
	case ',':
		return s.makeToken(token.Comma), true
	case '.':
		return s.makeToken(token.Dot), true
	case '-':
		return s.makeToken(token.Minus), true
	case '+':
		return s.makeToken(token.Plus), true
	case ';':
		return s.makeToken(token.Semicolon), true
	case '*':
		return s.makeToken(token.Star), true
	case '/':
		return s.makeToken(token.Slash), true
	case '!':
		if s.match('=') {
			return s.makeToken(token.BangEqual), true
		}
		return s.makeToken(token.Bang), true
	case '=':
		if s.match('=') {
			return s.makeToken(token.EqualEqual), true
		}
		return s.makeToken(token.Equal), true
	case '<':
		if s.match('=') {
			return s.makeToken(token.LessEqual), true
		}
		return s.makeToken(token.Less), true
	case '>':
		if s.match('=') {
			return s.makeToken(token.GreaterEqual), true
		}
		return s.makeToken(token.Greater), true
	case '"':
		return s.scanString()
	default:
		switch {
		case isDigit(c):
			return s.scanNumber(), true
		case isAlpha(c):
			return s.scanIdentifier(), true
		default:
			s.reportError(diag.UnexpectedCharacter, "unexpected character")
			return s.makeToken(token.Invalid), true
		}
	}
}

// skipWhitespaceAndComments advances past spaces and // line comments;
// it does not consume the start of the next token.
func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for !s.atEnd() && s.peek() != '\n' {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanString() (token.Token, bool) {
	for !s.atEnd() && s.peek() != '"' {
		s.advance()
	}
	if s.atEnd() {
		s.reportError(diag.UnterminatedString, "unterminated string")
		return token.Token{}, false
	}
	s.advance() // closing quote
	return s.makeToken(token.String), true
}

func (s *Scanner) scanNumber() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.makeToken(token.Number)
}

func (s *Scanner) scanIdentifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := string(s.file.Content[s.start:s.current])
	if kw, ok := token.Lookup(text); ok {
		return s.makeToken(kw)
	}
	return s.makeToken(token.Ident)
}

func (s *Scanner) reportError(code diag.Code, msg string) {
	end, err := safecast.Conv[uint32](s.current)
	if err != nil {
		end = s.current
	}
	s.bag.ReportError(code, msg, diag.Diagnostic{
		Primary: source.Span{Start: s.start, End: end},
		Pos:     s.file.Pos(s.start),
		Lexeme:  string(s.file.Content[s.start:s.current]),
	})
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
