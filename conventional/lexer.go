package conventional

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenType tokenKind = iota
	tokenScopeOpen
	tokenScope
	tokenScopeClose
	tokenBang
	tokenJunk // text between type/scope and the colon that fits no slot
	tokenColon
	tokenHeader
	tokenBlank   // the blank line separating header and trailer
	tokenTrailer // body and footers
)

func (k tokenKind) String() string {
	return [...]string{"type", "(", "scope", ")", "!", "junk", ":", "header", "blank", "trailer"}[k]
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer splits a message into the slots of
//
//	type ["(" scope ")"] ["!"] ":" header ["\n\n" trailer]
//
// It never fails; missing slots are simply absent from the token stream.
type lexer struct {
	input  string
	start  int
	pos    int
	tokens []token
}

type stateFn func(*lexer) stateFn

func lex(input string) []token {
	l := &lexer{input: input}
	for state := lexType; state != nil; {
		state = state(l)
	}
	return l.tokens
}

func (l *lexer) emit(k tokenKind) {
	l.tokens = append(l.tokens, token{kind: k, text: l.input[l.start:l.pos], pos: l.start})
	l.start = l.pos
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// next advances by the decoded width; an invalid byte counts as one rune.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		return -1
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	return r
}

// acceptUntil advances to the first rune in stop, a newline or the end of input.
func (l *lexer) acceptUntil(stop string) {
	for {
		r := l.peek()
		if r < 0 || r == '\n' || strings.ContainsRune(stop, r) {
			return
		}
		l.next()
	}
}

func isTypeRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

func lexType(l *lexer) stateFn {
	const spaced = "breaking change"
	if len(l.input) >= len(spaced) && strings.EqualFold(l.input[:len(spaced)], spaced) {
		l.pos = len(spaced)
		if r := l.peek(); r < 0 || !isTypeRune(r) {
			l.emit(tokenType)
			return lexAfterType
		}
		l.pos = l.start
	}

	for r := l.peek(); r >= 0 && isTypeRune(r); r = l.peek() {
		l.next()
	}
	if l.pos > l.start {
		l.emit(tokenType)
	}
	return lexAfterType
}

func lexAfterType(l *lexer) stateFn {
	switch l.peek() {
	case '(':
		l.next()
		l.emit(tokenScopeOpen)
		return lexScope
	case '!':
		l.next()
		l.emit(tokenBang)
		return lexColon
	}
	return lexColon
}

func lexScope(l *lexer) stateFn {
	l.acceptUntil(")(:")
	l.emit(tokenScope)
	if l.peek() == ')' {
		l.next()
		l.emit(tokenScopeClose)
		if l.peek() == '!' {
			l.next()
			l.emit(tokenBang)
		}
	}
	return lexColon
}

func lexColon(l *lexer) stateFn {
	l.acceptUntil(":")
	if l.pos > l.start {
		l.emit(tokenJunk)
	}
	if l.peek() != ':' {
		return nil
	}
	l.next()
	l.emit(tokenColon)
	return lexHeader
}

func lexHeader(l *lexer) stateFn {
	l.acceptUntil("")
	l.emit(tokenHeader)
	if l.peek() < 0 {
		return nil
	}

	// newline ending the header line
	l.next()
	l.start = l.pos
	if l.peek() == '\n' {
		for l.peek() == '\n' {
			l.next()
		}
		l.emit(tokenBlank)
	}
	return lexTrailer
}

func lexTrailer(l *lexer) stateFn {
	l.pos = len(l.input)
	if l.pos > l.start {
		l.emit(tokenTrailer)
	}
	return nil
}
