package htmlparse

import "strconv"

// namedEntities is a practical subset of the WHATWG named character
// reference table — the common HTML entities, not the full ~2200-entry
// list. Unrecognized names fall back to literal text.
var namedEntities = map[string]rune{
	"amp":     '&',
	"lt":      '<',
	"gt":      '>',
	"quot":    '"',
	"apos":    '\'',
	"nbsp":    ' ',
	"copy":    '©',
	"reg":     '®',
	"trade":   '™',
	"hellip":  '…',
	"mdash":   '—',
	"ndash":   '–',
	"lsquo":   '‘',
	"rsquo":   '’',
	"ldquo":   '“',
	"rdquo":   '”',
	"eacute":  'é',
	"egrave":  'è',
	"agrave":  'à',
	"ccedil":  'ç',
	"uuml":    'ü',
	"ouml":    'ö',
	"auml":    'ä',
	"szlig":   'ß',
	"middot":  '·',
	"bull":    '•',
	"deg":     '°',
	"plusmn":  '±',
	"times":   '×',
	"divide":  '÷',
	"frac12":  '½',
	"frac14":  '¼',
	"euro":    '€',
	"pound":   '£',
	"yen":     '¥',
	"cent":    '¢',
	"sect":    '§',
	"para":    '¶',
}

// windows1252C1 maps the handful of C1-range numeric references the
// WHATWG spec special-cases to their Windows-1252 codepoints, for
// compatibility with real-world malformed markup.
var windows1252C1 = map[rune]rune{
	0x80: 0x20AC, 0x82: 0x201A, 0x83: 0x0192, 0x84: 0x201E, 0x85: 0x2026,
	0x86: 0x2020, 0x87: 0x2021, 0x88: 0x02C6, 0x89: 0x2030, 0x8A: 0x0160,
	0x8B: 0x2039, 0x8C: 0x0152, 0x8E: 0x017D, 0x91: 0x2018, 0x92: 0x2019,
	0x93: 0x201C, 0x94: 0x201D, 0x95: 0x2022, 0x96: 0x2013, 0x97: 0x2014,
	0x98: 0x02DC, 0x99: 0x2122, 0x9A: 0x0161, 0x9B: 0x203A, 0x9C: 0x0153,
	0x9E: 0x017E, 0x9F: 0x0178,
}

// consumeCharRef consumes a '&' already known to be at the cursor and
// returns the decoded character token (or a literal '&' if nothing
// matches), resuming in returnState.
func (t *Tokenizer) consumeCharRef(returnState tokenizerState) Token {
	start := t.pos
	t.advance() // '&'
	t.state = returnState

	if t.peek() == '#' {
		t.advance()
		hex := false
		if t.peek() == 'x' || t.peek() == 'X' {
			hex = true
			t.advance()
		}
		digitsStart := t.pos
		for (hex && isHexDigit(t.peek())) || (!hex && isDigit(t.peek())) {
			t.advance()
		}
		if t.pos == digitsStart {
			t.pos = start
			t.advance()
			return Token{Kind: TokenCharacter, Char: '&'}
		}
		digits := string(t.src[digitsStart:t.pos])
		if t.peek() == ';' {
			t.advance()
		}
		base := 10
		if hex {
			base = 16
		}
		v, err := strconv.ParseUint(digits, base, 32)
		if err != nil {
			return Token{Kind: TokenCharacter, Char: '�'}
		}
		cp := rune(v)
		if repl, ok := windows1252C1[cp]; ok {
			cp = repl
		}
		if cp == 0 || cp > 0x10FFFF {
			cp = '�'
		}
		return Token{Kind: TokenCharacter, Char: cp}
	}

	nameStart := t.pos
	for isAsciiAlnum(t.peek()) {
		t.advance()
	}
	name := string(t.src[nameStart:t.pos])
	hadSemi := t.peek() == ';'
	if hadSemi {
		t.advance()
	}
	if r, ok := namedEntities[name]; ok {
		return Token{Kind: TokenCharacter, Char: r}
	}
	// No match: rewind to just past '&' and emit it literally.
	t.pos = nameStart
	return Token{Kind: TokenCharacter, Char: '&'}
}

func isDigit(b byte) bool    { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool { return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') }
