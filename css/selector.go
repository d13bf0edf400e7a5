package css

import (
	"strings"

	"github.com/emberweb/ember/dom"
)

// SimpleKind tags the variant a [Simple] selector holds.
type SimpleKind int

const (
	SimType SimpleKind = iota
	SimUniversal
	SimID
	SimClass
	SimAttr
	SimPseudoClass
	SimPseudoElement
)

// AttrOp is an attribute-selector comparison operator.
type AttrOp int

const (
	AttrExists AttrOp = iota
	AttrEquals
	AttrIncludes  // ~=
	AttrDashMatch // |=
	AttrPrefix    // ^=
	AttrSuffix    // $=
	AttrSubstring // *=
)

// Simple is one simple selector.
type Simple struct {
	Kind      SimpleKind
	Name      string // type/id/class/pseudo name
	AttrName  string
	AttrOp    AttrOp
	AttrValue string
}

// Compound is an ordered sequence of simple selectors that must all match
// one element.
type Compound []Simple

// Combinator joins two compounds in a [Complex] selector.
type Combinator int

const (
	CombDescendant Combinator = iota
	CombChild
	CombAdjacentSibling
	CombGeneralSibling
)

// complexPart is one compound plus the combinator that preceded it (unused
// for the first part).
type complexPart struct {
	compound Compound
	comb     Combinator
}

// Complex is a sequence of compounds joined by combinators, leftmost-first
// in source order (i.e. Parts[len-1] is the subject the element must
// match, preceded by its ancestors/siblings).
type Complex struct {
	parts []complexPart
}

// Specificity is the (ids, classes+attrs+pseudo-classes, types+pseudo-
// elements) triple, compared lexicographically.
type Specificity struct {
	A, B, C int
}

// Less reports whether s sorts below other (other wins ties are broken
// elsewhere, by source order).
func (s Specificity) Less(o Specificity) bool {
	if s.A != o.A {
		return s.A < o.A
	}
	if s.B != o.B {
		return s.B < o.B
	}
	return s.C < o.C
}

// InlineSpecificity is a sentinel strictly above any selector-derived
// specificity, for declarations from an element's style="" attribute.
var InlineSpecificity = Specificity{A: 1 << 30}

// Specificity computes c's (ids, classes+attrs+pseudo-classes,
// types+pseudo-elements) specificity triple.
func (c Complex) Specificity() Specificity {
	var s Specificity
	for _, p := range c.parts {
		for _, simple := range p.compound {
			switch simple.Kind {
			case SimID:
				s.A++
			case SimClass, SimAttr, SimPseudoClass:
				s.B++
			case SimType, SimPseudoElement:
				s.C++
			}
		}
	}
	return s
}

// ParseSelectorList parses a comma-separated selector list.
func ParseSelectorList(src string) []Complex {
	groups := splitTopLevelCommas(src)
	out := make([]Complex, 0, len(groups))
	for _, g := range groups {
		if c, ok := parseComplex(g); ok {
			out = append(out, c)
		}
	}
	return out
}

func splitTopLevelCommas(src string) []string {
	var out []string
	depth := 0
	start := 0
	runes := []rune(src)
	for i, r := range runes {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, string(runes[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, string(runes[start:]))
	return out
}

// parseComplex parses one selector (no top-level commas) into a Complex.
// Whitespace around an explicit combinator (>, +, ~) is insignificant;
// whitespace between compounds with none is the descendant combinator.
func parseComplex(src string) (Complex, bool) {
	tz := NewTokenizer(src)
	var toks []Token
	for {
		t := tz.Next()
		if t.Kind == TokenEOF {
			break
		}
		toks = append(toks, t)
	}

	var parts []complexPart
	i := 0
	pendingComb := Combinator(-1) // -1 = none seen yet for the next compound
	sawWS := false

	flushCompound := func(comp Compound) bool {
		if len(comp) == 0 {
			return false // empty compound between combinators: parse error
		}
		comb := CombDescendant
		if pendingComb >= 0 {
			comb = pendingComb
		} else if len(parts) == 0 {
			comb = CombDescendant // unused for first part
		} else if !sawWS {
			// Compounds directly adjacent with no whitespace and no explicit
			// combinator shouldn't happen in valid CSS; treat as descendant.
			comb = CombDescendant
		}
		parts = append(parts, complexPart{compound: comp, comb: comb})
		pendingComb = -1
		sawWS = false
		return true
	}

	var cur Compound
	for i < len(toks) {
		t := toks[i]
		switch t.Kind {
		case TokenWhitespace:
			if len(cur) > 0 {
				if !flushCompound(cur) {
					return Complex{}, false
				}
				cur = nil
			} else {
				sawWS = true
			}
			i++
		case TokenDelim:
			switch t.Delim {
			case '*':
				cur = append(cur, Simple{Kind: SimUniversal})
				i++
			case '.':
				i++
				if i >= len(toks) || toks[i].Kind != TokenIdent {
					return Complex{}, false
				}
				cur = append(cur, Simple{Kind: SimClass, Name: toks[i].Value})
				i++
			case '>':
				if len(cur) > 0 {
					if !flushCompound(cur) {
						return Complex{}, false
					}
					cur = nil
				}
				pendingComb = CombChild
				sawWS = false
				i++
			case '+':
				if len(cur) > 0 {
					if !flushCompound(cur) {
						return Complex{}, false
					}
					cur = nil
				}
				pendingComb = CombAdjacentSibling
				sawWS = false
				i++
			case '~':
				if len(cur) > 0 {
					if !flushCompound(cur) {
						return Complex{}, false
					}
					cur = nil
				}
				pendingComb = CombGeneralSibling
				sawWS = false
				i++
			default:
				i++
			}
		case TokenIdent:
			cur = append(cur, Simple{Kind: SimType, Name: strings.ToLower(t.Value)})
			i++
		case TokenHash:
			cur = append(cur, Simple{Kind: SimID, Name: t.Value})
			i++
		case TokenColon:
			i++
			pseudoElement := false
			if i < len(toks) && toks[i].Kind == TokenColon {
				pseudoElement = true
				i++
			}
			if i >= len(toks) {
				return Complex{}, false
			}
			name := toks[i].Value
			kind := SimPseudoClass
			if pseudoElement {
				kind = SimPseudoElement
			}
			cur = append(cur, Simple{Kind: kind, Name: strings.ToLower(name)})
			i++
			// Skip a functional-pseudo argument list if present, e.g.
			// :nth-child(2n+1) or :not(.x) — matching for these beyond
			// plain idents isn't implemented, but parsing must not choke.
			if i < len(toks) && toks[i].Kind == TokenFunction {
				i++
				depth := 1
				for i < len(toks) && depth > 0 {
					if toks[i].Kind == TokenLeftParen {
						depth++
					}
					if toks[i].Kind == TokenRightParen {
						depth--
					}
					i++
				}
			}
		case TokenLeftBracket:
			i++
			if i >= len(toks) || toks[i].Kind != TokenIdent {
				return Complex{}, false
			}
			attrName := toks[i].Value
			i++
			s := Simple{Kind: SimAttr, AttrName: attrName, AttrOp: AttrExists}
			if i < len(toks) {
				switch {
				case toks[i].Kind == TokenDelim && toks[i].Delim == '=':
					s.AttrOp = AttrEquals
					i++
				case toks[i].Kind == TokenDelim && toks[i].Delim == '~' && i+1 < len(toks) && toks[i+1].Kind == TokenDelim && toks[i+1].Delim == '=':
					s.AttrOp = AttrIncludes
					i += 2
				case toks[i].Kind == TokenDelim && toks[i].Delim == '|' && i+1 < len(toks) && toks[i+1].Kind == TokenDelim && toks[i+1].Delim == '=':
					s.AttrOp = AttrDashMatch
					i += 2
				case toks[i].Kind == TokenDelim && toks[i].Delim == '^' && i+1 < len(toks) && toks[i+1].Kind == TokenDelim && toks[i+1].Delim == '=':
					s.AttrOp = AttrPrefix
					i += 2
				case toks[i].Kind == TokenDelim && toks[i].Delim == '$' && i+1 < len(toks) && toks[i+1].Kind == TokenDelim && toks[i+1].Delim == '=':
					s.AttrOp = AttrSuffix
					i += 2
				case toks[i].Kind == TokenDelim && toks[i].Delim == '*' && i+1 < len(toks) && toks[i+1].Kind == TokenDelim && toks[i+1].Delim == '=':
					s.AttrOp = AttrSubstring
					i += 2
				}
			}
			if s.AttrOp != AttrExists && i < len(toks) {
				switch toks[i].Kind {
				case TokenString:
					s.AttrValue = toks[i].Value
					i++
				case TokenIdent:
					s.AttrValue = toks[i].Value
					i++
				}
			}
			if i < len(toks) && toks[i].Kind == TokenRightBracket {
				i++
			}
			cur = append(cur, s)
		default:
			i++
		}
	}
	if len(cur) > 0 {
		if !flushCompound(cur) {
			return Complex{}, false
		}
	}
	if len(parts) == 0 {
		return Complex{}, false
	}
	return Complex{parts: parts}, true
}

// matchesSimple reports whether element n (and its ElementData) satisfies s.
func matchesSimple(n *dom.Node, s Simple) bool {
	switch s.Kind {
	case SimUniversal:
		return true
	case SimType:
		return n.Element.Tag == s.Name
	case SimID:
		return n.Element.CachedID == s.Name
	case SimClass:
		for _, c := range n.Element.CachedClass {
			if c == s.Name {
				return true
			}
		}
		return false
	case SimAttr:
		for _, a := range n.Element.Attrs {
			if a.Name != s.AttrName {
				continue
			}
			switch s.AttrOp {
			case AttrExists:
				return true
			case AttrEquals:
				return a.Value == s.AttrValue
			case AttrIncludes:
				for _, w := range strings.Fields(a.Value) {
					if w == s.AttrValue {
						return true
					}
				}
				return false
			case AttrDashMatch:
				return a.Value == s.AttrValue || strings.HasPrefix(a.Value, s.AttrValue+"-")
			case AttrPrefix:
				return strings.HasPrefix(a.Value, s.AttrValue)
			case AttrSuffix:
				return strings.HasSuffix(a.Value, s.AttrValue)
			case AttrSubstring:
				return strings.Contains(a.Value, s.AttrValue)
			}
		}
		return false
	case SimPseudoClass:
		// Pseudo-classes are not evaluated (no :hover, no :nth-child
		// matching); a selector with any pseudo-class never matches.
		return false
	case SimPseudoElement:
		return false
	}
	return false
}

func matchesCompound(n *dom.Node, comp Compound) bool {
	if n.Kind != dom.KindElement {
		return false
	}
	for _, s := range comp {
		if !matchesSimple(n, s) {
			return false
		}
	}
	return true
}

// Matches reports whether element id in doc matches the complex selector c.
func Matches(doc *dom.Document, id dom.NodeID, c Complex) bool {
	n, ok := doc.Get(id)
	if !ok {
		return false
	}
	return matchesFrom(doc, n, id, c.parts, len(c.parts)-1)
}

func matchesFrom(doc *dom.Document, n *dom.Node, id dom.NodeID, parts []complexPart, idx int) bool {
	if !matchesCompound(n, parts[idx].compound) {
		return false
	}
	if idx == 0 {
		return true
	}
	comb := parts[idx].comb
	switch comb {
	case CombChild:
		if !n.HasParent {
			return false
		}
		pn, ok := doc.Get(n.Parent)
		if !ok {
			return false
		}
		return matchesFrom(doc, pn, n.Parent, parts, idx-1)
	case CombDescendant:
		cur := n
		curID := id
		for cur.HasParent {
			pn, ok := doc.Get(cur.Parent)
			if !ok {
				return false
			}
			if matchesFrom(doc, pn, cur.Parent, parts, idx-1) {
				return true
			}
			cur = pn
			curID = cur.Parent
			_ = curID
		}
		return false
	case CombAdjacentSibling:
		if !n.HasPrev {
			return false
		}
		pn, ok := doc.Get(n.PrevSibling)
		if !ok {
			return false
		}
		return matchesFrom(doc, pn, n.PrevSibling, parts, idx-1)
	case CombGeneralSibling:
		cur := n
		for cur.HasPrev {
			pn, ok := doc.Get(cur.PrevSibling)
			if !ok {
				return false
			}
			if matchesFrom(doc, pn, cur.PrevSibling, parts, idx-1) {
				return true
			}
			cur = pn
		}
		return false
	}
	return false
}
