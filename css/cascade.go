package css

import "github.com/emberweb/ember/dom"

// Origin is a cascade origin. Ordered UA < User < Author; the same order
// ranks !important declarations among themselves.
type Origin int

const (
	OriginUA Origin = iota
	OriginUser
	OriginAuthor
)

// SheetSource pairs a parsed stylesheet with the origin it participates in
// the cascade at.
type SheetSource struct {
	Origin Origin
	Sheet  Stylesheet
}

type candidate struct {
	decl   Declaration
	origin Origin
	spec   Specificity
	order  int
}

// beats reports whether a wins the cascade over b: first
// importance (any !important beats any non-important; author-important >
// user-important > UA-important, matching the same origin order used for
// non-important declarations), then specificity descending, then source
// order descending.
func (a candidate) beats(b candidate) bool {
	if a.decl.Important != b.decl.Important {
		return a.decl.Important
	}
	if a.origin != b.origin {
		return a.origin > b.origin
	}
	if a.spec != b.spec {
		return b.spec.Less(a.spec)
	}
	return a.order > b.order
}

// Cascade collects every declaration from sheets that matches element id,
// plus inlineDecls (the element's style="" attribute, which cascades at
// [InlineSpecificity]), and returns the winning specified value per
// property.
func Cascade(doc *dom.Document, id dom.NodeID, sheets []SheetSource, inlineDecls []Declaration) map[string]Declaration {
	winners := make(map[string]candidate)
	order := 0

	consider := func(d Declaration, origin Origin, spec Specificity) {
		c := candidate{decl: d, origin: origin, spec: spec, order: order}
		order++
		if cur, ok := winners[d.Property]; !ok || c.beats(cur) {
			winners[d.Property] = c
		}
	}

	for _, src := range sheets {
		for _, rule := range src.Sheet.Rules {
			matched := false
			best := Specificity{}
			for _, sel := range rule.Selectors {
				if Matches(doc, id, sel) {
					matched = true
					sp := sel.Specificity()
					if best.Less(sp) {
						best = sp
					}
				}
			}
			if !matched {
				continue
			}
			for _, d := range rule.Declarations {
				consider(d, src.Origin, best)
			}
		}
	}

	for _, d := range inlineDecls {
		consider(d, OriginAuthor, InlineSpecificity)
	}

	out := make(map[string]Declaration, len(winners))
	for prop, c := range winners {
		out[prop] = c.decl
	}
	return out
}
