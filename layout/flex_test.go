package layout

import (
	"testing"

	"github.com/emberweb/ember/css"
)

func flexItemStyle(basis float64, grow, shrink float64) *css.ComputedStyle {
	s := css.Default()
	s.FlexBasis = css.Px(basis)
	s.FlexGrow = grow
	s.FlexShrink = shrink
	return &s
}

func flexContainer(direction css.FlexDirectionVal, wrap css.FlexWrapVal, children ...*Box) *Box {
	s := css.Default()
	s.Display = css.DisplayFlex
	s.FlexDirection = direction
	s.FlexWrap = wrap
	return &Box{Kind: BoxFlex, Style: &s, Children: children}
}

func TestLayoutFlexGrow(t *testing.T) {
	item1 := &Box{Kind: BoxBlock, Style: flexItemStyle(100, 1, 0)}
	item2 := &Box{Kind: BoxBlock, Style: flexItemStyle(100, 1, 0)}
	c := flexContainer(css.FlexRow, css.FlexNoWrap, item1, item2)
	LayoutFlex(c, 400)

	if item1.ContentBox.Width != 200 || item2.ContentBox.Width != 200 {
		t.Fatalf("widths = (%v, %v), want (200, 200)", item1.ContentBox.Width, item2.ContentBox.Width)
	}
}

func TestLayoutFlexShrink(t *testing.T) {
	item1 := &Box{Kind: BoxBlock, Style: flexItemStyle(300, 0, 1)}
	item2 := &Box{Kind: BoxBlock, Style: flexItemStyle(300, 0, 1)}
	c := flexContainer(css.FlexRow, css.FlexNoWrap, item1, item2)
	LayoutFlex(c, 400)

	if item1.ContentBox.Width != 200 || item2.ContentBox.Width != 200 {
		t.Fatalf("widths = (%v, %v), want (200, 200)", item1.ContentBox.Width, item2.ContentBox.Width)
	}
}

func TestLayoutFlexWrap(t *testing.T) {
	item1 := &Box{Kind: BoxBlock, Style: flexItemStyle(150, 0, 0)}
	item2 := &Box{Kind: BoxBlock, Style: flexItemStyle(150, 0, 0)}
	item3 := &Box{Kind: BoxBlock, Style: flexItemStyle(150, 0, 0)}
	for _, it := range []*Box{item1, item2, item3} {
		it.Style.Height = css.Px(40)
	}
	c := flexContainer(css.FlexRow, css.FlexWrap_, item1, item2, item3)
	LayoutFlex(c, 400)

	if item1.BorderBox.Y != 0 || item2.BorderBox.Y != 0 {
		t.Fatalf("first line items not at y=0: %v, %v", item1.BorderBox.Y, item2.BorderBox.Y)
	}
	if item3.BorderBox.Y != 40 {
		t.Fatalf("item3.y = %v, want 40 (second line)", item3.BorderBox.Y)
	}
}
