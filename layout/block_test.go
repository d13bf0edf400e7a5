package layout

import (
	"testing"

	"github.com/emberweb/ember/css"
)

func borderEdge(w float64) css.BorderEdge {
	return css.BorderEdge{Width: w, Style: css.BorderSolid}
}

func TestLayoutBlockBoxModel(t *testing.T) {
	style := css.Default()
	style.Width = css.Px(400)
	style.PaddingTop, style.PaddingRight, style.PaddingBottom, style.PaddingLeft = css.Px(10), css.Px(10), css.Px(10), css.Px(10)
	style.MarginTop, style.MarginRight, style.MarginBottom, style.MarginLeft = css.Px(5), css.Px(5), css.Px(5), css.Px(5)
	style.BorderTop, style.BorderRight, style.BorderBottom, style.BorderLeft = borderEdge(1), borderEdge(1), borderEdge(1), borderEdge(1)

	b := &Box{Kind: BoxBlock, Style: &style}
	LayoutBlock(b, 1000)

	if got := b.MarginBox.Width; got != 432 {
		t.Fatalf("margin-box width = %v, want 432", got)
	}
	if got := b.ContentBox.Width; got != 400 {
		t.Fatalf("content-box width = %v, want 400", got)
	}
}

func TestLayoutBlockStacking(t *testing.T) {
	style1 := css.Default()
	style1.Width, style1.Height = css.Px(400), css.Px(100)
	style2 := css.Default()
	style2.Width, style2.Height = css.Px(400), css.Px(50)

	parent := &Box{
		Kind:        BoxBlock,
		ChildLayout: ChildLayoutBlock,
		Children: []*Box{
			{Kind: BoxBlock, Style: &style1},
			{Kind: BoxBlock, Style: &style2},
		},
	}
	LayoutBlock(parent, 1000)

	first, second := parent.Children[0], parent.Children[1]
	if second.BorderBox.Y != first.MarginBox.Y+first.MarginBox.Height {
		t.Fatalf("second.border-box.y = %v, want %v", second.BorderBox.Y, first.MarginBox.Y+first.MarginBox.Height)
	}
}

func TestLayoutBlockStretchesToAvailableWidth(t *testing.T) {
	style := css.Default()
	b := &Box{Kind: BoxBlock, Style: &style}
	LayoutBlock(b, 640)
	if b.ContentBox.Width != 640 {
		t.Fatalf("content width = %v, want 640 (auto width stretches)", b.ContentBox.Width)
	}
}

func TestLayoutBlockBorderBoxSizing(t *testing.T) {
	style := css.Default()
	style.BoxSizing = css.BoxSizingBorder
	style.Width = css.Px(100)
	style.PaddingTop, style.PaddingRight, style.PaddingBottom, style.PaddingLeft = css.Px(10), css.Px(10), css.Px(10), css.Px(10)

	b := &Box{Kind: BoxBlock, Style: &style}
	LayoutBlock(b, 1000)
	if b.ContentBox.Width != 80 {
		t.Fatalf("content width = %v, want 80 (border-box subtracts padding)", b.ContentBox.Width)
	}
	if b.BorderBox.Width != 100 {
		t.Fatalf("border-box width = %v, want 100", b.BorderBox.Width)
	}
}

func TestLayoutBlockAutoMarginsCenter(t *testing.T) {
	style := css.Default()
	style.Width = css.Px(200)
	style.MarginLeft, style.MarginRight = css.Auto, css.Auto

	b := &Box{Kind: BoxBlock, Style: &style}
	LayoutBlock(b, 1000)
	if b.Margin.Left != 400 || b.Margin.Right != 400 {
		t.Fatalf("auto margins = (%v, %v), want (400, 400)", b.Margin.Left, b.Margin.Right)
	}
}
