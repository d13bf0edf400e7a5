package layout

import "github.com/emberweb/ember/css"

type flexItem struct {
	box        *Box
	basis      float64
	grow       float64
	shrink     float64
	mainSize   float64
	crossSize  float64
}

// LayoutFlex lays out b's flex items (basis resolution, line grouping,
// grow/shrink distribution, then main- and cross-axis alignment) and
// returns the container's content height: the cross-axis extent for a
// row container, the main-axis extent for a column container.
func LayoutFlex(b *Box, availableWidth float64) float64 {
	s := css.Default()
	if b.Style != nil {
		s = *b.Style
	}
	margin, border, padding := edgesFromStyle(&s, availableWidth)
	b.Margin, b.Border, b.Padding = margin, border, padding

	isRow := s.FlexDirection == css.FlexRow || s.FlexDirection == css.FlexRowReverse
	isReverse := s.FlexDirection == css.FlexRowReverse || s.FlexDirection == css.FlexColumnReverse
	containerMain := availableContentWidth(availableWidth, margin, border, padding)

	var items []*flexItem
	for _, c := range b.Children {
		if c.Style != nil && (c.Style.Position == css.PositionAbsolute || c.Style.Position == css.PositionFixed) {
			continue
		}
		basis, grow, shrink := flexItemBasis(c, isRow, containerMain)
		items = append(items, &flexItem{box: c, basis: basis, grow: grow, shrink: shrink, mainSize: basis})
	}
	if len(items) == 0 {
		return 0
	}

	order := func(it *flexItem) int {
		if it.box.Style != nil {
			return it.box.Style.Order
		}
		return 0
	}
	stableSortByOrder(items, order)

	gap := 0.0
	lines := groupFlexLines(items, s.FlexWrap, containerMain, gap)

	for _, line := range lines {
		var totalBasis, totalGrow, totalShrinkWeighted float64
		for _, idx := range line {
			totalBasis += items[idx].basis
			totalGrow += items[idx].grow
			totalShrinkWeighted += items[idx].shrink * items[idx].basis
		}
		numGaps := 0.0
		if len(line) > 1 {
			numGaps = float64(len(line) - 1)
		}
		free := containerMain - totalBasis - numGaps*gap
		switch {
		case free > 0 && totalGrow > 0:
			for _, idx := range line {
				items[idx].mainSize = items[idx].basis + free*(items[idx].grow/totalGrow)
			}
		case free < 0 && totalShrinkWeighted > 0:
			for _, idx := range line {
				ratio := (items[idx].shrink * items[idx].basis) / totalShrinkWeighted
				sz := items[idx].basis + free*ratio
				if sz < 0 {
					sz = 0
				}
				items[idx].mainSize = sz
			}
		}
	}

	for _, it := range items {
		if !isRow && it.box.Style != nil && it.box.Style.Height.Kind == css.LengthAuto {
			it.box.Style.Height = css.Px(it.mainSize)
		}
		itemAvailable := it.mainSize
		if !isRow {
			itemAvailable = availableWidth
		}
		LayoutBlock(it.box, itemAvailable)
		if isRow {
			it.crossSize = maxF(it.box.MarginBox.Height, resolveLineHeight(&s))
		} else {
			it.crossSize = it.box.MarginBox.Width
		}
	}

	lineCross := make([]float64, len(lines))
	for li, line := range lines {
		c := 0.0
		for _, idx := range line {
			c = maxF(c, items[idx].crossSize)
		}
		lineCross[li] = c
	}

	lineOrder := make([]int, len(lines))
	for i := range lineOrder {
		lineOrder[i] = i
	}
	if s.FlexWrap == css.FlexWrapReverse {
		for i, j := 0, len(lineOrder)-1; i < j; i, j = i+1, j-1 {
			lineOrder[i], lineOrder[j] = lineOrder[j], lineOrder[i]
		}
	}

	crossOffset := 0.0
	if s.FlexWrap == css.FlexWrapReverse {
		n := 0.0
		if len(lines) > 1 {
			n = float64(len(lines) - 1)
		}
		total := n * gap
		for _, c := range lineCross {
			total += c
		}
		crossOffset = total
	}

	totalMainMax := 0.0
	for _, li := range lineOrder {
		line := lines[li]
		cross := lineCross[li]
		if s.FlexWrap == css.FlexWrapReverse {
			crossOffset -= cross + gap
		}

		lineTotalMain := 0.0
		for _, idx := range line {
			lineTotalMain += items[idx].mainSize
		}
		count := len(line)
		gapTotal := 0.0
		if count > 1 {
			gapTotal = float64(count-1) * gap
		}
		remaining := containerMain - lineTotalMain - gapTotal
		if remaining < 0 {
			remaining = 0
		}

		mainOffset, itemGap := justifyOffsets(s.JustifyContent, remaining, count)

		ordered := append([]int(nil), line...)
		if isReverse {
			for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}

		lineMainUsed := 0.0
		for _, idx := range ordered {
			it := items[idx]
			alignedCross := alignOffset(itemAlign(it.box, s.AlignItems), cross, it.crossSize)

			var tx, ty float64
			if isRow {
				tx, ty = mainOffset, crossOffset+alignedCross
			} else {
				tx, ty = crossOffset+alignedCross, mainOffset
			}
			it.box.setMarginBoxOrigin(tx, ty)

			if itemAlign(it.box, s.AlignItems) == css.AlignStretch {
				if isRow {
					dh := cross - it.box.MarginBox.Height
					if dh > 0 {
						growBoxBy(it.box, 0, dh)
					}
				} else {
					dw := cross - it.box.MarginBox.Width
					if dw > 0 {
						growBoxBy(it.box, dw, 0)
					}
				}
			}

			advance := it.box.MarginBox.Width
			if !isRow {
				advance = it.box.MarginBox.Height
			}
			mainOffset += advance + itemGap + gap
			lineMainUsed += advance + itemGap + gap
		}
		totalMainMax = maxF(totalMainMax, lineMainUsed-itemGap-gap)

		if s.FlexWrap != css.FlexWrapReverse {
			crossOffset += cross + gap
		}
	}

	numLineGaps := 0.0
	if len(lines) > 1 {
		numLineGaps = float64(len(lines) - 1)
	}
	totalCross := numLineGaps * gap
	for _, c := range lineCross {
		totalCross += c
	}

	contentWidth, contentHeight := containerMain, totalCross
	if !isRow {
		contentWidth, contentHeight = totalCross, maxF(totalMainMax, 0)
	}
	b.sizeFromContent(contentWidth, contentHeight)
	if isRow {
		return totalCross
	}
	return maxF(totalMainMax, 0)
}

func itemAlign(b *Box, containerAlign css.AlignVal) css.AlignVal {
	if b.Style != nil && b.Style.AlignSelf != css.AlignStretch {
		return b.Style.AlignSelf
	}
	return containerAlign
}

func alignOffset(align css.AlignVal, lineCross, itemCross float64) float64 {
	switch align {
	case css.AlignFlexEnd:
		return lineCross - itemCross
	case css.AlignCenter:
		return (lineCross - itemCross) / 2
	default: // stretch, flex-start, baseline (baseline not implemented)
		return 0
	}
}

func growBoxBy(b *Box, dw, dh float64) {
	b.ContentBox.Width += dw
	b.ContentBox.Height += dh
	b.PaddingBox.Width += dw
	b.PaddingBox.Height += dh
	b.BorderBox.Width += dw
	b.BorderBox.Height += dh
	b.MarginBox.Width += dw
	b.MarginBox.Height += dh
}

func justifyOffsets(j css.JustifyContentVal, remaining float64, count int) (offset, gap float64) {
	switch j {
	case css.JustifyFlexEnd:
		return remaining, 0
	case css.JustifyCenter:
		return remaining / 2, 0
	case css.JustifySpaceBetween:
		if count > 1 {
			return 0, remaining / float64(count-1)
		}
		return 0, 0
	case css.JustifySpaceAround:
		g := remaining / float64(count)
		return g / 2, g
	case css.JustifySpaceEvenly:
		g := remaining / float64(count+1)
		return g, g
	default: // flex-start
		return 0, 0
	}
}

// flexItemBasis resolves a child's flex-basis: the specified `flex-basis`,
// else its main-axis size (`width` for row, `height` for column), else
// (row) a content estimate summed from its own children or (column) its
// line height.
func flexItemBasis(b *Box, isRow bool, containerMain float64) (basis, grow, shrink float64) {
	grow, shrink = 0, 1
	if b.Style == nil {
		return contentEstimate(b), grow, shrink
	}
	s := b.Style
	grow, shrink = s.FlexGrow, s.FlexShrink
	if s.FlexBasis.Kind != css.LengthAuto {
		return s.FlexBasis.Resolve(containerMain, 0), grow, shrink
	}
	if isRow {
		if s.Width.Kind != css.LengthAuto {
			return s.Width.Resolve(containerMain, 0), grow, shrink
		}
		return contentEstimate(b), grow, shrink
	}
	if s.Height.Kind != css.LengthAuto {
		return s.Height.Resolve(0, 0), grow, shrink
	}
	return resolveLineHeight(s), grow, shrink
}

func contentEstimate(b *Box) float64 {
	w := 0.0
	for _, c := range b.Children {
		cw, _ := measureInline(c, 0)
		w += cw
	}
	if b.Style != nil {
		p := b.Style.PaddingLeft.Resolve(0, 0) + b.Style.PaddingRight.Resolve(0, 0)
		w += p + borderEdgeWidth(b.Style.BorderLeft) + borderEdgeWidth(b.Style.BorderRight)
	}
	return w
}

// groupFlexLines packs item indices into lines per flex-wrap: a single
// line for nowrap, else a greedy pack by main-axis basis + gap.
func groupFlexLines(items []*flexItem, wrap css.FlexWrapVal, containerMain, gap float64) [][]int {
	if wrap == css.FlexNoWrap {
		all := make([]int, len(items))
		for i := range items {
			all[i] = i
		}
		return [][]int{all}
	}
	var lines [][]int
	var cur []int
	lineMain := 0.0
	for i, it := range items {
		needed := it.basis
		if len(cur) > 0 {
			needed += gap
		}
		if len(cur) > 0 && lineMain+needed > containerMain {
			lines = append(lines, cur)
			cur = nil
			lineMain = 0
		}
		if len(cur) > 0 {
			lineMain += gap
		}
		cur = append(cur, i)
		lineMain += it.basis
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// stableSortByOrder insertion-sorts items by key — O(n^2) but items per
// flex container are small and this keeps DOM order stable for ties.
func stableSortByOrder(items []*flexItem, key func(*flexItem) int) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && key(items[j-1]) > key(items[j]); j-- {
			items[j-1], items[j] = items[j], items[j-1]
		}
	}
}
