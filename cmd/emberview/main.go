// Command emberview is a demo shell that drives the document pipeline end
// to end: it parses an HTML page and its stylesheets, resolves styles,
// lays out a box tree, paints it through a display list every frame, and
// feeds pointer input back in as DOM click events.
package main

import (
	"flag"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"

	"github.com/emberweb/ember/css"
	"github.com/emberweb/ember/dom"
	"github.com/emberweb/ember/domevent"
	"github.com/emberweb/ember/fontdecode"
	"github.com/emberweb/ember/htmlparse"
	"github.com/emberweb/ember/layout"
	"github.com/emberweb/ember/paint"
)

const (
	screenWidth  = 800
	screenHeight = 600
)

// uaStylesheet is the minimal user-agent sheet every page cascades over.
const uaStylesheet = `
body { display: block; margin: 8px; font-size: 16px; color: #000000; }
div, p, h1 { display: block; }
h1 { font-size: 32px; margin-top: 21px; margin-bottom: 21px; }
p { margin-top: 16px; margin-bottom: 16px; }
span, a, b, i { display: inline; }
`

// defaultPage is rendered when no -html file is given.
const defaultPage = `<!DOCTYPE html>
<html>
<head>
<style>
body { background-color: #f2f2f2; }
h1 { color: #202030; }
.card {
  display: flex;
  background-color: #ffffff;
  padding: 12px;
  margin-top: 10px;
  border: 2px solid #8090a0;
}
.card div { width: 120px; height: 60px; margin-right: 10px; }
.tile-a { background-color: #cc4444; }
.tile-b { background-color: #44aa66; }
.tile-c { background-color: #4466cc; }
</style>
</head>
<body>
<h1>emberview</h1>
<p>Click a tile to pulse it.</p>
<div class="card">
  <div class="tile-a"></div>
  <div class="tile-b"></div>
  <div class="tile-c"></div>
</div>
</body>
</html>`

type game struct {
	doc      *dom.Document
	events   *domevent.Registry
	sheets   []css.SheetSource
	font     *fontdecode.Font
	atlasImg *ebiten.Image

	root *layout.Box
	dl   *paint.DisplayList

	anims []*css.TweenGroup

	needsLayout bool
	needsPaint  bool
}

func newGame(page []byte, font *fontdecode.Font) *game {
	g := &game{
		doc:         htmlparse.Parse(page),
		events:      domevent.NewRegistry(),
		font:        font,
		needsLayout: true,
	}
	g.sheets = []css.SheetSource{
		{Origin: css.OriginUA, Sheet: css.ParseStylesheet(uaStylesheet)},
	}
	for _, styleEl := range g.doc.GetElementsByTag(g.doc.Root, "style") {
		var src string
		for _, c := range g.doc.Children(styleEl) {
			if n, ok := g.doc.Get(c); ok && n.Kind == dom.KindText {
				src += n.Data
			}
		}
		g.sheets = append(g.sheets, css.SheetSource{
			Origin: css.OriginAuthor,
			Sheet:  css.ParseStylesheet(src),
		})
	}

	// One delegated click listener on the document root pulses whichever
	// element the event bubbled up from.
	g.events.AddEventListener(g.doc.Root, "click", false, func(ev *domevent.Event) {
		g.pulse(ev.Target)
	})
	return g
}

// pulse animates the clicked element's box from 0.25 opacity back to
// opaque. The tween writes straight into the box's style snapshot, so
// only the display list needs rebuilding each frame, not layout.
func (g *game) pulse(target dom.NodeID) {
	box := findBoxForNode(g.root, target)
	if box == nil || box.Style == nil {
		return
	}
	style := box.Style
	g.anims = append(g.anims, css.TweenFloat(0.25, 1.0, 0.4, ease.OutQuad, func(v float64) {
		style.Opacity = v
		g.needsPaint = true
	}))
}

func findBoxForNode(b *layout.Box, id dom.NodeID) *layout.Box {
	if b == nil {
		return nil
	}
	if b.Node == id {
		return b
	}
	for _, c := range b.Children {
		if hit := findBoxForNode(c, id); hit != nil {
			return hit
		}
	}
	return nil
}

func (g *game) relayout() {
	vp := layout.Viewport{Width: screenWidth, Height: screenHeight, RootFontSize: 16}
	resolver := layout.NewResolver(g.sheets, vp)
	g.root = layout.Run(g.doc, g.doc.Root, resolver, vp)
	g.needsLayout = false
	g.needsPaint = true
}

func (g *game) Update() error {
	if g.needsLayout {
		g.relayout()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if hit := layout.HitTest(g.root, float64(mx), float64(my)); hit != nil {
			target := hit.Node
			if _, ok := g.doc.Get(target); !ok {
				// Anonymous boxes have no DOM node; climb to one that does.
				target = nearestNodeAncestor(g.root, hit)
			}
			if _, ok := g.doc.Get(target); ok {
				ev := &domevent.Event{Type: "click", Bubbles: true, Cancelable: true}
				g.events.Dispatch(g.doc, target, ev)
			}
		}
	}

	const dt = 1.0 / 60
	live := g.anims[:0]
	for _, a := range g.anims {
		a.Update(dt)
		if !a.Done {
			live = append(live, a)
		}
	}
	g.anims = live

	if g.needsPaint {
		g.dl = paint.Build(g.root, glyphSource(g.font))
		if g.font != nil && g.font.Atlas.Dirty {
			g.atlasImg = paint.UploadAtlas(g.font.Atlas, g.atlasImg)
		}
		g.needsPaint = false
	}
	return nil
}

// glyphSource hides the typed-nil pitfall of passing a nil *Font through
// an interface value.
func glyphSource(f *fontdecode.Font) paint.GlyphSource {
	if f == nil {
		return nil
	}
	return f
}

// nearestNodeAncestor finds the closest ancestor of target in the box
// tree that carries a DOM node.
func nearestNodeAncestor(root, target *layout.Box) dom.NodeID {
	var best dom.NodeID
	var walk func(b *layout.Box, lastNode dom.NodeID) bool
	walk = func(b *layout.Box, lastNode dom.NodeID) bool {
		if b == nil {
			return false
		}
		if b.Node != (dom.NodeID{}) {
			lastNode = b.Node
		}
		if b == target {
			best = lastNode
			return true
		}
		for _, c := range b.Children {
			if walk(c, lastNode) {
				return true
			}
		}
		return false
	}
	walk(root, dom.NodeID{})
	return best
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)
	if g.dl != nil {
		g.dl.Flush(screen, g.atlasImg)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	htmlPath := flag.String("html", "", "HTML file to render (defaults to a built-in page)")
	fontPath := flag.String("font", "", "TrueType font file for text rendering")
	flag.Parse()

	page := []byte(defaultPage)
	if *htmlPath != "" {
		b, err := os.ReadFile(*htmlPath)
		if err != nil {
			log.Fatalf("read %s: %v", *htmlPath, err)
		}
		page = b
	}

	var font *fontdecode.Font
	if *fontPath != "" {
		b, err := os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("read %s: %v", *fontPath, err)
		}
		font, err = fontdecode.ParseFont(b)
		if err != nil {
			log.Fatalf("parse font %s: %v", *fontPath, err)
		}
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("emberview")
	if err := ebiten.RunGame(newGame(page, font)); err != nil {
		log.Fatal(err)
	}
}
