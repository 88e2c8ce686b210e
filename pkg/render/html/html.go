// Package html renders the influence network as a self-contained interactive
// HTML document: an inline SVG timeline (x = year, y = timeline rank) with
// theme filter buttons, weight toggles, and hover cards showing each edge's
// themes, strength, and note. No external assets are referenced; the file
// can be opened directly from disk or dropped on any static host.
package html

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/calloway/intertext/pkg/graph"
	"github.com/calloway/intertext/pkg/layout"
)

const defaultTitle = "Intertextual Influence Network"

// Option configures HTML rendering via [Render].
type Option func(*renderer)

type renderer struct {
	title    string
	subtitle string
	palette  map[string]string
}

// WithTitle overrides the document and heading title.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// WithSubtitle adds a muted line under the heading.
func WithSubtitle(s string) Option { return func(r *renderer) { r.subtitle = s } }

// WithPalette colors edges by theme. Keys are normalized theme tags, values
// are CSS colors. An edge takes the color of its first theme present in the
// palette; unmatched edges keep the default stroke.
func WithPalette(p map[string]string) Option { return func(r *renderer) { r.palette = p } }

// Render produces the interactive HTML artifact for a positioned graph.
// Every node present in the layout is drawn; edges whose endpoints are
// missing from the layout are skipped.
func Render(l layout.Layout, g *graph.Graph, opts ...Option) []byte {
	r := renderer{title: defaultTitle}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	writeHead(&buf, r.title)

	fmt.Fprintf(&buf, "<body>\n<h1>%s</h1>\n", html.EscapeString(r.title))
	if r.subtitle != "" {
		fmt.Fprintf(&buf, "<p class=\"subtitle\">%s</p>\n", html.EscapeString(r.subtitle))
	}

	writeFilterBar(&buf, g.Themes())
	r.writeSVG(&buf, l, g)
	buf.WriteString("<div id=\"card\" hidden></div>\n")
	writeScript(&buf)
	buf.WriteString("</body>\n</html>\n")

	return buf.Bytes()
}

func writeHead(buf *bytes.Buffer, title string) {
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(buf, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(buf, "<style>%s</style>\n", documentCSS)
	buf.WriteString("</head>\n")
}

func writeFilterBar(buf *bytes.Buffer, themes []string) {
	buf.WriteString("<div class=\"filters\">\n")
	buf.WriteString("  <button class=\"theme active\" data-theme=\"\">All themes</button>\n")
	for _, t := range themes {
		esc := html.EscapeString(t)
		fmt.Fprintf(buf, "  <button class=\"theme\" data-theme=\"%s\">%s</button>\n", esc, esc)
	}
	buf.WriteString("  <span class=\"weights\">\n")
	for w := 1; w <= 3; w++ {
		fmt.Fprintf(buf, "    <label><input type=\"checkbox\" class=\"weight\" value=\"%d\" checked> w%d</label>\n", w, w)
	}
	buf.WriteString("  </span>\n</div>\n")
}

func (r *renderer) writeSVG(buf *bytes.Buffer, l layout.Layout, g *graph.Graph) {
	fmt.Fprintf(buf, "<svg id=\"network\" viewBox=\"0 0 %.1f %.1f\" width=\"%.0f\" height=\"%.0f\">\n",
		l.FrameWidth, l.FrameHeight, l.FrameWidth, l.FrameHeight)

	writeAxis(buf, l)

	// Edges first so nodes draw on top.
	for _, e := range g.Edges() {
		src, okS := l.Points[e.From]
		dst, okD := l.Points[e.To]
		if !okS || !okD {
			continue
		}
		style := ""
		for _, t := range e.Themes {
			if c, ok := r.palette[t]; ok {
				style = fmt.Sprintf(" style=\"stroke:%s\"", html.EscapeString(c))
				break
			}
		}
		// Tags may contain spaces, so data-themes joins on ";", which the
		// loader forbids inside a tag. The filter script splits on the same
		// separator.
		fmt.Fprintf(buf,
			"  <line class=\"edge\" x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke-width=\"%.1f\" data-themes=\"%s\" data-weight=\"%d\" data-tip=\"%s\"%s/>\n",
			src.X, src.Y, dst.X, dst.Y,
			1.5*float64(e.Weight),
			html.EscapeString(strings.Join(e.Themes, ";")),
			int(e.Weight),
			html.EscapeString(edgeTip(e)),
			style)
	}

	cent := g.DegreeCentrality()
	for _, n := range g.Nodes() {
		p, ok := l.Points[n.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(buf,
			"  <circle class=\"work\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" data-tip=\"%s\"/>\n",
			p.X, p.Y, p.Size,
			html.EscapeString(nodeTip(n, cent[n.ID])))
		fmt.Fprintf(buf,
			"  <text class=\"label\" x=\"%.1f\" y=\"%.1f\">%s</text>\n",
			p.X, p.Y-p.Size-4, html.EscapeString(n.Title))
	}

	buf.WriteString("</svg>\n")
}

// writeAxis draws the year axis along the bottom with up to five ticks.
func writeAxis(buf *bytes.Buffer, l layout.Layout) {
	if len(l.Points) == 0 {
		return
	}
	y := l.FrameHeight - 12
	fmt.Fprintf(buf, "  <line class=\"axis\" x1=\"0\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\"/>\n", y, l.FrameWidth, y)

	span := l.MaxYear - l.MinYear
	ticks := 4
	if span == 0 {
		ticks = 0
	}
	marginX := l.FrameWidth * 0.06
	spanX := l.FrameWidth - 2*marginX
	for i := 0; i <= ticks; i++ {
		frac := 0.5
		year := l.MinYear
		if ticks > 0 {
			frac = float64(i) / float64(ticks)
			year = l.MinYear + int(frac*float64(span))
		}
		x := marginX + frac*spanX
		fmt.Fprintf(buf, "  <text class=\"tick\" x=\"%.1f\" y=\"%.1f\">%d</text>\n", x, y+10, year)
	}
}

func edgeTip(e graph.Edge) string {
	themes := strings.Join(e.Themes, ", ")
	if themes == "" {
		themes = "—"
	}
	tip := fmt.Sprintf("%s → %s\nThemes: %s\nInfluence: %d/3 (%s)",
		e.From, e.To, themes, int(e.Weight), e.Weight)
	if e.Note != "" {
		tip += "\n" + e.Note
	}
	return tip
}

func nodeTip(n *graph.Node, centrality float64) string {
	return fmt.Sprintf("%s\nApprox. year: %d\nDegree centrality: %.2f",
		n.Title, n.Year, centrality)
}

func writeScript(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "<script>%s</script>\n", documentJS)
}

const documentCSS = `
  body { font-family: Georgia, serif; margin: 2rem; background: #fbfaf7; color: #222; }
  h1 { font-size: 1.4rem; margin-bottom: 0.2rem; }
  .subtitle { color: #777; margin-top: 0; }
  .filters { margin: 0.8rem 0; }
  .filters button { font: inherit; font-size: 0.85rem; padding: 0.2rem 0.7rem; margin: 0 0.3rem 0.3rem 0;
    border: 1px solid #bbb; border-radius: 999px; background: #fff; cursor: pointer; }
  .filters button.active { background: #2a6f77; color: #fff; border-color: #2a6f77; }
  .weights { margin-left: 1rem; font-size: 0.85rem; color: #555; }
  svg { background: #fff; border: 1px solid #e4e0d8; border-radius: 6px; max-width: 100%; height: auto; }
  .edge { stroke: #7a8ca3; opacity: 0.55; transition: opacity 0.15s ease; }
  .edge.hidden { opacity: 0.06; pointer-events: none; }
  .edge:hover { opacity: 1; stroke: #2a6f77; }
  .work { fill: #b8552f; stroke: #fff; stroke-width: 1.5; cursor: pointer; }
  .work:hover { fill: #2a6f77; }
  .label { font-size: 11px; text-anchor: middle; fill: #333; }
  .axis { stroke: #ccc; }
  .tick { font-size: 10px; text-anchor: middle; fill: #999; }
  #card { position: fixed; max-width: 22rem; background: #222; color: #f5f2ea; padding: 0.5rem 0.8rem;
    border-radius: 4px; font-size: 0.8rem; white-space: pre-line; pointer-events: none; z-index: 10; }`

const documentJS = `
  const card = document.getElementById('card');
  let activeTheme = '';

  function edgeVisible(edge) {
    const weights = [...document.querySelectorAll('.weight')].filter(w => w.checked).map(w => w.value);
    if (!weights.includes(edge.dataset.weight)) return false;
    if (activeTheme === '') return true;
    return edge.dataset.themes.split(';').includes(activeTheme);
  }

  function applyFilters() {
    document.querySelectorAll('.edge').forEach(e => e.classList.toggle('hidden', !edgeVisible(e)));
  }

  document.querySelectorAll('.theme').forEach(btn => {
    btn.addEventListener('click', () => {
      activeTheme = btn.dataset.theme;
      document.querySelectorAll('.theme').forEach(b => b.classList.toggle('active', b === btn));
      applyFilters();
    });
  });
  document.querySelectorAll('.weight').forEach(cb => cb.addEventListener('change', applyFilters));

  document.querySelectorAll('[data-tip]').forEach(el => {
    el.addEventListener('mouseenter', () => { card.textContent = el.dataset.tip; card.hidden = false; });
    el.addEventListener('mousemove', ev => { card.style.left = (ev.clientX + 14) + 'px'; card.style.top = (ev.clientY + 14) + 'px'; });
    el.addEventListener('mouseleave', () => { card.hidden = true; });
  });`
