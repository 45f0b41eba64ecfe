package web

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/spiro/pkg/spiro"
)

// pageShell is the static layout. The drawing is mounted into #application
// and the controls are filled in from the current params on every request.
const pageShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Spiro</title>
<style>
body { margin: 0; display: flex; height: 100vh; color: #ddd; font-family: sans-serif; }
#application { flex: 1; display: flex; align-items: center; justify-content: center; }
#application svg { width: 100%; height: 100%; }
#right_panel { width: 16em; padding: 0.5em 1em; background: #272727; }
#right_panel h1 { text-align: center; font-size: 1.4em; }
label { display: flex; justify-content: space-between; margin: 0.3em 0; }
</style>
</head>
<body>
<main id="application"></main>
<aside id="right_panel">
<h1>Spiro</h1>
<form id="params" method="post" action="/params" onchange="this.submit()">
<label><input type="range" name="a" min="1" step="1"> A</label>
<label><input type="range" name="b" min="1" step="1"> B</label>
<label><input type="range" name="c" min="1" step="1"> C</label>
<hr>
<label><input type="color" name="color"> color</label>
<input type="hidden" name="alpha">
<label><input type="range" name="width" step="0.1"> thickness</label>
<hr>
<label><input type="range" name="param_max" min="1" step="1"> max</label>
</form>
<form id="shuffle" method="post" action="/shuffle"><button type="submit">Shuffle</button></form>
</aside>
</body>
</html>`

// inlineSVG drops the XML prolog and comments so the document can sit inside HTML
func inlineSVG(doc string) string {
	if i := strings.Index(doc, "<svg"); i >= 0 {
		return doc[i:]
	}
	return doc
}

// RenderPage mounts the frame's drawing into the page and sets every control
// to the frame's params
func RenderPage(f spiro.Frame, opts spiro.DrawOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageShell))
	if err != nil {
		return "", fmt.Errorf("failed to parse page shell: %w", err)
	}

	drawing, err := f.Drawing(opts)
	if err != nil {
		return "", err
	}
	doc.Find("#application").SetHtml(inlineSVG(drawing.String()))
	if opts.Background != "" {
		doc.Find("body").SetAttr("style", "background: "+opts.Background)
	}

	p := f.Params
	shapeMax := strconv.FormatUint(uint64(p.ParamMax), 10)
	for name, v := range map[string]uint32{"a": p.A, "b": p.B, "c": p.C} {
		doc.Find(fmt.Sprintf(`#params input[name="%s"]`, name)).
			SetAttr("max", shapeMax).
			SetAttr("value", strconv.FormatUint(uint64(v), 10))
	}
	doc.Find(`#params input[name="param_max"]`).
		SetAttr("max", strconv.FormatUint(uint64(spiro.ParamMaxLimit), 10)).
		SetAttr("value", shapeMax)
	doc.Find(`#params input[name="width"]`).
		SetAttr("min", formatWidth(spiro.MinWidth)).
		SetAttr("max", formatWidth(spiro.MaxWidth)).
		SetAttr("value", formatWidth(p.Width))
	doc.Find(`#params input[name="color"]`).SetAttr("value", p.Color.Hex())
	// the colour picker only knows #rrggbb
	doc.Find(`#params input[name="alpha"]`).SetAttr("value", strconv.Itoa(int(p.Color.A)))

	return doc.Html()
}

func formatWidth(w float32) string {
	return strconv.FormatFloat(float64(w), 'f', -1, 32)
}

// PanelHTML lists the settings as an HTML fragment
func PanelHTML(p spiro.Params) string {
	var sb strings.Builder
	sb.WriteString("<h2>Spiro</h2>\n<ul>\n")
	item := func(name, value string) {
		fmt.Fprintf(&sb, "<li><strong>%s</strong>: %s</li>\n", name, html.EscapeString(value))
	}
	item("A", strconv.FormatUint(uint64(p.A), 10))
	item("B", strconv.FormatUint(uint64(p.B), 10))
	item("C", strconv.FormatUint(uint64(p.C), 10))
	item("color", p.Color.HexA())
	item("thickness", formatWidth(p.Width))
	item("max", strconv.FormatUint(uint64(p.ParamMax), 10))
	item("samples", strconv.Itoa(spiro.SampleCount(p.A)))
	sb.WriteString("</ul>\n")
	return sb.String()
}

// PanelMarkdown is PanelHTML converted to markdown for text-only clients
func PanelMarkdown(p spiro.Params) (string, error) {
	md, err := htmltomarkdown.ConvertString(PanelHTML(p))
	if err != nil {
		return "", fmt.Errorf("failed to convert settings to markdown: %w", err)
	}
	return md, nil
}
