package render

import (
	"bytes"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/marker"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/html22text/core"
)

// overrides is an html-to-markdown plugin carrying the Config settings the
// commonmark plugin has no option for. In plain-text mode it replaces
// every piece of Markdown syntax with the bare content.
type overrides struct {
	cfg Config
}

func (p *overrides) Name() string {
	return "html22text"
}

func (p *overrides) Init(conv *converter.Converter) error {
	cfg := p.cfg
	early := converter.PriorityEarly

	conv.Register.RendererFor("q", converter.TagTypeInline, p.renderQuote, early)
	conv.Register.RendererFor("a", converter.TagTypeInline, p.renderLink, early)

	if cfg.IgnoreEmphasis || cfg.EmphasisMark == "" {
		for _, tag := range []string{"em", "i"} {
			conv.Register.RendererFor(tag, converter.TagTypeInline, renderChildren, early)
		}
	}
	if cfg.IgnoreEmphasis || cfg.StrongMark == "" {
		for _, tag := range []string{"strong", "b"} {
			conv.Register.RendererFor(tag, converter.TagTypeInline, renderChildren, early)
		}
	}
	if cfg.ListItemMark == "" {
		for _, tag := range []string{"ul", "ol"} {
			conv.Register.RendererFor(tag, converter.TagTypeBlock, renderPlainList, early)
		}
	}

	switch {
	case cfg.IgnoreImages:
		conv.Register.TagType("img", converter.TagTypeRemove, early)
	case cfg.ImagesToAlt:
		conv.Register.RendererFor("img", converter.TagTypeInline, p.renderImageAlt, early)
	case cfg.DefaultImageAlt != "":
		conv.Register.PreRenderer(p.fillImageAlt, early)
	}

	for _, tag := range []string{"s", "del", "strike"} {
		if cfg.HideStrikethrough {
			conv.Register.TagType(tag, converter.TagTypeRemove, early)
		} else if !cfg.Markdown {
			conv.Register.RendererFor(tag, converter.TagTypeInline, renderChildren, early)
		}
	}

	if cfg.IgnoreTables {
		conv.Register.RendererFor("table", converter.TagTypeBlock, renderPlainTable, early)
	}
	conv.Register.RendererFor("tr", converter.TagTypeBlock, renderRow, early)

	if cfg.Markdown {
		return nil
	}

	for _, tag := range []string{"code", "kbd", "samp", "var", "tt"} {
		conv.Register.RendererFor(tag, converter.TagTypeInline, renderChildren, early)
	}
	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6", "blockquote"} {
		conv.Register.RendererFor(tag, converter.TagTypeBlock, renderChildren, early)
	}
	conv.Register.RendererFor("pre", converter.TagTypeBlock, renderPlainPre, early)
	conv.Register.RendererFor("hr", converter.TagTypeBlock, renderBlank, early)
	conv.Register.RendererFor("br", converter.TagTypeInline, renderNewline, early)

	// Plain text has no HTML to protect, so the entities added by the base
	// plugin are turned back into characters.
	conv.Register.TextTransformer(unescapeAngles, converter.PriorityLate+100)

	return nil
}

func (p *overrides) renderQuote(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	var buf bytes.Buffer
	ctx.RenderChildNodes(ctx, &buf, n)

	w.WriteString(p.cfg.OpenQuote)
	w.Write(bytes.TrimSpace(buf.Bytes()))
	w.WriteString(p.cfg.CloseQuote)
	return converter.RenderSuccess
}

func (p *overrides) renderLink(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	href := strings.TrimSpace(dom.GetAttributeOr(n, "href", ""))

	switch {
	case p.cfg.IgnoreLinks,
		p.cfg.IgnoreMailtoLinks && strings.HasPrefix(strings.ToLower(href), "mailto:"),
		p.cfg.SkipInternalLinks && strings.HasPrefix(href, "#"):
		ctx.RenderChildNodes(ctx, w, n)
		return converter.RenderSuccess
	}

	if p.cfg.AutomaticLinks && strings.Contains(href, "://") &&
		strings.TrimSpace(dom.CollectText(n)) == href && dom.GetAttributeOr(n, "title", "") == "" {
		w.WriteString("<")
		w.WriteString(href)
		w.WriteString(">")
		return converter.RenderSuccess
	}
	return converter.RenderTryNext
}

func (p *overrides) renderImageAlt(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	alt := strings.TrimSpace(dom.GetAttributeOr(n, "alt", ""))
	if alt == "" {
		alt = p.cfg.DefaultImageAlt
	}
	w.WriteString(alt)
	return converter.RenderSuccess
}

// fillImageAlt gives images without alt text the default one.
func (p *overrides) fillImageAlt(_ converter.Context, doc *html.Node) {
	for _, node := range dom.FindAllNodes(doc, func(node *html.Node) bool {
		return dom.NodeName(node) == "img"
	}) {
		if strings.TrimSpace(dom.GetAttributeOr(node, "alt", "")) != "" {
			continue
		}
		core.SetAttr(node, "alt", p.cfg.DefaultImageAlt)
	}
}

func renderChildren(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	tagType, _ := ctx.GetTagType(dom.NodeName(n))
	if tagType == converter.TagTypeBlock {
		w.WriteString("\n\n")
	}
	ctx.RenderChildNodes(ctx, w, n)
	if tagType == converter.TagTypeBlock {
		w.WriteString("\n\n")
	}
	return converter.RenderSuccess
}

// renderPlainList puts every item on its own line, without a marker.
func renderPlainList(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	var items [][]byte
	for _, child := range dom.AllChildNodes(n) {
		var buf bytes.Buffer
		ctx.RenderNodes(ctx, &buf, child)

		item := bytes.TrimSpace(buf.Bytes())
		if len(item) == 0 {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return converter.RenderSuccess
	}

	w.WriteString("\n\n")
	w.Write(bytes.Join(items, []byte("\n")))
	w.WriteString("\n\n")
	return converter.RenderSuccess
}

// renderPlainTable puts every row on its own line with the cells separated
// by a single space.
func renderPlainTable(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	var rows []string
	for _, tr := range tableRows(n) {
		if row := rowText(ctx, tr); row != "" {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return converter.RenderSuccess
	}

	w.WriteString("\n\n")
	w.WriteString(strings.Join(rows, "\n"))
	w.WriteString("\n\n")
	return converter.RenderSuccess
}

// renderRow handles a row outside of any table, which is what scoping to a
// tr leaves. Rows inside a table are left to the table renderers.
func renderRow(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	for p := n.Parent; p != nil; p = p.Parent {
		if dom.NodeName(p) == "table" {
			return converter.RenderTryNext
		}
	}

	row := rowText(ctx, n)
	if row == "" {
		return converter.RenderSuccess
	}
	w.WriteString("\n\n")
	w.WriteString(row)
	w.WriteString("\n\n")
	return converter.RenderSuccess
}

// rowText renders the cells of tr, whitespace collapsed, separated by a
// single space.
func rowText(ctx converter.Context, tr *html.Node) string {
	var cells []string
	for _, cell := range dom.AllChildElements(tr) {
		if name := dom.NodeName(cell); name != "td" && name != "th" {
			continue
		}
		var buf bytes.Buffer
		ctx.RenderChildNodes(ctx, &buf, cell)
		if text := strings.Join(strings.Fields(buf.String()), " "); text != "" {
			cells = append(cells, text)
		}
	}
	return strings.Join(cells, " ")
}

// tableRows returns the rows of table, leaving out rows of nested tables.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for _, child := range dom.AllChildElements(table) {
		switch dom.NodeName(child) {
		case "tr":
			rows = append(rows, child)
		case "thead", "tbody", "tfoot":
			for _, tr := range dom.AllChildElements(child) {
				if dom.NodeName(tr) == "tr" {
					rows = append(rows, tr)
				}
			}
		}
	}
	return rows
}

func renderPlainPre(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	code := strings.Trim(dom.CollectText(n), "\n")
	if strings.TrimSpace(code) == "" {
		return converter.RenderSuccess
	}

	// The marker keeps the newlines out of the whitespace trimming that
	// runs after rendering; commonmark turns it back into "\n".
	w.WriteString("\n\n")
	w.WriteString(strings.ReplaceAll(code, "\n", string(marker.BytesMarkerCodeBlockNewline)))
	w.WriteString("\n\n")
	return converter.RenderSuccess
}

func renderBlank(_ converter.Context, w converter.Writer, _ *html.Node) converter.RenderStatus {
	w.WriteString("\n\n")
	return converter.RenderSuccess
}

func renderNewline(_ converter.Context, w converter.Writer, _ *html.Node) converter.RenderStatus {
	w.WriteString("\n")
	return converter.RenderSuccess
}

var angleReplacer = strings.NewReplacer("&lt;", "<", "&gt;", ">")

func unescapeAngles(_ converter.Context, content string) string {
	return angleReplacer.Replace(content)
}
