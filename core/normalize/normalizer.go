// Package normalize rewrites tag identity ahead of rendering.
//
// Each element is classified into a Kind, its effective render kind, by the
// pure function Classify. The Normalizer then applies the kinds to the tree
// in a single pass. Markdown output keeps almost every tag so the renderer's
// own table, list and heading handling applies; plain-text output collapses
// structure the renderer would otherwise decorate.
package normalize

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gaurav-prasanna/html22text/core"
)

// Kind is the effective render kind of an element.
type Kind int

const (
	// Keep leaves the element untouched.
	Keep Kind = iota
	// Unwrap replaces the element with its text content.
	Unwrap
	// Block renames the element to a generic block container.
	Block
	// Paragraph renames the element to a paragraph.
	Paragraph
	// Quote renames the element to an inline quotation.
	Quote
	// QuoteBlock renames the element to an inline quotation wrapped in its
	// own paragraph.
	QuoteBlock
	// Flatten replaces a table with a single line of text.
	Flatten
)

var kindNames = map[Kind]string{
	Keep:       "keep",
	Unwrap:     "unwrap",
	Block:      "block",
	Paragraph:  "paragraph",
	Quote:      "quote",
	QuoteBlock: "quote-block",
	Flatten:    "flatten",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Options controls classification.
type Options struct {
	Mode        core.Mode
	Policy      core.StructurePolicy
	BlockQuote  bool
	PlainTables bool
}

// OptionsFromRequest derives the normalizer options of a request.
func OptionsFromRequest(r core.Request) Options {
	return Options{
		Mode:        r.Mode(),
		Policy:      r.Policy(),
		BlockQuote:  r.BlockQuote,
		PlainTables: r.PlainTables,
	}
}

// Classify returns the render kind of an element named tag.
func Classify(tag string, opts Options) Kind {
	tag = strings.ToLower(tag)

	switch tag {
	case "mark", "kbd":
		return Unwrap
	}
	if opts.Mode == core.ModeMarkdown {
		return Keep
	}

	switch tag {
	case "blockquote":
		if opts.BlockQuote {
			return QuoteBlock
		}
		return Block
	case "table":
		if opts.PlainTables {
			return Flatten
		}
		return Keep
	}

	if opts.Policy == core.StructureBlockquote {
		return Keep
	}
	switch tag {
	case "ul", "ol", "figure":
		return Block
	case "label", "h1", "h2", "h3", "h4", "h5", "h6", "figcaption", "li":
		return Paragraph
	case "code":
		return Quote
	}
	return Keep
}

// Normalizer applies Classify to every element of a document.
// It implements core.Transformer.
type Normalizer struct {
	opts Options
}

// New creates a Normalizer.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Name returns the stage name.
func (n *Normalizer) Name() string {
	return "normalize"
}

// Transform rewrites the document in place, in document order. Elements
// replaced by text are not descended into.
func (n *Normalizer) Transform(doc *goquery.Document) error {
	for _, root := range doc.Nodes {
		n.walk(root)
	}
	return nil
}

func (n *Normalizer) walk(parent *html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && !n.apply(c) {
			c = next
			continue
		}
		n.walk(c)
		c = next
	}
}

// apply rewrites node according to its kind and reports whether node is
// still in the tree with children worth visiting.
func (n *Normalizer) apply(node *html.Node) bool {
	switch Classify(dom.NodeName(node), n.opts) {
	case Unwrap:
		dom.ReplaceNode(node, textNode(dom.CollectText(node)))
		return false
	case Flatten:
		dom.ReplaceNode(node, textNode(FlattenTable(node)))
		return false
	case Block:
		rename(node, atom.Div)
	case Paragraph:
		rename(node, atom.P)
	case Quote:
		rename(node, atom.Q)
	case QuoteBlock:
		rename(node, atom.Q)
		unwrapParagraphs(node)
		dom.WrapNode(node, &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P})
	}
	return true
}

// FlattenTable renders a table as one line: the cells of a row joined by
// ", " and the rows joined by ". ".
func FlattenTable(table *html.Node) string {
	var rows []string
	for _, tr := range findAll(table, "tr") {
		var cells []string
		for _, cell := range findAll(tr, "th", "td") {
			cells = append(cells, cellText(cell))
		}
		rows = append(rows, strings.Join(cells, ", "))
	}
	return strings.Join(rows, ". ")
}

// cellText joins the text runs of a cell with single spaces.
func cellText(cell *html.Node) string {
	var parts []string
	for _, node := range dom.AllNodes(cell) {
		if node.Type == html.TextNode {
			parts = append(parts, node.Data)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// findAll returns the descendants of root named any of names, in document
// order.
func findAll(root *html.Node, names ...string) []*html.Node {
	var found []*html.Node
	for _, node := range dom.AllNodes(root) {
		if node == root || node.Type != html.ElementNode {
			continue
		}
		for _, name := range names {
			if node.Data == name {
				found = append(found, node)
				break
			}
		}
	}
	return found
}

// unwrapParagraphs lifts the content of paragraphs directly inside a quote,
// since a paragraph cannot live inside the paragraph the quote is wrapped in.
func unwrapParagraphs(quote *html.Node) {
	first := true
	for _, child := range dom.AllChildElements(quote) {
		if child.DataAtom != atom.P {
			continue
		}
		if !first {
			quote.InsertBefore(textNode(" "), child)
		}
		first = false
		dom.UnwrapNode(child)
	}
}

func rename(node *html.Node, a atom.Atom) {
	node.DataAtom = a
	node.Data = a.String()
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
