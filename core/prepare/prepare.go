// Package prepare rewrites link targets ahead of Markdown rendering.
//
// Anchors pointing at sibling HTML documents are moved to the output
// extension, and asset references (stylesheets, images, scripts, anything
// with a src) are resolved against the base URL.
package prepare

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/html22text/core"
	"github.com/gaurav-prasanna/html22text/core/href"
)

// Preparer is the link-rewriting stage. It implements core.Transformer.
type Preparer struct {
	ext     string
	baseURL string
	log     *zerolog.Logger
}

// New creates a Preparer rewriting document links to ext and resolving
// assets against baseURL. A nil logger discards output.
func New(ext, baseURL string, log *zerolog.Logger) *Preparer {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Preparer{ext: ext, baseURL: baseURL, log: log}
}

// Name returns the stage name.
func (p *Preparer) Name() string {
	return "prepare"
}

// Transform rewrites the document in place. Anchors go first.
func (p *Preparer) Transform(doc *goquery.Document) error {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		p.rewrite(s.Get(0), "href", func(v string) string {
			return href.RelTextHref(v, p.ext)
		})
	})

	asset := func(v string) string {
		return href.AbsAssetHref(v, p.baseURL)
	}
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		p.rewrite(s.Get(0), "href", asset)
	})
	doc.Find("[src]").Each(func(_ int, s *goquery.Selection) {
		p.rewrite(s.Get(0), "src", asset)
	})

	return nil
}

// rewrite applies fn to the key attribute of n. A repeated attribute is
// coerced to its first value and the duplicates are dropped.
func (p *Preparer) rewrite(n *html.Node, key string, fn func(string) string) {
	v, ok := core.ReadAttr(n, key)
	if !ok {
		return
	}
	if v.IsMultiple() {
		p.log.Debug().
			Str("tag", n.Data).
			Str("attr", key).
			Strs("values", v.Values()).
			Msg("coercing repeated attribute to its first value")
	}
	core.SetAttr(n, key, fn(v.First()))
}
