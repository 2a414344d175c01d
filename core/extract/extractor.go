// Package extract narrows a document before rendering.
// It implements the two selector-driven stages of the pipeline:
//  1. Scope: restrict the document to the first element matching a selector
//  2. Pruner: delete every element matching a kill-list selector
//
// Both compile selectors with cascadia up front so that a syntax error is
// detected and recovered from instead of silently matching nothing.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// NoiseSelectors are elements that contribute no meaningful content to the
// page text. The CLI adds them to the kill list with --strip_noise.
var NoiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// Scope returns a fresh document whose only child is a copy of the first
// element matching selector. An empty, invalid or unmatched selector
// returns doc itself, which is equivalent to no scoping. The returned flag
// reports whether scoping took place.
func Scope(doc *goquery.Document, selector string, log *zerolog.Logger) (*goquery.Document, bool) {
	log = orNop(log)

	selector = strings.TrimSpace(selector)
	if selector == "" {
		return doc, false
	}

	m, err := cascadia.Compile(selector)
	if err != nil {
		log.Debug().Err(err).Str("selector", selector).Msg("invalid scoping selector, using whole document")
		return doc, false
	}

	match := doc.FindMatcher(m).First()
	if match.Length() == 0 {
		log.Debug().Str("selector", selector).Msg("scoping selector matched nothing, using whole document")
		return doc, false
	}

	// Copied node by node: a lone tr or td does not survive re-parsing.
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(match.Clone().Get(0))
	return goquery.NewDocumentFromNode(root), true
}

// Pruner removes every element matching any of its selectors, subtree
// included. It implements core.Transformer.
type Pruner struct {
	selectors []string
	matchers  []goquery.Matcher
}

// NewPruner compiles selectors. Invalid selectors are skipped with a
// warning; blank ones are ignored.
func NewPruner(selectors []string, log *zerolog.Logger) *Pruner {
	log = orNop(log)

	p := &Pruner{}
	for _, sel := range selectors {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		m, err := cascadia.Compile(sel)
		if err != nil {
			log.Warn().Err(err).Str("selector", sel).Msg("skipping invalid kill selector")
			continue
		}
		p.selectors = append(p.selectors, sel)
		p.matchers = append(p.matchers, m)
	}
	return p
}

// Selectors returns the selectors that compiled.
func (p *Pruner) Selectors() []string {
	return p.selectors
}

// Name returns the stage name.
func (p *Pruner) Name() string {
	return "prune"
}

// Transform removes matching elements from doc. Descendants of a removed
// element go with it and can no longer match a later selector.
func (p *Pruner) Transform(doc *goquery.Document) error {
	if doc == nil {
		return fmt.Errorf("pruning: nil document")
	}
	for _, m := range p.matchers {
		doc.FindMatcher(m).Remove()
	}
	return nil
}

func orNop(log *zerolog.Logger) *zerolog.Logger {
	if log == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return log
}
