// Package render turns normalized markup into plain text or Markdown.
//
// The heavy lifting is done by html-to-markdown. Config is the complete,
// immutable description of one rendering; NewConfig derives it from a
// conversion request and Render applies it.
package render

import "github.com/gaurav-prasanna/html22text/core"

// Config holds every renderer setting. The zero value renders Markdown
// without link, image or table support; use NewConfig.
type Config struct {
	// Markdown selects Markdown syntax for headings, lists, code blocks,
	// quotes and rules, and enables escaping of Markdown characters.
	Markdown bool

	// BodyWidth wraps paragraphs at this many columns. Zero disables wrapping.
	BodyWidth int

	EmphasisMark string
	StrongMark   string
	ListItemMark string

	IgnoreEmphasis    bool
	IgnoreLinks       bool
	IgnoreImages      bool
	IgnoreTables      bool
	IgnoreMailtoLinks bool
	SkipInternalLinks bool

	InlineLinks    bool
	AutomaticLinks bool

	ImagesToAlt     bool
	DefaultImageAlt string

	OpenQuote  string
	CloseQuote string

	HideStrikethrough bool

	// PreserveUnicode keeps non-ASCII letters as they are. When false,
	// accented letters are folded to their base letter.
	PreserveUnicode bool

	PadTables bool
}

// NewConfig derives the renderer configuration of a request.
func NewConfig(r core.Request) Config {
	md := r.Markdown

	cfg := Config{
		Markdown:  md,
		BodyWidth: r.BodyWidth,

		IgnoreEmphasis:    !md,
		IgnoreLinks:       !md,
		IgnoreImages:      !md || r.KillImages,
		IgnoreTables:      !md,
		IgnoreMailtoLinks: !md,
		SkipInternalLinks: !md,

		InlineLinks:    md,
		AutomaticLinks: md,

		ImagesToAlt:     !md,
		DefaultImageAlt: r.DefaultImageAlt,

		OpenQuote:  r.OpenQuote,
		CloseQuote: r.CloseQuote,

		HideStrikethrough: r.KillStrikethrough,
		PreserveUnicode:   true,
		PadTables:         md,
	}
	if md {
		cfg.EmphasisMark = "_"
		cfg.StrongMark = "**"
		cfg.ListItemMark = "-"
	}
	return cfg
}
