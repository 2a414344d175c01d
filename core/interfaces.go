// Package core defines the conversion request and the pipeline interfaces
// for html22text. Each stage of the pipeline is a small, testable interface.
package core

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Mode selects the output flavour of a conversion.
type Mode int

const (
	ModeText Mode = iota
	ModeMarkdown
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	if m == ModeMarkdown {
		return "markdown"
	}
	return "text"
}

// StructurePolicy selects how aggressively plain-text mode rewrites
// structural tags before rendering.
type StructurePolicy string

const (
	// StructureCollapse turns lists, figures, headings and labels into
	// plain blocks and paragraphs, and inline code into quotations.
	StructureCollapse StructurePolicy = "collapse"
	// StructureBlockquote only rewrites <blockquote>; lists and headings
	// are left to the renderer's plain-text handling.
	StructureBlockquote StructurePolicy = "blockquote"
)

// Default values of the conversion request.
const (
	DefaultSelector   = "html"
	DefaultOpenQuote  = "“"
	DefaultCloseQuote = "”"
)

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Request is a single conversion request. It is a plain value: the
// pipeline never mutates it and never keeps it after a call returns.
type Request struct {
	// HTML is the markup to convert, or a file path when IsInputPath is set.
	HTML        string `json:"html" validate:"-"`
	IsInputPath bool   `json:"is_input_path"`

	Markdown bool `json:"markdown"`

	// Selector scopes the conversion to the first matching element.
	// Empty, invalid or unmatched selectors convert the whole document.
	Selector string `json:"selector"`
	BaseURL  string `json:"base_url"`

	PlainTables       bool     `json:"plain_tables"`
	OpenQuote         string   `json:"open_quote" validate:"max=16"`
	CloseQuote        string   `json:"close_quote" validate:"max=16"`
	BlockQuote        bool     `json:"block_quote"`
	DefaultImageAlt   string   `json:"default_image_alt"`
	KillStrikethrough bool     `json:"kill_strikethrough"`
	KillTags          []string `json:"kill_tags" validate:"dive,required"`
	KillImages        bool     `json:"kill_images"`

	// FileExtOverride replaces the extension used when rewriting relative
	// document links. Empty means "md" or "txt" depending on the mode.
	FileExtOverride string `json:"file_ext_override" validate:"omitempty,max=16,excludesall=/\\?#"`

	Structure StructurePolicy `json:"structure" validate:"omitempty,oneof=collapse blockquote"`

	// MaxInputBytes bounds the input size. Zero means unlimited.
	MaxInputBytes int64 `json:"max_input_bytes" validate:"gte=0"`

	// BodyWidth wraps rendered paragraphs at this many columns. Zero disables wrapping.
	BodyWidth int `json:"body_width" validate:"gte=0"`
}

// DefaultRequest returns a request carrying the documented defaults.
func DefaultRequest() Request {
	return Request{
		Selector:   DefaultSelector,
		OpenQuote:  DefaultOpenQuote,
		CloseQuote: DefaultCloseQuote,
		KillTags:   []string{},
		Structure:  StructureCollapse,
	}
}

// Mode returns the output mode of the request.
func (r Request) Mode() Mode {
	if r.Markdown {
		return ModeMarkdown
	}
	return ModeText
}

// Ext returns the effective output extension, without a leading dot.
func (r Request) Ext() string {
	if r.FileExtOverride != "" {
		return r.FileExtOverride
	}
	if r.Markdown {
		return "md"
	}
	return "txt"
}

// Policy returns the structural policy, falling back to StructureCollapse.
func (r Request) Policy() StructurePolicy {
	if r.Structure == "" {
		return StructureCollapse
	}
	return r.Structure
}

// Transformer is one in-place stage of the pipeline. The document is owned
// by the pipeline for the duration of a single call.
type Transformer interface {
	Transform(doc *goquery.Document) error
	// Name returns the stage name for logging.
	Name() string
}

// Loader reads the HTML for a request from some source.
type Loader interface {
	Load(ctx context.Context, source string) (string, error)
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}
