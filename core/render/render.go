package render

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Render converts markup according to cfg. It keeps no state between
// calls. Empty or whitespace-only markup renders to "".
func Render(ctx context.Context, markup string, cfg Config) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	return RenderNode(ctx, doc, cfg)
}

// RenderNode converts an already parsed tree according to cfg. The tree is
// consumed: the converter removes and rewrites nodes while rendering.
func RenderNode(ctx context.Context, doc *html.Node, cfg Config) (string, error) {
	out, err := newConverter(cfg).ConvertNode(doc, converter.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", modeName(cfg), err)
	}

	text := string(out)
	if !cfg.PreserveUnicode {
		text = foldUnicode(text)
	}
	if cfg.BodyWidth > 0 {
		text = wrapParagraphs(text, cfg.BodyWidth)
	}
	return strings.TrimSpace(text), nil
}

// newConverter assembles a converter for cfg. Settings the stock plugins
// cannot express are registered by the overrides plugin with early
// priority, so they win over the commonmark renderers.
func newConverter(cfg Config) *converter.Converter {
	var cmOpts []commonmark.OptionFunc
	if cfg.EmphasisMark != "" {
		cmOpts = append(cmOpts, commonmark.WithEmDelimiter(cfg.EmphasisMark))
	}
	if cfg.StrongMark != "" {
		cmOpts = append(cmOpts, commonmark.WithStrongDelimiter(cfg.StrongMark))
	}
	if cfg.ListItemMark != "" {
		cmOpts = append(cmOpts, commonmark.WithBulletListMarker(cfg.ListItemMark))
	} else {
		cmOpts = append(cmOpts, commonmark.WithListEndComment(false))
	}
	if cfg.IgnoreImages {
		// A link around a dropped image would otherwise render as "[](href)".
		cmOpts = append(cmOpts, commonmark.WithLinkEmptyContentBehavior(commonmark.LinkBehaviorSkip))
	}

	plugins := []converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(cmOpts...),
	}
	if !cfg.IgnoreTables {
		padding := table.CellPaddingBehaviorMinimal
		if cfg.PadTables {
			padding = table.CellPaddingBehaviorAligned
		}
		plugins = append(plugins, table.NewTablePlugin(table.WithCellPaddingBehavior(padding)))
	}
	if cfg.Markdown && !cfg.HideStrikethrough {
		plugins = append(plugins, strikethrough.NewStrikethroughPlugin())
	}
	plugins = append(plugins, &overrides{cfg: cfg})

	mode := converter.EscapeModeDisabled
	if cfg.Markdown {
		mode = converter.EscapeModeSmart
	}

	return converter.NewConverter(
		converter.WithPlugins(plugins...),
		converter.WithEscapeMode(mode),
	)
}

func modeName(cfg Config) string {
	if cfg.Markdown {
		return "markdown"
	}
	return "text"
}

// foldUnicode strips combining marks, turning "é" into "e".
func foldUnicode(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// wrapParagraphs word-wraps every paragraph at width columns. Fenced code,
// indented code and tables keep their lines.
func wrapParagraphs(s string, width int) string {
	blocks := strings.Split(s, "\n\n")
	inFence := false
	for i, block := range blocks {
		fenced := inFence
		if strings.Count(block, "```")%2 == 1 {
			inFence = !inFence
		}
		if fenced || isPreformatted(block) {
			continue
		}
		blocks[i] = wordwrap.String(block, width)
	}
	return strings.Join(blocks, "\n\n")
}

func isPreformatted(block string) bool {
	for _, prefix := range []string{"```", "~~~", "    ", "\t", "|"} {
		if strings.HasPrefix(block, prefix) {
			return true
		}
	}
	return false
}
