// Package pipeline is the public entry point of html22text: it loads the
// input of a request, narrows and rewrites the document through the stage
// chain, and hands the result to the renderer.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/html22text/core"
	"github.com/gaurav-prasanna/html22text/core/extract"
	"github.com/gaurav-prasanna/html22text/core/fetch"
	"github.com/gaurav-prasanna/html22text/core/normalize"
	"github.com/gaurav-prasanna/html22text/core/prepare"
	"github.com/gaurav-prasanna/html22text/core/render"
)

// Convert converts the HTML of req to plain text or Markdown. When
// req.IsInputPath is set, req.HTML names a file that is read first; I/O
// failures are returned as *core.InputError. Malformed markup and selector
// problems never fail a conversion.
func Convert(ctx context.Context, req core.Request) (string, error) {
	return ConvertWith(ctx, req, fetch.NewFileLoader(req.MaxInputBytes))
}

// ConvertWith is Convert with a custom loader for file input.
func ConvertWith(ctx context.Context, req core.Request, loader core.Loader) (string, error) {
	markup := req.HTML
	if req.IsInputPath {
		var err error
		markup, err = loader.Load(ctx, req.HTML)
		if err != nil {
			return "", err
		}
	} else if req.MaxInputBytes > 0 && int64(len(markup)) > req.MaxInputBytes {
		return "", core.NewInputError("<input>", core.ErrInputTooLarge,
			fmt.Errorf("%d bytes, limit is %d", len(markup), req.MaxInputBytes))
	}

	if strings.TrimSpace(markup) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	return ConvertDocument(ctx, doc, req)
}

// ConvertDocument runs scoping, the stage chain and rendering on an already
// parsed document. The tree goes to the renderer as is, without being
// serialized. doc is modified in place and must not be shared with a
// concurrent call.
func ConvertDocument(ctx context.Context, doc *goquery.Document, req core.Request) (string, error) {
	log := zerolog.Ctx(ctx).With().
		Str("mode", req.Mode().String()).
		Logger()

	doc, scoped := extract.Scope(doc, req.Selector, &log)
	log.Debug().Str("selector", req.Selector).Bool("scoped", scoped).Msg("scoped document")

	for _, stage := range Stages(req, &log) {
		if err := stage.Transform(doc); err != nil {
			return "", fmt.Errorf("%s stage: %w", stage.Name(), err)
		}
		log.Debug().Str("stage", stage.Name()).Msg("stage complete")
	}

	if len(doc.Nodes) == 0 {
		return "", nil
	}
	out, err := render.RenderNode(ctx, doc.Nodes[0], render.NewConfig(req))
	if err != nil {
		return "", err
	}
	log.Debug().Int("bytes", len(out)).Msg("rendered")
	return out, nil
}

// Stages returns the ordered transformer chain for req: link preparation
// (Markdown only), tag normalization, then kill-list pruning.
func Stages(req core.Request, log *zerolog.Logger) []core.Transformer {
	var stages []core.Transformer
	if req.Markdown {
		stages = append(stages, prepare.New(req.Ext(), req.BaseURL, log))
	}
	stages = append(stages,
		normalize.New(normalize.OptionsFromRequest(req)),
		extract.NewPruner(req.KillTags, log),
	)
	return stages
}
