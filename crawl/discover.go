// Package crawl discovers the HTML documents of a local site for the site
// command: a link-following breadth-first search from an entry document,
// or a plain walk of the directory tree.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/html22text/core"
)

// DiscoverDocs returns the documents reachable from entry by following
// relative document links, in breadth-first order, as slash-separated paths
// relative to root. entry itself is always first. Links are resolved
// against the document they appear in and never leave root. A positive
// limit caps the number of documents.
//
// Only a failure to load entry is returned as an error. Documents that
// cannot be loaded later are kept in the result but not followed.
func DiscoverDocs(ctx context.Context, root, entry string, loader core.Loader, limit int) ([]string, error) {
	log := zerolog.Ctx(ctx)

	start := NormalizeDocPath(entry)
	queue := NewQueue(limit)
	queue.Add(start)

	for queue.HasNext() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := queue.Next()

		markup, err := loader.Load(ctx, filepath.Join(root, filepath.FromSlash(current)))
		if err != nil {
			if current == start {
				return nil, fmt.Errorf("loading entry document: %w", err)
			}
			log.Warn().Err(err).Str("doc", current).Msg("skipping links of unreadable document")
			continue
		}

		links, err := extractDocLinks(markup, current)
		if err != nil {
			log.Warn().Err(err).Str("doc", current).Msg("skipping links of unparsable document")
			continue
		}
		for _, link := range links {
			if queue.Add(link) {
				log.Debug().Str("from", current).Str("doc", link).Msg("discovered")
			}
		}
	}

	return queue.All(), nil
}

// extractDocLinks returns the root-relative targets of the document links
// in markup, which was loaded from current.
func extractDocLinks(markup, current string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		raw, _ := s.Attr("href")
		if target, ok := ResolveDocLink(current, strings.TrimSpace(raw)); ok {
			links = append(links, target)
		}
	})
	return links, nil
}

// WalkDocs returns every .html and .htm file under root in lexical order,
// as slash-separated paths relative to root. Hidden directories are skipped.
func WalkDocs(root string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDocFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.NewInputError(root, core.ErrNotFound, err)
		}
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return docs, nil
}
