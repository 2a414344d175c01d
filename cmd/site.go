package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/html22text/core"
	"github.com/gaurav-prasanna/html22text/core/fetch"
	"github.com/gaurav-prasanna/html22text/core/output"
	"github.com/gaurav-prasanna/html22text/core/pipeline"
	"github.com/gaurav-prasanna/html22text/crawl"
)

var siteCmd = &cobra.Command{
	Use:   "site <root>",
	Short: "Convert a local tree of HTML documents",
	Long: `Site converts every document reachable from an entry page (or, with
--all, every .html and .htm file) under root. Outputs mirror the source
tree, so relative links between documents keep resolving, and a
manifest.yaml lists the outcome for each document.

Examples:
  html22text site ./public --markdown --output_dir ./docs-md
  html22text site ./public --all --output_dir ./docs-txt --kill_tags nav`,
	Args: cobra.ExactArgs(1),
	RunE: runSite,
}

func init() {
	rootCmd.AddCommand(siteCmd)

	flags := siteCmd.Flags()
	addRequestFlags(flags)
	flags.String("entry", "index.html", "document to start link discovery from, relative to root")
	flags.Bool("all", false, "convert every HTML file under root instead of following links")
	flags.Int("max_docs", 0, "maximum number of documents to convert (0 = unlimited)")
	flags.String("output_dir", "", "output directory (default: current directory)")
}

func runSite(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := zerolog.Ctx(ctx)
	root := args[0]

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("site root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("site root %s is not a directory", root)
	}

	req, err := requestFromConfig(viper.GetViper(), cmd.Flags())
	if err != nil {
		return err
	}
	req.IsInputPath = true

	loader := fetch.NewFileLoader(req.MaxInputBytes)
	docs, err := discover(cmd, root, loader)
	if err != nil {
		return fmt.Errorf("discovering documents: %w", err)
	}
	log.Info().Int("documents", len(docs)).Str("root", root).Msg("discovered")

	writer, err := output.New(viper.GetString("output_dir"))
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	manifest := output.Manifest{
		Root:      root,
		Mode:      req.Mode().String(),
		Generated: time.Now().UTC(),
	}
	for i, rel := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry := convertDoc(cmd, req, loader, writer, root, rel)
		manifest.Documents = append(manifest.Documents, entry)
		if entry.Status == output.StatusFailed {
			log.Error().Str("doc", rel).Str("error", entry.Error).Msgf("[%d/%d] failed", i+1, len(docs))
			continue
		}
		log.Info().Str("doc", rel).Str("output", entry.Output).Msgf("[%d/%d] converted", i+1, len(docs))
	}

	path, err := writer.WriteManifest(&manifest)
	if err != nil {
		return err
	}
	log.Debug().Str("path", path).Msg("wrote manifest")

	if failed := manifest.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(docs))
	}
	return nil
}

// discover lists the documents to convert, following links from the entry
// document unless --all is set or the entry does not exist.
func discover(cmd *cobra.Command, root string, loader core.Loader) ([]string, error) {
	ctx := cmd.Context()
	maxDocs := viper.GetInt("max_docs")

	if !viper.GetBool("all") {
		entry := viper.GetString("entry")
		docs, err := crawl.DiscoverDocs(ctx, root, entry, loader, maxDocs)
		if !errors.Is(err, core.ErrNotFound) {
			return docs, err
		}
		zerolog.Ctx(ctx).Warn().Str("entry", entry).Msg("entry document not found, converting every document")
	}

	docs, err := crawl.WalkDocs(root)
	if err != nil {
		return nil, err
	}
	if maxDocs > 0 && len(docs) > maxDocs {
		docs = docs[:maxDocs]
	}
	return docs, nil
}

// convertDoc converts and writes one document, reporting the outcome as a
// manifest entry.
func convertDoc(cmd *cobra.Command, req core.Request, loader core.Loader, writer *output.Writer, root, rel string) output.Entry {
	entry := output.Entry{Source: rel, Status: output.StatusFailed}

	req.HTML = filepath.Join(root, filepath.FromSlash(rel))
	out, err := pipeline.ConvertWith(cmd.Context(), req, loader)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	path, err := writer.WriteMirror(rel, withNewline(out), req.Ext())
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	if relOut, err := filepath.Rel(writer.OutputDir, path); err == nil {
		path = filepath.ToSlash(relOut)
	}

	entry.Output = path
	entry.Status = output.StatusConverted
	return entry
}
