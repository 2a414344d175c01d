package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/html22text/core"
	"github.com/gaurav-prasanna/html22text/core/fetch"
	"github.com/gaurav-prasanna/html22text/core/output"
	"github.com/gaurav-prasanna/html22text/core/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert [html|path]",
	Short: "Convert one HTML document to plain text or Markdown",
	Long: `Convert takes HTML from the argument, a file (--is_input_path), a URL
(--url) or standard input, and prints plain text or Markdown.

Examples:
  html22text convert '<p>Hello <b>World</b></p>' --markdown
  html22text convert page.html --is_input_path --kill_tags nav --kill_tags '.ads'
  html22text convert --url https://example.com/docs/ --markdown --output_dir ./out
  cat page.html | html22text convert --selector main`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

// newFetcher builds the fetcher used for --url, bounded to maxBytes.
var newFetcher = func(maxBytes int64) core.Fetcher {
	f := fetch.New()
	f.MaxBytes = maxBytes
	return f
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	addRequestFlags(flags)
	flags.String("url", "", "fetch the HTML from this URL")
	flags.StringP("output", "o", "", "write the result to this file (default: stdout)")
	flags.String("output_dir", "", "write the result into this directory, named after the input")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := zerolog.Ctx(ctx)

	req, err := requestFromConfig(viper.GetViper(), cmd.Flags())
	if err != nil {
		return err
	}

	rawURL := viper.GetString("url")
	switch {
	case rawURL != "" && len(args) > 0:
		return errors.New("give either an HTML argument or --url, not both")
	case rawURL != "":
		parsed, err := url.Parse(rawURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", rawURL)
		}
		result, err := newFetcher(req.MaxInputBytes).Fetch(ctx, rawURL)
		if err != nil {
			return err
		}
		log.Debug().Str("url", result.URL).Int("status", result.StatusCode).Msg("fetched")
		req.HTML, req.IsInputPath = result.HTML, false
		if req.BaseURL == "" {
			req.BaseURL = result.URL
		}
	case len(args) == 1:
		req.HTML = args[0]
	case req.IsInputPath:
		return errors.New("--is_input_path needs a path argument")
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading standard input: %w", err)
		}
		req.HTML = string(data)
	}

	out, err := pipeline.Convert(ctx, req)
	if err != nil {
		return err
	}
	return writeResult(cmd, req, rawURL, out)
}

// writeResult sends out to the file or directory named by the output flags,
// or to stdout.
func writeResult(cmd *cobra.Command, req core.Request, rawURL, out string) error {
	target := viper.GetString("output")
	dir := viper.GetString("output_dir")
	if target == "" && dir == "" {
		if out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	}

	writer, err := output.New(dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	var path string
	data := withNewline(out)
	switch {
	case target != "":
		path, err = writer.WriteFile(target, data)
	case rawURL != "":
		path, err = writer.WriteURL(rawURL, data, req.Ext())
	case req.IsInputPath:
		path, err = writer.WriteMirror(filepath.ToSlash(filepath.Base(req.HTML)), data, req.Ext())
	default:
		return errors.New("--output_dir needs a file or URL input to name the result; use --output")
	}
	if err != nil {
		return err
	}

	zerolog.Ctx(cmd.Context()).Info().Str("path", path).Msg("written")
	return nil
}

func withNewline(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s + "\n")
}
