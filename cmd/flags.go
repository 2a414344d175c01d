package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/html22text/core"
	"github.com/gaurav-prasanna/html22text/core/extract"
)

// addRequestFlags registers one flag per conversion request field. Flag
// names double as config file keys.
func addRequestFlags(flags *pflag.FlagSet) {
	flags.Bool("is_input_path", false, "treat the argument as a path to an HTML file")
	flags.Bool("markdown", false, "output Markdown instead of plain text")
	flags.String("selector", core.DefaultSelector, "CSS selector scoping the conversion to its first match")
	flags.String("base_url", "", "base URL that asset references are resolved against (Markdown only)")
	flags.Bool("plain_tables", false, "flatten tables into a single line of text (plain text only)")
	flags.String("open_quote", core.DefaultOpenQuote, "character opening a quotation")
	flags.String("close_quote", core.DefaultCloseQuote, "character closing a quotation")
	flags.Bool("block_quote", false, "render blockquotes as inline quotations (plain text only)")
	flags.String("default_image_alt", "", "alt text for images that have none")
	flags.Bool("kill_strikethrough", false, "drop struck-through text")
	flags.StringArray("kill_tags", nil, "CSS selector of elements to remove (repeatable)")
	flags.Bool("kill_images", false, "drop images")
	flags.Bool("strip_noise", false, "also remove page chrome such as navigation and scripts")
	flags.String("file_ext_override", "", "extension for rewritten document links (default md or txt)")
	flags.String("structure", string(core.StructureCollapse), "plain text structure rewriting: collapse or blockquote")
	flags.String("max_input_bytes", "0", "input size limit, e.g. 512KB or 10MB (0 = unlimited)")
	flags.Int("body_width", 0, "wrap paragraphs at this many columns (0 = no wrapping)")
}

// requestFromConfig builds a validated request from v, which has the flags
// registered by addRequestFlags bound to it. HTML is left for the caller.
func requestFromConfig(v *viper.Viper, flags *pflag.FlagSet) (core.Request, error) {
	maxBytes, err := parseSize(v.GetString("max_input_bytes"))
	if err != nil {
		return core.Request{}, err
	}

	req := core.Request{
		IsInputPath:       v.GetBool("is_input_path"),
		Markdown:          v.GetBool("markdown"),
		Selector:          v.GetString("selector"),
		BaseURL:           v.GetString("base_url"),
		PlainTables:       v.GetBool("plain_tables"),
		OpenQuote:         v.GetString("open_quote"),
		CloseQuote:        v.GetString("close_quote"),
		BlockQuote:        v.GetBool("block_quote"),
		DefaultImageAlt:   v.GetString("default_image_alt"),
		KillStrikethrough: v.GetBool("kill_strikethrough"),
		KillTags:          killTags(v, flags),
		KillImages:        v.GetBool("kill_images"),
		FileExtOverride:   strings.TrimPrefix(v.GetString("file_ext_override"), "."),
		Structure:         core.StructurePolicy(v.GetString("structure")),
		MaxInputBytes:     maxBytes,
		BodyWidth:         v.GetInt("body_width"),
	}
	if v.GetBool("strip_noise") {
		req.KillTags = append(req.KillTags, extract.NoiseSelectors...)
	}

	if err := req.Validate(); err != nil {
		return core.Request{}, err
	}
	return req, nil
}

// killTags reads the kill list. Selectors may contain commas, so values
// given on the command line are taken verbatim instead of through viper,
// which splits string arrays on commas.
func killTags(v *viper.Viper, flags *pflag.FlagSet) []string {
	tags := []string{}
	if f := flags.Lookup("kill_tags"); f != nil && f.Changed {
		vals, _ := flags.GetStringArray("kill_tags")
		return append(tags, vals...)
	}
	return append(tags, v.GetStringSlice("kill_tags")...)
}

// parseSize parses a human readable byte count. Empty and "0" mean no
// limit.
func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid max_input_bytes %q: %w", s, err)
	}
	return int64(n), nil
}
