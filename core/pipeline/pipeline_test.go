package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/html22text/core"
)

func textRequest(html string) core.Request {
	req := core.DefaultRequest()
	req.HTML = html
	return req
}

func markdownRequest(html string) core.Request {
	req := textRequest(html)
	req.Markdown = true
	return req
}

func TestConvert(t *testing.T) {
	guillemets := func(req core.Request) core.Request {
		req.OpenQuote, req.CloseQuote = "«", "»"
		return req
	}

	killScript := textRequest("<p>Keep</p><script>Drop</script>")
	killScript.KillTags = []string{"script"}

	scoped := textRequest("<div id='a'>A</div><div id='b'>B</div>")
	scoped.Selector = "#a"

	invalidSelector := textRequest("<div>A</div><div>B</div>")
	invalidSelector.Selector = "div["

	unmatched := textRequest("<div>A</div><div>B</div>")
	unmatched.Selector = "#missing"

	nested := textRequest(`<div class="parent">Parent text <span class="child">Child</span> Sibling</div>`)
	nested.KillTags = []string{".child"}

	blockQuote := guillemets(textRequest("<blockquote>Block quote</blockquote>"))
	blockQuote.BlockQuote = true

	plainTables := textRequest("<table><tr><th>Header 1</th><th>Header 2</th></tr><tr><td>Cell 1.1</td><td>Cell 1.2</td></tr></table>")
	plainTables.PlainTables = true

	withBase := markdownRequest(`<p><img src="img.png" alt="A"></p>`)
	withBase.BaseURL = "http://example.com/docs/"

	extOverride := markdownRequest(`<p><a href="other.html">Other</a></p>`)
	extOverride.FileExtOverride = "txt"

	killImages := markdownRequest(`<p>Pic <img src="img.png" alt="A"></p>`)
	killImages.KillImages = true

	const row = `<table><tr id="r"><td class="secret">alpha</td><td>beta</td></tr></table>`
	scopedRow := textRequest(row)
	scopedRow.Selector = "#r"
	scopedRowKilled := scopedRow
	scopedRowKilled.KillTags = []string{".secret"}
	scopedRowMarkdown := markdownRequest(row)
	scopedRowMarkdown.Selector = "tr"
	scopedRowMarkdown.KillTags = []string{".secret"}

	noQuotes := textRequest("<p>he said <q>hi</q></p>")
	noQuotes.OpenQuote, noQuotes.CloseQuote = "", ""

	killStrike := markdownRequest("<p><del>old</del> new</p>")
	killStrike.KillStrikethrough = true

	tests := []struct {
		name        string
		req         core.Request
		contains    []string
		notContains []string
		want        *string
	}{
		{name: "empty_markdown", req: markdownRequest(""), want: ptr("")},
		{name: "whitespace_text", req: textRequest("   \n\t  "), want: ptr("")},
		{name: "strong_markdown", req: markdownRequest("<p>Hello <b>World</b></p>"), contains: []string{"Hello **World**"}},
		{name: "strong_text", req: textRequest("<p>Hello <b>World</b></p>"), contains: []string{"Hello World"}, notContains: []string{"*"}},
		{name: "kill_tags", req: killScript, contains: []string{"Keep"}, notContains: []string{"Drop"}},
		{name: "scoping", req: scoped, contains: []string{"A"}, notContains: []string{"B"}},
		{name: "invalid_selector", req: invalidSelector, contains: []string{"A", "B"}},
		{name: "unmatched_selector", req: unmatched, contains: []string{"A", "B"}},
		{name: "nested_removal", req: nested, contains: []string{"Parent text", "Sibling"}, notContains: []string{"Child"}},
		{name: "quote", req: guillemets(textRequest("<p><q>Quoted text</q></p>")), want: ptr("«Quoted text»")},
		{name: "empty_quotes", req: noQuotes, want: ptr("he said hi")},
		{name: "block_quote", req: blockQuote, want: ptr("«Block quote»")},
		{name: "blockquote_plain", req: textRequest("<blockquote>Quoted</blockquote>"), want: ptr("Quoted")},
		{name: "entities", req: textRequest("<p>&lt;script&gt;alert('xss')&lt;/script&gt;</p>"), want: ptr("<script>alert('xss')</script>")},
		{name: "mark_unwrapped", req: textRequest("<p>A <mark>marked</mark> <kbd>Ctrl</kbd> word</p>"), want: ptr("A marked Ctrl word")},
		{name: "emphasis_markdown", req: markdownRequest("<p><em>emphasis</em></p>"), want: ptr("_emphasis_")},
		{name: "heading_markdown", req: markdownRequest("<h1>Title</h1>"), want: ptr("# Title")},
		{name: "heading_text", req: textRequest("<h1>Title</h1>"), want: ptr("Title")},
		{name: "list_text", req: textRequest("<ul><li>One</li><li>Two</li></ul>"), contains: []string{"One\n\nTwo"}, notContains: []string{"-", "*"}},
		{name: "list_markdown", req: markdownRequest("<ul><li>One</li><li>Two</li></ul>"), contains: []string{"- One", "- Two"}},
		{name: "plain_tables", req: plainTables, want: ptr("Header 1, Header 2. Cell 1.1, Cell 1.2")},
		{name: "doc_link", req: markdownRequest(`<p><a href="guide/intro.html#setup">Intro</a></p>`), want: ptr("[Intro](guide/intro.md#setup)")},
		{name: "ext_override", req: extOverride, want: ptr("[Other](other.txt)")},
		{name: "asset_base", req: withBase, want: ptr("![A](http://example.com/docs/img.png)")},
		{name: "kill_images", req: killImages, want: ptr("Pic")},
		{name: "kill_strikethrough", req: killStrike, want: ptr("new")},
		{name: "scoped_row", req: scopedRow, want: ptr("alpha beta")},
		{name: "scoped_row_pruned", req: scopedRowKilled, want: ptr("beta")},
		{name: "scoped_row_markdown_pruned", req: scopedRowMarkdown, want: ptr("beta")},
		{name: "malformed", req: markdownRequest("<p>Unclosed <b>bold"), contains: []string{"Unclosed **bold**"}},
		{name: "unicode", req: textRequest("<p>日本語 🎉 café</p>"), want: ptr("日本語 🎉 café")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if tt.want != nil && got != *tt.want {
				t.Errorf("Convert() = %q, want %q", got, *tt.want)
			}
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Convert() = %q, missing %q", got, s)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(got, s) {
					t.Errorf("Convert() = %q, should not contain %q", got, s)
				}
			}
		})
	}
}

func TestConvertFileInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<p>From <b>file</b></p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := markdownRequest(path)
	req.IsInputPath = true
	got, err := Convert(context.Background(), req)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != "From **file**" {
		t.Errorf("Convert() = %q", got)
	}
}

func TestConvertInputErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		req  core.Request
		kind error
	}{
		{
			name: "not_found",
			req:  core.Request{HTML: filepath.Join(dir, "missing.html"), IsInputPath: true},
			kind: core.ErrNotFound,
		},
		{
			name: "directory",
			req:  core.Request{HTML: dir, IsInputPath: true},
			kind: core.ErrIsDirectory,
		},
		{
			name: "inline_too_large",
			req:  core.Request{HTML: "<p>0123456789</p>", MaxInputBytes: 5},
			kind: core.ErrInputTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(context.Background(), tt.req)
			if err == nil {
				t.Fatalf("Convert() = %q, want error", got)
			}
			if got != "" {
				t.Errorf("Convert() returned output %q alongside error", got)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("Convert() error = %v, want %v", err, tt.kind)
			}
			var inputErr *core.InputError
			if !errors.As(err, &inputErr) {
				t.Errorf("Convert() error %T is not *core.InputError", err)
			}
		})
	}
}

type stubLoader struct {
	html   string
	source string
}

func (l *stubLoader) Load(_ context.Context, source string) (string, error) {
	l.source = source
	return l.html, nil
}

func TestConvertWithLoader(t *testing.T) {
	loader := &stubLoader{html: "<p>Loaded</p>"}
	req := textRequest("docs/index.html")
	req.IsInputPath = true

	got, err := ConvertWith(context.Background(), req, loader)
	if err != nil {
		t.Fatalf("ConvertWith() error = %v", err)
	}
	if got != "Loaded" {
		t.Errorf("ConvertWith() = %q, want %q", got, "Loaded")
	}
	if loader.source != "docs/index.html" {
		t.Errorf("loader got source %q", loader.source)
	}
}

func TestConvertDoesNotMutateRequest(t *testing.T) {
	req := markdownRequest(`<p><a href="a.html">A</a></p>`)
	req.KillTags = []string{"script"}
	before := strings.Join(req.KillTags, ",")

	ctx := zerolog.New(io.Discard).WithContext(context.Background())
	if _, err := Convert(ctx, req); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got := strings.Join(req.KillTags, ","); got != before {
		t.Errorf("KillTags changed to %q", got)
	}
}

func TestConvertConcurrent(t *testing.T) {
	req := markdownRequest("<h2>Title</h2><p>Hello <b>World</b> and <a href='x.html'>x</a></p>")
	want, err := Convert(context.Background(), req)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Convert(context.Background(), req)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != want {
			t.Errorf("call %d = %q, want %q", i, got, want)
		}
	}
}

func TestStages(t *testing.T) {
	names := func(req core.Request) string {
		var out []string
		for _, s := range Stages(req, nil) {
			out = append(out, s.Name())
		}
		return strings.Join(out, ",")
	}

	if got := names(markdownRequest("")); got != "prepare,normalize,prune" {
		t.Errorf("markdown stages = %q", got)
	}
	if got := names(textRequest("")); got != "normalize,prune" {
		t.Errorf("text stages = %q", got)
	}
}

func ptr(s string) *string { return &s }
