package prepare

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func TestTransform(t *testing.T) {
	markup := `<html><head>
<link rel="stylesheet" href="css/site.css">
<script src="../js/app.js"></script>
</head><body>
<a id="doc" href="guide/intro.html#setup">Intro</a>
<a id="ext" href="https://example.org/page.html">Elsewhere</a>
<a id="frag" href="#top">Top</a>
<a id="pdf" href="files/manual.pdf">Manual</a>
<img id="img" src="img/logo.png" alt="Logo">
</body></html>`

	doc := mustDoc(t, markup)
	p := New("md", "http://example.com/docs/", nil)
	if err := p.Transform(doc); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	tests := []struct {
		sel  string
		attr string
		want string
	}{
		{"#doc", "href", "guide/intro.md#setup"},
		{"#ext", "href", "https://example.org/page.html"},
		{"#frag", "href", "#top"},
		{"#pdf", "href", "files/manual.pdf"},
		{"#img", "src", "http://example.com/docs/img/logo.png"},
		{"link", "href", "http://example.com/docs/css/site.css"},
		{"script", "src", "http://example.com/js/app.js"},
	}

	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			got, ok := doc.Find(tt.sel).Attr(tt.attr)
			if !ok {
				t.Fatalf("%s has no %s attribute", tt.sel, tt.attr)
			}
			if got != tt.want {
				t.Errorf("%s[%s] = %q, want %q", tt.sel, tt.attr, got, tt.want)
			}
		})
	}
}

func TestTransformEmptyBase(t *testing.T) {
	doc := mustDoc(t, `<a href="page.htm">P</a><img src="a.png">`)
	if err := New("txt", "", nil).Transform(doc); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	if got, _ := doc.Find("a").Attr("href"); got != "page.txt" {
		t.Errorf("href = %q, want %q", got, "page.txt")
	}
	if got, _ := doc.Find("img").Attr("src"); got != "a.png" {
		t.Errorf("src = %q, want %q", got, "a.png")
	}
}

func TestTransformRepeatedAttribute(t *testing.T) {
	doc := mustDoc(t, `<a href="x">A</a>`)
	a := doc.Find("a").Get(0)
	a.Attr = []html.Attribute{
		{Key: "class", Val: "c"},
		{Key: "href", Val: "first.html"},
		{Key: "href", Val: "second.html"},
	}

	if err := New("md", "", nil).Transform(doc); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	var hrefs []string
	for _, attr := range a.Attr {
		if attr.Key == "href" {
			hrefs = append(hrefs, attr.Val)
		}
	}
	if len(hrefs) != 1 || hrefs[0] != "first.md" {
		t.Errorf("href values = %v, want [first.md]", hrefs)
	}
	if a.Attr[0].Key != "class" {
		t.Errorf("attribute order changed: %v", a.Attr)
	}
}
