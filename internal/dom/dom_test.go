package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseBody(t *testing.T, fragment string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	body := FindBody(doc)
	if body == nil {
		t.Fatal("no body in parsed document")
	}
	return body
}

func TestSpan(t *testing.T) {
	n := Span("high", "カ")
	if !IsElement(n, "span") {
		t.Fatal("expected a span element")
	}
	if !HasClass(n, "high") {
		t.Error("expected class high")
	}
	if got := TextContent(n); got != "カ" {
		t.Errorf("expected text カ, got %q", got)
	}
}

func TestAttrAndSetAttr(t *testing.T) {
	n := Element("div", "")
	if _, ok := Attr(n, "id"); ok {
		t.Error("expected no id attribute")
	}
	SetAttr(n, "id", "a")
	SetAttr(n, "id", "b")
	if got, _ := Attr(n, "id"); got != "b" {
		t.Errorf("expected replaced value b, got %q", got)
	}
	if len(n.Attr) != 1 {
		t.Errorf("expected a single attribute, got %d", len(n.Attr))
	}
}

func TestHasClass_MultipleNames(t *testing.T) {
	n := Element("span", "word-info reading")
	if !HasClass(n, "reading") {
		t.Error("expected class reading to match")
	}
	if HasClass(n, "read") {
		t.Error("expected prefix not to match")
	}
}

func TestWalk_SkipsChildren(t *testing.T) {
	body := parseBody(t, `<div><ruby>漢<rt>かん</rt></ruby><p>after</p></div>`)
	var tags []string
	Walk(body, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		tags = append(tags, n.Data)
		return n.Data != "ruby"
	})
	for _, tag := range tags {
		if tag == "rt" {
			t.Error("expected rt to be skipped under ruby")
		}
	}
}

func TestReplaceWithAndDetach(t *testing.T) {
	body := parseBody(t, `<p>old</p>`)
	p := body.FirstChild
	repl := Span("x", "new")
	ReplaceWith(p, repl)
	if body.FirstChild != repl {
		t.Fatal("expected replacement in place")
	}
	Detach(repl)
	if body.FirstChild != nil {
		t.Error("expected empty body after detach")
	}
}

func TestTextContent_Trimmed(t *testing.T) {
	body := parseBody(t, "<p>  外<b>側</b>  </p>")
	if got := TextContent(body); got != "外側" {
		t.Errorf("expected 外側, got %q", got)
	}
}
