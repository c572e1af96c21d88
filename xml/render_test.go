package xml

import "testing"

func TestRenderSimple(t *testing.T) {
	e := NewElement("a", "")
	e.SetAttr("x", "1")
	e.Text("hello")

	got := Render(e)
	want := `<a x="1">hello</a>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderSelfClosing(t *testing.T) {
	e := NewElement("a", "")
	if got, want := Render(e), `<a/>`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderEscapesText(t *testing.T) {
	e := NewElement("a", "")
	e.Text("a & b < c")
	if got, want := Render(e), `<a>a &amp; b &lt; c</a>`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderDefaultNamespace(t *testing.T) {
	e := NewElement("a", "urn:default")
	if got, want := Render(e), `<a xmlns="urn:default"/>`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderCDataCommentPI(t *testing.T) {
	e := NewElement("a", "")
	e.PI("xml-stylesheet href=\"x\"").Comment("c").CDataText("<raw>")
	got := Render(e)
	want := `<a><?xml-stylesheet href="x"?><!--c--><![CDATA[<raw>]]></a>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderRoundTripsParse(t *testing.T) {
	input := `<a xmlns:p="urn:p"><p:b x="1">text</p:b></a>`
	root, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	rendered := Render(root)

	reparsed, err := Parse(rendered)
	if err != nil {
		t.Fatalf("Parse(Render(...)) error: %v on %q", err, rendered)
	}
	if reparsed.Local != root.Local || reparsed.NS != root.NS {
		t.Fatalf("root mismatch after round trip: %#v vs %#v", reparsed, root)
	}
	inner, ok := reparsed.ChildWithNameNS("b", "urn:p")
	if !ok {
		t.Fatalf("rendered form lost the namespaced child: %q", rendered)
	}
	if inner.ContentStr() != "text" {
		t.Fatalf("inner.ContentStr() = %q", inner.ContentStr())
	}
}
