package xml

import "testing"

func events(t *testing.T, input string) []Event {
	t.Helper()
	p := NewParser()
	var evs []Event
	for _, r := range p.Feed(input) {
		if r.Err != nil {
			t.Fatalf("Feed(%q) returned error: %v", input, r.Err)
		}
		evs = append(evs, r.Event)
	}
	return evs
}

func TestParserOpenTag(t *testing.T) {
	evs := events(t, "<a>")
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	st, ok := evs[0].(StartTag)
	if !ok || st.Local != "a" {
		t.Fatalf("got %#v, want StartTag{Local: \"a\"}", evs[0])
	}
}

func TestParserCloseTag(t *testing.T) {
	evs := events(t, "<a></a>")
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	if _, ok := evs[1].(EndTag); !ok {
		t.Fatalf("got %#v, want EndTag", evs[1])
	}
}

func TestParserSelfClosing(t *testing.T) {
	evs := events(t, "<a/>")
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	if _, ok := evs[0].(StartTag); !ok {
		t.Fatalf("evs[0] = %#v, want StartTag", evs[0])
	}
	if _, ok := evs[1].(EndTag); !ok {
		t.Fatalf("evs[1] = %#v, want EndTag", evs[1])
	}
}

func TestParserPI(t *testing.T) {
	evs := events(t, `<?xml version="1.0"?>`)
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	pi, ok := evs[0].(PI)
	if !ok || pi.Text != `xml version="1.0"` {
		t.Fatalf("got %#v", evs[0])
	}
}

func TestParserComment(t *testing.T) {
	evs := events(t, "<!-- hello -->")
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	c, ok := evs[0].(Comment)
	if !ok || c.Text != " hello " {
		t.Fatalf("got %#v", evs[0])
	}
}

func TestParserCDATA(t *testing.T) {
	evs := events(t, "<![CDATA[<not a tag>]]>")
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	c, ok := evs[0].(CDATA)
	if !ok || c.Text != "<not a tag>" {
		t.Fatalf("got %#v", evs[0])
	}
}

func TestParserEntityUnescape(t *testing.T) {
	evs := events(t, "<a>x &amp; y</a>")
	if len(evs) != 3 {
		t.Fatalf("got %d events, want 3", len(evs))
	}
	ch, ok := evs[1].(Characters)
	if !ok || ch.Text != "x & y" {
		t.Fatalf("got %#v", evs[1])
	}
}

func TestParserDoctypeSkipped(t *testing.T) {
	evs := events(t, `<!DOCTYPE html><a/>`)
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2 (doctype produces none), got %#v", len(evs), evs)
	}
}

func TestParserDoctypeInternalSubset(t *testing.T) {
	evs := events(t, `<!DOCTYPE a [ <!ENTITY x "y"> ]><a/>`)
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2, got %#v", len(evs), evs)
	}
}

func TestParserNamespaceAcrossChunks(t *testing.T) {
	p := NewParser()
	var evs []Event
	feed := func(s string) {
		for _, r := range p.Feed(s) {
			if r.Err != nil {
				t.Fatalf("Feed(%q) error: %v", s, r.Err)
			}
			evs = append(evs, r.Event)
		}
	}
	feed(`<a xmlns:p="urn:p">`)
	feed(`<p:b/>`)
	feed(`</a>`)

	if len(evs) != 4 {
		t.Fatalf("got %d events, want 4, got %#v", len(evs), evs)
	}
	inner, ok := evs[1].(StartTag)
	if !ok || inner.Local != "b" || inner.Prefix != "p" || inner.NS != "urn:p" {
		t.Fatalf("got %#v", evs[1])
	}
}

func TestParserDefaultNamespaceInherited(t *testing.T) {
	evs := events(t, `<a xmlns="urn:default"><b/></a>`)
	outer := evs[0].(StartTag)
	inner := evs[1].(StartTag)
	if outer.NS != "urn:default" || inner.NS != "urn:default" {
		t.Fatalf("got outer=%#v inner=%#v", outer, inner)
	}
}

func TestParserUnboundPrefixErrors(t *testing.T) {
	p := NewParser()
	results := p.Feed(`<p:a/>`)
	if len(results) == 0 || results[len(results)-1].Err == nil {
		t.Fatalf("expected an unbound prefix error, got %#v", results)
	}
	if results[len(results)-1].Err.Kind != ErrUnboundPrefix {
		t.Fatalf("got kind %v, want ErrUnboundPrefix", results[len(results)-1].Err.Kind)
	}
}

func TestParserAttributeValueNotQuoted(t *testing.T) {
	p := NewParser()
	results := p.Feed(`<a b=c>`)
	if len(results) == 0 || results[len(results)-1].Err == nil {
		t.Fatal("expected an error")
	}
	if results[len(results)-1].Err.Kind != ErrAttributeValueNotQuoted {
		t.Fatalf("got kind %v", results[len(results)-1].Err.Kind)
	}
}

func TestParserBareEndTag(t *testing.T) {
	evs := events(t, "</a>")
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1, got %#v", len(evs), evs)
	}
	et, ok := evs[0].(EndTag)
	if !ok || et.Local != "a" || et.NS != "" || et.Prefix != "" {
		t.Fatalf("got %#v, want EndTag{Local: \"a\"}", evs[0])
	}
}

func TestParserUnbalancedEndTagsDoNotPanic(t *testing.T) {
	evs := events(t, "</a></a>")
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2, got %#v", len(evs), evs)
	}
	for _, ev := range evs {
		if _, ok := ev.(EndTag); !ok {
			t.Fatalf("got %#v, want EndTag", ev)
		}
	}
}

func TestParserFeedByteAtATime(t *testing.T) {
	p := NewParser()
	input := `<a x="1"><b>text</b></a>`
	var evs []Event
	for _, c := range input {
		for _, r := range p.Feed(string(c)) {
			if r.Err != nil {
				t.Fatalf("byte-at-a-time feed error: %v", r.Err)
			}
			evs = append(evs, r.Event)
		}
	}
	if len(evs) != 5 {
		t.Fatalf("got %d events, want 5, got %#v", len(evs), evs)
	}
}
