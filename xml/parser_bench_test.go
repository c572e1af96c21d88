package xml

import "testing"

const benchDoc = `<catalog xmlns="urn:catalog" xmlns:a="urn:author">
  <book id="1" a:ref="42">
    <title>Go in Practice</title>
    <author>A. Writer</author>
  </book>
  <book id="2" a:ref="43">
    <title>More Go</title>
    <author>B. Writer</author>
  </book>
</catalog>`

func BenchmarkFeedWhole(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := NewParser()
		for _, r := range p.Feed(benchDoc) {
			if r.Err != nil {
				b.Fatalf("unexpected error: %v", r.Err)
			}
		}
	}
}

func BenchmarkFeedByteAtATime(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := NewParser()
		for _, c := range benchDoc {
			for _, r := range p.Feed(string(c)) {
				if r.Err != nil {
					b.Fatalf("unexpected error: %v", r.Err)
				}
			}
		}
	}
}

func BenchmarkParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(benchDoc); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	root, err := Parse(benchDoc)
	if err != nil {
		b.Fatalf("setup Parse failed: %v", err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Render(root)
	}
}
