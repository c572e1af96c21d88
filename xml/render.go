package xml

import (
	"fmt"
	"strings"
	"sync"

	"github.com/erszcz/RustyXML/internal/escape"
	"github.com/erszcz/RustyXML/internal/nsstack"
)

var builderPool = sync.Pool{
	New: func() any { return new(strings.Builder) },
}

// Render serializes e and its children back to XML text, re-declaring
// xmlns bindings exactly where they first become necessary as the tree
// is walked top-down — mirroring the namespace scoping rules the Parser
// applies on the way in.
func Render(e *Element) string {
	return renderTree(e, "")
}

// RenderIndent serializes e like Render, but inserts a newline and
// indent repeated once per depth before every child element's start tag,
// and before the end tag of an element whose children were indented that
// way, producing human-readable output. Mixed content (an element with
// both text and element children) is left unindented, and no whitespace
// is added inside an element without element children, to avoid
// introducing whitespace the source didn't have.
func RenderIndent(e *Element, indent string) string {
	return renderTree(e, indent)
}

// String renders e with no indentation.
func (e *Element) String() string {
	return Render(e)
}

func renderTree(e *Element, indent string) string {
	buf := builderPool.Get().(*strings.Builder)
	buf.Reset()
	defer builderPool.Put(buf)

	ns := nsstack.New()
	r := &renderer{buf: buf, ns: ns, indent: indent}
	r.element(e, 0)
	return buf.String()
}

type renderer struct {
	buf    *strings.Builder
	ns     *nsstack.Stack
	indent string
	nextNS int
}

func (r *renderer) newline(depth int) {
	if r.indent == "" {
		return
	}
	r.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		r.buf.WriteString(r.indent)
	}
}

func isMixedContent(e *Element) bool {
	hasText, hasElement := false, false
	for _, c := range e.Children {
		switch c.(type) {
		case CharacterData:
			hasText = true
		case *Element:
			hasElement = true
		}
	}
	return hasText && hasElement
}

func (r *renderer) element(e *Element, depth int) {
	r.ns.Push()
	defer r.ns.Pop()

	var decls []string

	if e.Prefix == "" {
		if cur, ok := r.ns.Resolve(""); !ok || cur != e.NS {
			if e.NS != "" || ok {
				r.ns.Bind("", e.NS)
				decls = append(decls, fmt.Sprintf(`xmlns="%s"`, escape.Escape(e.NS)))
			}
		}
	} else if cur, ok := r.ns.Resolve(e.Prefix); !ok || cur != e.NS {
		r.ns.Bind(e.Prefix, e.NS)
		decls = append(decls, fmt.Sprintf(`xmlns:%s="%s"`, e.Prefix, escape.Escape(e.NS)))
	}

	type renderedAttr struct {
		qname string
		value string
	}
	var attrs []renderedAttr
	for n, av := range e.Attributes {
		prefix := av.Prefix
		if prefix == "" && n.ns != "" {
			prefix = r.generatePrefix(n.ns, &decls)
		} else if prefix != "" {
			if cur, ok := r.ns.Resolve(prefix); !ok || cur != n.ns {
				r.ns.Bind(prefix, n.ns)
				decls = append(decls, fmt.Sprintf(`xmlns:%s="%s"`, prefix, escape.Escape(n.ns)))
			}
		}
		qname := n.local
		if prefix != "" {
			qname = prefix + ":" + n.local
		}
		attrs = append(attrs, renderedAttr{qname: qname, value: av.Value})
	}

	qname := e.Local
	if e.Prefix != "" {
		qname = e.Prefix + ":" + e.Local
	}

	r.buf.WriteByte('<')
	r.buf.WriteString(qname)
	for _, d := range decls {
		r.buf.WriteByte(' ')
		r.buf.WriteString(d)
	}
	for _, a := range attrs {
		r.buf.WriteByte(' ')
		r.buf.WriteString(a.qname)
		r.buf.WriteString(`="`)
		r.buf.WriteString(escape.Escape(a.value))
		r.buf.WriteByte('"')
	}

	if len(e.Children) == 0 {
		r.buf.WriteString("/>")
		return
	}
	r.buf.WriteByte('>')

	mixed := isMixedContent(e)
	indented := false
	for _, c := range e.Children {
		switch child := c.(type) {
		case CharacterData:
			r.buf.WriteString(escape.Escape(string(child)))
		case CDataNode:
			r.buf.WriteString("<![CDATA[")
			r.buf.WriteString(string(child))
			r.buf.WriteString("]]>")
		case CommentNode:
			r.buf.WriteString("<!--")
			r.buf.WriteString(string(child))
			r.buf.WriteString("-->")
		case PINode:
			r.buf.WriteString("<?")
			r.buf.WriteString(string(child))
			r.buf.WriteString("?>")
		case *Element:
			if !mixed {
				r.newline(depth + 1)
				indented = true
			}
			r.element(child, depth+1)
		}
	}
	if indented {
		r.newline(depth)
	}
	r.buf.WriteString("</")
	r.buf.WriteString(qname)
	r.buf.WriteByte('>')
}

// generatePrefix mints a prefix not already bound in scope for a
// namespaced attribute that carries no literal source prefix (e.g. one
// added with SetAttrNS), declares it, and returns it.
func (r *renderer) generatePrefix(ns string, decls *[]string) string {
	for {
		p := fmt.Sprintf("ns%d", r.nextNS)
		r.nextNS++
		if _, ok := r.ns.Resolve(p); !ok {
			r.ns.Bind(p, ns)
			*decls = append(*decls, fmt.Sprintf(`xmlns:%s="%s"`, p, escape.Escape(ns)))
			return p
		}
	}
}
