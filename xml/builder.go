package xml

import "fmt"

// name is a namespace-qualified name used as an attribute or child lookup
// key: a local name paired with the (possibly empty) namespace URI it
// resolved against.
type name struct {
	local string
	ns    string
}

// XML is a node in a tree assembled by ElementBuilder: either an Element,
// CharacterData, or a CDATA/Comment/PI leaf. It mirrors Event's closed
// shape but at the tree level rather than the stream level.
type XML interface {
	xmlNode()
}

// CharacterData is a run of text content between element boundaries.
type CharacterData string

// CDataNode is the verbatim content of a CDATA section kept as a tree
// child, distinguishable from ordinary CharacterData so Render can
// reproduce it as <![CDATA[ ... ]]>.
type CDataNode string

// CommentNode is a tree child holding a comment's text.
type CommentNode string

// PINode is a tree child holding a processing instruction's text.
type PINode string

func (CharacterData) xmlNode() {}
func (CDataNode) xmlNode()     {}
func (CommentNode) xmlNode()   {}
func (PINode) xmlNode()        {}
func (*Element) xmlNode()      {}

// AttrValue is an attribute's value together with the literal prefix (if
// any) the source used for it, kept so Render can reproduce the same
// qualified name rather than inventing a new prefix.
type AttrValue struct {
	Prefix string
	Value  string
}

// Element is one assembled element: its qualified name, resolved
// namespace, the literal prefix (if any) the source used for it, its
// attributes keyed by (local, namespace), and its ordered children.
type Element struct {
	Local  string
	NS     string
	Prefix string

	Attributes map[name]AttrValue
	Children   []XML

	parent *Element
}

// NewElement returns an empty, unattached Element with the given local
// name and namespace.
//
// Example building a tree by hand rather than parsing one:
//
//	root := xml.NewElement("user", "")
//	root.SetAttr("id", "123").Tag("name", "").Text("Alice")
//	out := xml.Render(root) // `<user id="123"><name>Alice</name></user>`
func NewElement(local, ns string) *Element {
	return &Element{
		Local:      local,
		NS:         ns,
		Attributes: make(map[name]AttrValue),
	}
}

// ContentStr concatenates the text of every direct CharacterData child,
// in document order, ignoring nested elements, comments, and PIs.
func (e *Element) ContentStr() string {
	var s string
	for _, c := range e.Children {
		if cd, ok := c.(CharacterData); ok {
			s += string(cd)
		}
	}
	return s
}

// AttributeWithName returns the value of the unnamespaced attribute
// local, and whether it was present.
func (e *Element) AttributeWithName(local string) (string, bool) {
	return e.AttributeWithNameNS(local, "")
}

// AttributeWithNameNS returns the value of the attribute (local, ns), and
// whether it was present.
func (e *Element) AttributeWithNameNS(local, ns string) (string, bool) {
	v, ok := e.Attributes[name{local: local, ns: ns}]
	return v.Value, ok
}

// SetAttr sets an unnamespaced attribute and returns the receiver, for
// chaining.
func (e *Element) SetAttr(local, value string) *Element {
	return e.SetAttrNS(local, "", value)
}

// SetAttrNS sets a namespaced attribute and returns the receiver, for
// chaining. Render assigns this attribute a generated prefix if ns is
// non-empty, since no literal source prefix is available for a
// programmatically built attribute.
func (e *Element) SetAttrNS(local, ns, value string) *Element {
	e.Attributes[name{local: local, ns: ns}] = AttrValue{Value: value}
	return e
}

// ChildWithName returns the first direct child element with the given
// unnamespaced local name.
func (e *Element) ChildWithName(local string) (*Element, bool) {
	return e.ChildWithNameNS(local, "")
}

// ChildWithNameNS returns the first direct child element matching
// (local, ns).
func (e *Element) ChildWithNameNS(local, ns string) (*Element, bool) {
	for _, c := range e.Children {
		if ce, ok := c.(*Element); ok && ce.Local == local && ce.NS == ns {
			return ce, true
		}
	}
	return nil, false
}

// ChildrenWithName returns every direct child element with the given
// unnamespaced local name, in document order.
func (e *Element) ChildrenWithName(local string) []*Element {
	return e.ChildrenWithNameNS(local, "")
}

// ChildrenWithNameNS returns every direct child element matching (local,
// ns), in document order.
func (e *Element) ChildrenWithNameNS(local, ns string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if ce, ok := c.(*Element); ok && ce.Local == local && ce.NS == ns {
			out = append(out, ce)
		}
	}
	return out
}

// Tag appends a new child element (local, ns) to e and returns the
// child, for building downward.
func (e *Element) Tag(local, ns string) *Element {
	child := NewElement(local, ns)
	child.parent = e
	e.Children = append(e.Children, child)
	return child
}

// TagStay appends a new child element like Tag, but returns the receiver
// instead of the child, for building a sequence of siblings.
func (e *Element) TagStay(local, ns string) *Element {
	e.Tag(local, ns)
	return e
}

// Text appends a character data child and returns the receiver.
func (e *Element) Text(text string) *Element {
	e.Children = append(e.Children, CharacterData(text))
	return e
}

// CDataText appends a CDATA child and returns the receiver.
func (e *Element) CDataText(text string) *Element {
	e.Children = append(e.Children, CDataNode(text))
	return e
}

// Comment appends a comment child and returns the receiver.
func (e *Element) Comment(text string) *Element {
	e.Children = append(e.Children, CommentNode(text))
	return e
}

// PI appends a processing instruction child and returns the receiver.
func (e *Element) PI(text string) *Element {
	e.Children = append(e.Children, PINode(text))
	return e
}

// Parent returns the element's parent, or nil at the root.
func (e *Element) Parent() *Element {
	return e.parent
}

// BuilderErrorKind classifies a structural error raised while assembling
// a tree from an event stream, as opposed to a tokenizing error from the
// Parser itself.
type BuilderErrorKind int

const (
	// ErrNoElement is raised when HandleEvent sees an EndTag while no
	// element is open, and by Parse and ParseReader when the input ends
	// before any root element has completed.
	ErrNoElement BuilderErrorKind = iota
	// ErrUnmatchedEndTag is raised when an EndTag's name doesn't match
	// the currently open element.
	ErrUnmatchedEndTag
)

// BuilderError is a structural error from ElementBuilder.HandleEvent.
type BuilderError struct {
	Kind BuilderErrorKind
	Want string
	Got  string
}

func (e *BuilderError) Error() string {
	switch e.Kind {
	case ErrNoElement:
		return "xml: no element"
	case ErrUnmatchedEndTag:
		return fmt.Sprintf("xml: unmatched end tag: want %q, got %q", e.Want, e.Got)
	default:
		return "xml: builder error"
	}
}

// ElementBuilder consumes a Parser's Event stream and assembles Element
// trees. A single ElementBuilder may build several trees in succession:
// once a root element's matching EndTag is seen, HandleEvent returns that
// completed root, and the builder resets to await a new one; any
// top-level Characters, CDATA, Comment, or PI events between roots are
// discarded.
type ElementBuilder struct {
	root    *Element
	current *Element
}

// NewElementBuilder returns an empty ElementBuilder.
func NewElementBuilder() *ElementBuilder {
	return &ElementBuilder{}
}

// HandleEvent folds one Event into the tree under construction. It
// returns a non-nil *Element exactly when ev's processing completed a
// root element (i.e. ev was the EndTag matching the outermost StartTag);
// callers building one document at a time should stop feeding further
// events once they receive a root. If ev's processing finds the input
// ill-formed from a structural standpoint (unmatched tags), err is
// non-nil and root is nil.
func (b *ElementBuilder) HandleEvent(ev Event) (root *Element, err error) {
	switch e := ev.(type) {
	case StartTag:
		child := NewElement(e.Local, e.NS)
		child.Prefix = e.Prefix
		for _, a := range e.Attributes {
			child.Attributes[name{local: a.Local, ns: a.NS}] = AttrValue{Prefix: a.Prefix, Value: a.Value}
		}
		if b.current == nil {
			b.root = child
			b.current = child
		} else {
			child.parent = b.current
			b.current.Children = append(b.current.Children, child)
			b.current = child
		}
		return nil, nil

	case EndTag:
		if b.current == nil {
			return nil, &BuilderError{Kind: ErrNoElement}
		}
		if b.current.Local != e.Local || b.current.NS != e.NS {
			return nil, &BuilderError{Kind: ErrUnmatchedEndTag, Want: b.current.Local, Got: e.Local}
		}
		finished := b.current
		b.current = finished.parent
		if b.current == nil {
			b.root = nil
			return finished, nil
		}
		return nil, nil

	case Characters:
		if b.current != nil {
			b.current.Children = append(b.current.Children, CharacterData(e.Text))
		}
		return nil, nil

	case CDATA:
		if b.current != nil {
			b.current.Children = append(b.current.Children, CDataNode(e.Text))
		}
		return nil, nil

	case Comment:
		if b.current != nil {
			b.current.Children = append(b.current.Children, CommentNode(e.Text))
		}
		return nil, nil

	case PI:
		if b.current != nil {
			b.current.Children = append(b.current.Children, PINode(e.Text))
		}
		return nil, nil

	default:
		return nil, nil
	}
}
