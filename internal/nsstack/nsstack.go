// Package nsstack implements the namespace-binding stack shared by the
// tokenizer: one frame per open element, each frame mapping a prefix (the
// empty string for the default namespace) to a bound URI.
package nsstack

// XMLNamespaceURI and XMLNSNamespaceURI are the two namespaces XML itself
// reserves; every Stack starts with them bound in its bottom, immutable
// frame.
const (
	XMLNamespaceURI   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespaceURI = "http://www.w3.org/2000/xmlns/"
)

// frame is one level of the prefix -> URI binding stack, corresponding to
// one open element (or, at index 0, the fixed set of reserved bindings).
type frame map[string]string

// Stack is an ordered stack of namespace frames. The zero value is not
// usable; construct one with New.
type Stack struct {
	frames []frame
}

// New returns a Stack with exactly the fixed bottom frame populated: the
// "xml" and "xmlns" prefixes bound to their reserved URIs. This frame is
// never popped.
func New() *Stack {
	return &Stack{
		frames: []frame{
			{
				"xml":   XMLNamespaceURI,
				"xmlns": XMLNSNamespaceURI,
			},
		},
	}
}

// Push opens a new, initially empty frame, e.g. on entering a start tag's
// attribute region.
func (s *Stack) Push() {
	s.frames = append(s.frames, frame{})
}

// Pop discards the top frame. Called when only the bottom frame remains
// (an unbalanced end tag with no matching start tag), it is a no-op: the
// fixed bottom frame is never discarded. This mirrors the Rust original,
// where popping the backing Vec never panics.
func (s *Stack) Pop() {
	if len(s.frames) <= 1 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of frames currently on the stack, including
// the fixed bottom frame.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Bind installs a prefix -> uri binding in the top frame. Use the empty
// string as prefix for the default namespace.
func (s *Stack) Bind(prefix, uri string) {
	s.frames[len(s.frames)-1][prefix] = uri
}

// Resolve searches frames top-down for a binding of prefix. A binding to
// the empty string means "no namespace" and is reported as unbound (ok
// == false, uri == ""), matching the Rust original's
// namespace_for_prefix, which treats an empty binding the same as no
// binding.
func (s *Stack) Resolve(prefix string) (uri string, ok bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if u, found := s.frames[i][prefix]; found {
			if u == "" {
				return "", false
			}
			return u, true
		}
	}
	return "", false
}
