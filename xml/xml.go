package xml

import "io"

// Parse tokenizes data in one pass and assembles it into a single root
// Element, stopping as soon as that root's matching end tag is seen
// (trailing data, if any, is ignored). It returns an error from the
// Parser if data is not well-formed, or a BuilderError if the event
// stream is structurally invalid (e.g. the input has no root element at
// all).
//
// Example:
//
//	root, err := xml.Parse(`<user id="123"><name>Alice</name></user>`)
//	if err != nil {
//	    // handle error
//	}
//	id, _ := root.AttributeWithName("id") // "123"
//	name, _ := root.ChildWithName("name")
//	fmt.Println(name.ContentStr()) // "Alice"
func Parse(data string) (*Element, error) {
	p := NewParser()
	b := NewElementBuilder()
	for _, r := range p.Feed(data) {
		if r.Err != nil {
			return nil, r.Err
		}
		if root, err := b.HandleEvent(r.Event); err != nil {
			return nil, err
		} else if root != nil {
			return root, nil
		}
	}
	return nil, &BuilderError{Kind: ErrNoElement}
}

// FromString is an alias for Parse, named to match the fluent
// construction methods on Element (Tag, Text, ...): build a tree either
// by parsing a string or by composing Elements directly.
//
// Example:
//
//	root, err := xml.FromString(`<a><b/></a>`)
//	if err != nil {
//	    // handle error
//	}
//	_, hasB := root.ChildWithName("b") // true
func FromString(data string) (*Element, error) {
	return Parse(data)
}

// ParseReader is like Parse, but reads from r incrementally rather than
// requiring the whole document in memory at once.
//
// Example parsing from a file:
//
//	file, err := os.Open("data.xml")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	root, err := xml.ParseReader(file)
func ParseReader(r io.Reader) (*Element, error) {
	p := NewParser()
	b := NewElementBuilder()

	var (
		root     *Element
		buildErr error
	)
	readErr := p.FeedReader(r, func(res Result) {
		if root != nil || buildErr != nil {
			return
		}
		if res.Err != nil {
			buildErr = res.Err
			return
		}
		if got, err := b.HandleEvent(res.Event); err != nil {
			buildErr = err
		} else if got != nil {
			root = got
		}
	})
	if readErr != nil {
		return nil, readErr
	}
	if buildErr != nil {
		return nil, buildErr
	}
	if root == nil {
		return nil, &BuilderError{Kind: ErrNoElement}
	}
	return root, nil
}

// Validate reports whether data begins with a well-formed root element,
// as Parse does; it discards the tree. Data after that root's end tag is
// not checked, so a second root element or trailing ill-formed text
// there is not reported.
//
// Example:
//
//	if err := xml.Validate(data); err != nil {
//	    log.Fatalf("not well-formed: %v", err)
//	}
func Validate(data string) error {
	_, err := Parse(data)
	return err
}

// ValidateReader is the io.Reader counterpart of Validate.
func ValidateReader(r io.Reader) error {
	_, err := ParseReader(r)
	return err
}
