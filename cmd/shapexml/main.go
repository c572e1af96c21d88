// Command shapexml is a small demonstration CLI over the xml package: it
// can print a document's raw event stream, validate well-formedness, or
// parse and re-render a document tree.
package main

func main() {
	Execute()
}
