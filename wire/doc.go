// Package wire connects the node model to XML syntax: parsing documents
// into node trees, serializing node trees (or Marshaler values) back to
// markup, and selecting subtrees by XPath.
//
// Parsing delegates to xmlquery and rebuilds namespace scopes from the
// xmlns declarations it finds; writing is done directly so prefix choice
// stays under Scope.ChoosePrefix control.
package wire
