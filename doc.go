// Package flexml maps typed values to and from XML documents by
// trial-and-error structural matching instead of an order-rigid grammar.
//
// It provides:
//
// - A format-level node model (Element/Attr/Text/CData/Comment/ProcInst)
//   with namespace-qualified names and immutable, chained prefix scopes
// - Serializer/Deserializer protocols that values write themselves through,
//   including a peekable, checkpoint/rollback Cursor over sibling nodes
// - A slot matcher (shape/) that reconciles declared fields against live
//   input under configurable ordering and unknown-content policies
// - A variant resolver (shape/) that tries sum-type alternatives in order
// - A stable error model via Issues (path, code, message)
//
// Design policy:
// - Keep the data model, protocols, and error model in the root package.
// - Place the matching engine under shape/, declarative shape descriptors
//   under shapeconf/, the wire backend under wire/, and the JSON projection
//   of node trees under jsonx/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	el, err := wire.Parse(r)
//	res, err := shape.Match(flexml.NewCursor(el.Children), slots, shape.Policy{})
//
//	n, err := flexml.ToNode(value)
//	err = wire.EncodeNode(w, n)
package flexml
