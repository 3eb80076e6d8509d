package wire

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	flexml "github.com/flexml/flexml"
)

// Writer is a Serializer emitting XML syntax to an io.Writer. Prefix
// spellings go through Scope.ChoosePrefix, so an already-bound namespace
// is reused rather than redeclared, and enforced prefixes win over
// inherited ones.
type Writer struct {
	out   io.Writer
	scope *flexml.Scope
}

// NewWriter returns a Writer emitting at the given scope. A nil scope is
// the empty root scope.
func NewWriter(w io.Writer, scope *flexml.Scope) *Writer {
	return &Writer{out: w, scope: scope}
}

// Encode serializes v to w as XML.
func Encode(w io.Writer, v flexml.Marshaler) error {
	return v.MarshalXML(NewWriter(w, nil))
}

// EncodeNode serializes an already-built node to w.
func EncodeNode(w io.Writer, n flexml.Node) error {
	return flexml.WriteNode(NewWriter(w, nil), n)
}

// MarshalString serializes v and returns the markup.
func MarshalString(v flexml.Marshaler) (string, error) {
	var b strings.Builder
	if err := Encode(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// NodeString serializes a node tree and returns the markup.
func NodeString(n flexml.Node) (string, error) {
	var b strings.Builder
	if err := EncodeNode(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (w *Writer) Scope() *flexml.Scope { return w.scope }

func (w *Writer) WriteText(text string) error {
	return w.escape(text)
}

func (w *Writer) WriteCData(data string) error {
	if strings.Contains(data, "]]>") {
		return flexml.Issues{{Code: flexml.CodeCustom, Message: "cdata section cannot contain \"]]>\""}}
	}
	return w.raw("<![CDATA[" + data + "]]>")
}

func (w *Writer) WriteComment(text string) error {
	if strings.Contains(text, "--") {
		return flexml.Issues{{Code: flexml.CodeCustom, Message: "comment cannot contain \"--\""}}
	}
	return w.raw("<!--" + text + "-->")
}

func (w *Writer) WriteProcInst(target, data string) error {
	if strings.Contains(data, "?>") {
		return flexml.Issues{{Code: flexml.CodeCustom, Message: "processing instruction cannot contain \"?>\""}}
	}
	if err := flexml.CheckName(target); err != nil {
		return err
	}
	s := "<?" + target
	if data != "" {
		s += " " + data
	}
	return w.raw(s + "?>")
}

func (w *Writer) WriteElement(name flexml.ExpandedName) (flexml.ElementWriter, error) {
	if err := flexml.CheckName(name.Local); err != nil {
		return nil, err
	}
	return &tagWriter{w: w, name: name}, nil
}

func (w *Writer) raw(s string) error {
	_, err := io.WriteString(w.out, s)
	return errors.Wrap(err, "writing markup")
}

func (w *Writer) escape(s string) error {
	var b bytes.Buffer
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return errors.Wrap(err, "escaping text")
	}
	_, err := w.out.Write(b.Bytes())
	return errors.Wrap(err, "writing text")
}

type tagWriterState int

const (
	twOpen tagWriterState = iota
	twChildren
	twDone
)

// tagWriter buffers one element's prefix policy and attributes until the
// content starts, because the start tag (prefix choice plus xmlns
// declarations) cannot be spelled before both are known.
type tagWriter struct {
	w         *Writer
	name      flexml.ExpandedName
	preferred string
	enforce   bool
	attrs     []flexml.Attr
	state     tagWriterState

	tag   string        // spelled element name, set by open
	inner *flexml.Scope // scope inside the element
	decls [][2]string   // xmlns declarations to emit, prefix/uri pairs
}

func (t *tagWriter) SetPrefix(preferred string, enforce bool) error {
	if t.state != twOpen || len(t.attrs) > 0 {
		return flexml.Issues{{Code: flexml.CodeCustom, Message: "prefix policy must be set before attributes"}}
	}
	t.preferred = preferred
	t.enforce = enforce
	return nil
}

func (t *tagWriter) WriteAttr(name flexml.ExpandedName, value string) error {
	if t.state != twOpen {
		return flexml.Issues{{Code: flexml.CodeCustom, Message: "attribute written after element content started"}}
	}
	if err := flexml.CheckName(name.Local); err != nil {
		return err
	}
	t.attrs = append(t.attrs, flexml.Attr{Name: name, Value: value})
	return nil
}

// open spells the start tag up to (but excluding) its closing ">".
func (t *tagWriter) open() error {
	scope := t.w.scope
	prefix, scope, declared := scope.ChoosePrefix(t.name.Namespace, t.preferred, t.enforce)
	if declared {
		t.decls = append(t.decls, [2]string{prefix, t.name.Namespace})
	}
	t.tag = spell(prefix, t.name.Local)

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(t.tag)
	for _, a := range t.attrs {
		var apfx string
		if a.Name.Namespace != "" {
			// Attributes never take the default prefix; an unprefixed
			// attribute is always in no namespace.
			apfx, scope = t.attrPrefix(scope, a.Name.Namespace)
		}
		b.WriteByte(' ')
		b.WriteString(spell(apfx, a.Name.Local))
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Value))
		b.WriteByte('"')
	}
	for _, d := range t.decls {
		b.WriteByte(' ')
		if d[0] == "" {
			b.WriteString("xmlns")
		} else {
			b.WriteString("xmlns:" + d[0])
		}
		b.WriteString(`="` + escapeAttr(d[1]) + `"`)
	}
	t.inner = scope
	return t.w.raw(b.String())
}

// attrPrefix finds or allocates a non-empty prefix for an attribute
// namespace, recording any new declaration.
func (t *tagWriter) attrPrefix(scope *flexml.Scope, uri string) (string, *flexml.Scope) {
	if p, ok := scope.PrefixOf(uri); ok && p != "" {
		return p, scope
	}
	for i := 0; ; i++ {
		candidate := "ns" + strconv.Itoa(i)
		if _, taken := scope.Lookup(candidate); taken {
			continue
		}
		t.decls = append(t.decls, [2]string{candidate, uri})
		return candidate, scope.Bind(candidate, uri)
	}
}

func (t *tagWriter) Children() (flexml.Serializer, error) {
	if t.state != twOpen {
		return nil, flexml.Issues{{Code: flexml.CodeCustom, Message: "element content already started"}}
	}
	if err := t.open(); err != nil {
		return nil, err
	}
	if err := t.w.raw(">"); err != nil {
		return nil, err
	}
	t.state = twChildren
	return &Writer{out: t.w.out, scope: t.inner}, nil
}

func (t *tagWriter) End() error {
	switch t.state {
	case twDone:
		return flexml.Issues{{Code: flexml.CodeCustom, Message: "element already ended"}}
	case twOpen:
		if err := t.open(); err != nil {
			return err
		}
		t.state = twDone
		return t.w.raw("/>")
	default:
		t.state = twDone
		return t.w.raw("</" + t.tag + ">")
	}
}

func spell(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

func escapeAttr(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
