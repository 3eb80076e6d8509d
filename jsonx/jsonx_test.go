package jsonx

import (
	"strings"
	"testing"

	flexml "github.com/flexml/flexml"
)

func TestRoundTrip(t *testing.T) {
	src := flexml.NewElement(flexml.NameNS("person", "urn:ex")).
		WithAttrs(flexml.Attr{Name: flexml.Name("id"), Value: "7"}).
		WithChildren(
			flexml.NewElement(flexml.Name("name")).WithChildren(flexml.Text("John")),
			flexml.CData("<raw>"),
			flexml.Comment("note"),
			flexml.ProcInst{Target: "pi", Data: "x"},
		)
	src.PreferredPrefix = "ex"

	data, err := Marshal(src)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !flexml.Equal(src, back) {
		t.Fatalf("round trip differs:\n%s", data)
	}
	if back.(*flexml.Element).PreferredPrefix != "ex" {
		t.Error("preferred prefix should survive the projection")
	}
}

func TestMarshalShape(t *testing.T) {
	data, err := Marshal(flexml.NewElement(flexml.NameNS("a", "urn:x")))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"kind":"element"`, `"local":"a"`, `"ns":"urn:x"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output missing %s:\n%s", want, data)
		}
	}

	data, err = Marshal(flexml.Text("hi"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := string(data); got != `{"kind":"text","text":"hi"}` {
		t.Errorf("text form = %s", got)
	}
}

func TestMarshalRejectsAttrNodes(t *testing.T) {
	if _, err := Marshal(flexml.Attr{Name: flexml.Name("a")}); err == nil {
		t.Fatal("standalone attribute nodes have no json form")
	}
}

func TestUnmarshalRejectsBadInput(t *testing.T) {
	cases := []string{
		`{"kind":"mystery"}`,
		`{"kind":"element"}`,
		`{"kind":"element","name":{"local":"a"},"children":[{"kind":"mystery"}]}`,
		`not json`,
	}
	for _, in := range cases {
		if _, err := Unmarshal([]byte(in)); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}
}
