package config

import "testing"

func TestBoolValue_ParseFromAttribute(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"no", false},
		{"off", false},
		{"0", false},
		{"", false},
		{"not-a-bool", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			b := NewBool()
			b.ParseFromAttribute(tt.text)

			if !b.IsParsed() {
				t.Error("expected value to be marked parsed")
			}
			if b.Bool() != tt.want {
				t.Errorf("got %v, want %v", b.Bool(), tt.want)
			}
		})
	}
}

func TestValue_DefaultText(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"bool", NewBool(), "false"},
		{"int", NewInt(), "0"},
		{"float", NewFloat(), "0"},
		{"string", NewString(), ""},
		{"enum", NewEnum("origin", "edge"), "origin"},
		{"list", NewList(NewString()), "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.value.Reset()
			if got := tt.value.Format(0, false); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if tt.value.IsParsed() {
				t.Error("reset value must not be parsed")
			}
		})
	}
}

func TestValue_ResetIsIdempotent(t *testing.T) {
	i := NewInt()
	i.ParseFromAttribute("42")

	i.Reset()
	once := i.Format(0, false)
	i.Reset()
	twice := i.Format(0, false)

	if once != twice || once != "0" {
		t.Errorf("reset not idempotent: %q then %q", once, twice)
	}
	if i.IsParsed() {
		t.Error("reset value must not be parsed")
	}
}

func TestValue_MalformedTextFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		text  string
		want  string
	}{
		{"int", NewInt(), "twelve", "0"},
		{"float", NewFloat(), "1.2.3", "0"},
		{"enum", NewEnum("live", "vod"), "broadcast", "live"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.value.ParseFromAttribute(tt.text)
			if !tt.value.IsParsed() {
				t.Error("presence wins over validity: value must be parsed")
			}
			if got := tt.value.Format(0, false); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFromValue_SameKind(t *testing.T) {
	src := NewInt()
	src.ParseFromAttribute("8080")

	dst := NewInt()
	if err := dst.ParseFromValue(src); err != nil {
		t.Fatalf("same-kind copy failed: %v", err)
	}
	if dst.Int() != 8080 {
		t.Errorf("got %d, want 8080", dst.Int())
	}
	if !dst.IsParsed() {
		t.Error("copied value must be parsed")
	}
}

func TestParseFromValue_KindMismatch(t *testing.T) {
	src := NewString()
	src.ParseFromAttribute("edge1")

	dst := NewInt()
	dst.ParseFromAttribute("99")

	if err := dst.ParseFromValue(src); err != ErrKindMismatch {
		t.Fatalf("got %v, want ErrKindMismatch", err)
	}
	if dst.Int() != 99 {
		t.Errorf("failed copy must not mutate the target, got %d", dst.Int())
	}
	if src.Str() != "edge1" {
		t.Errorf("failed copy must not mutate the source, got %q", src.Str())
	}
}

func TestEnumValue_CanonicalCasing(t *testing.T) {
	e := NewEnum("Origin", "Edge")
	e.ParseFromAttribute("edge")

	if got := e.Token(); got != "Edge" {
		t.Errorf("got %q, want declared casing %q", got, "Edge")
	}
	if !e.Is("EDGE") {
		t.Error("Is must match case-insensitively")
	}
}

func TestEnumValue_DifferentTokenSetsAreDifferentKinds(t *testing.T) {
	a := NewEnum("origin", "edge")
	a.ParseFromAttribute("edge")

	b := NewEnum("live", "vod")
	if err := b.ParseFromValue(a); err != ErrKindMismatch {
		t.Fatalf("got %v, want ErrKindMismatch", err)
	}
	if b.Token() != "live" {
		t.Errorf("failed copy mutated target: %q", b.Token())
	}
}

func TestListValue_ParseFromValue(t *testing.T) {
	src := NewList(NewString())
	src.ParseFromAttribute("a.example.com")
	src.ParseFromAttribute("b.example.com")

	dst := NewList(NewString())
	if err := dst.ParseFromValue(src); err != nil {
		t.Fatalf("same-shape list copy failed: %v", err)
	}
	got := dst.Strings()
	if len(got) != 2 || got[0] != "a.example.com" || got[1] != "b.example.com" {
		t.Errorf("unexpected items: %v", got)
	}

	other := NewList(NewInt())
	if err := other.ParseFromValue(src); err != ErrKindMismatch {
		t.Fatalf("got %v, want ErrKindMismatch for differently shaped lists", err)
	}
	if other.Len() != 0 {
		t.Errorf("failed copy mutated target: %d items", other.Len())
	}
}

func TestFrozenValue_MutationPanics(t *testing.T) {
	node := NewNode("Server").AddField("Name", NewString())
	node.Freeze()

	v, _ := node.Get("Name")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mutating a frozen value")
		}
	}()
	v.ParseFromAttribute("edge1")
}

func TestFrozenNode_ResetPanics(t *testing.T) {
	node := NewNode("Server").AddField("Port", NewInt())
	node.Freeze()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on resetting a frozen node")
		}
	}()
	node.Reset()
}

func TestNode_FreezeIsRecursive(t *testing.T) {
	inner := NewNode("Bind").AddField("Port", NewInt())
	outer := NewNode("Server").AddNode(inner)
	outer.Freeze()

	if !inner.Frozen() {
		t.Error("freeze must propagate to descendants")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mutating a frozen descendant")
		}
	}()
	v, _ := inner.Get("Port")
	v.ParseFromAttribute("1")
}

func TestNode_ParseFromValue_LayersParsedFieldsOnly(t *testing.T) {
	schema := func() *Node {
		return NewNode("Host").
			AddField("Name", NewString()).
			AddField("Port", NewInt())
	}

	src := schema()
	if v, ok := src.Get("Name"); ok {
		v.ParseFromAttribute("base")
	}

	dst := schema()
	if v, ok := dst.Get("Port"); ok {
		v.ParseFromAttribute("9000")
	}

	if err := dst.ParseFromValue(src); err != nil {
		t.Fatalf("layering failed: %v", err)
	}

	if name, parsed := dst.GetString("Name"); !parsed || name != "base" {
		t.Errorf("parsed source field not layered: %q (parsed=%v)", name, parsed)
	}
	if port, _ := dst.GetInt("Port"); port != 9000 {
		t.Errorf("unparsed source field overwrote target: %d", port)
	}
}

func TestNode_CloneSchemaIsUnbound(t *testing.T) {
	n := NewNode("Server").AddField("Name", NewString())
	if v, ok := n.Get("Name"); ok {
		v.ParseFromAttribute("edge1")
	}
	n.Freeze()

	clone := n.CloneSchema()
	if clone.Frozen() {
		t.Error("clone must be mutable")
	}
	if name, parsed := clone.GetString("Name"); parsed || name != "" {
		t.Errorf("clone must be at defaults: %q (parsed=%v)", name, parsed)
	}
}

func TestNode_DuplicateFieldPanics(t *testing.T) {
	n := NewNode("Server").AddField("Name", NewString())

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate field name")
		}
	}()
	n.AddField("Name", NewString())
}
