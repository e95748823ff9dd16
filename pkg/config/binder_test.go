package config

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func mustParse(t *testing.T, doc string) *Element {
	t.Helper()
	el, err := ParseDocument(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return el
}

// mapResolver serves include references from an in-memory document set.
type mapResolver map[string]string

func (m mapResolver) Resolve(ref string) (*Element, error) {
	doc, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("unknown include %q", ref)
	}
	return ParseDocument(strings.NewReader(doc))
}

func TestParseDocument_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unterminated element", "<Server><Name>x</Name>"},
		{"mismatched tags", "<Server></Sever>"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDocument(strings.NewReader(tt.doc)); err == nil {
				t.Fatal("expected an error for a malformed document")
			}
		})
	}
}

func TestBinder_Bind(t *testing.T) {
	doc := mustParse(t, `
<Server version="11">
    <Name>edge-01</Name>
    <Type>edge</Type>
    <IP>*</IP>
    <Bind>
        <Managers>
            <API>
                <Port>8081</Port>
                <WorkerCount>4</WorkerCount>
            </API>
        </Managers>
    </Bind>
    <Managers>
        <API>
            <AccessToken>secret</AccessToken>
            <CrossDomains>
                <Url>https://a.example.com</Url>
                <Url>https://b.example.com</Url>
            </CrossDomains>
        </API>
    </Managers>
</Server>`)

	server := ServerSchema()
	binder := NewBinder(zerolog.Nop(), nil)
	if err := binder.Bind(server, doc); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	if v, parsed := server.GetString("version"); !parsed || v != "11" {
		t.Errorf("version attribute: got %q (parsed=%v)", v, parsed)
	}
	if v, parsed := server.GetString("Name"); !parsed || v != "edge-01" {
		t.Errorf("Name: got %q (parsed=%v)", v, parsed)
	}
	if v, parsed := server.GetEnum("Type"); !parsed || v != "edge" {
		t.Errorf("Type: got %q (parsed=%v)", v, parsed)
	}

	bind, _ := server.Child("Bind")
	managers, _ := bind.Child("Managers")
	api, _ := managers.Child("API")
	if port, parsed := api.GetInt("Port"); !parsed || port != 8081 {
		t.Errorf("Bind port: got %d (parsed=%v)", port, parsed)
	}
	if tlsPort, parsed := api.GetInt("TLSPort"); parsed || tlsPort != 0 {
		t.Errorf("absent TLSPort must stay at default: got %d (parsed=%v)", tlsPort, parsed)
	}

	mgr, _ := server.Child("Managers")
	mgrAPI, _ := mgr.Child("API")
	cross, _ := mgrAPI.Child("CrossDomains")
	urls, _ := cross.GetList("Url")
	got := urls.Strings()
	if len(got) != 2 || got[0] != "https://a.example.com" {
		t.Errorf("cross domain urls: %v", got)
	}

	// StunServer was not supplied at all.
	if _, parsed := server.GetString("StunServer"); parsed {
		t.Error("absent field must not be parsed")
	}
}

func TestBinder_UnknownContentIgnored(t *testing.T) {
	doc := mustParse(t, `
<Server mystery="1">
    <Name>edge-01</Name>
    <NoSuchElement>value</NoSuchElement>
</Server>`)

	server := ServerSchema()
	binder := NewBinder(zerolog.Nop(), nil)
	if err := binder.Bind(server, doc); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if v, _ := server.GetString("Name"); v != "edge-01" {
		t.Errorf("Name: got %q", v)
	}
}

func TestBinder_VirtualHostList(t *testing.T) {
	doc := mustParse(t, `
<Server>
    <VirtualHosts>
        <VirtualHost>
            <Name>default</Name>
            <Host><Names><Name>a.example.com</Name><Name>b.example.com</Name></Names></Host>
        </VirtualHost>
        <VirtualHost>
            <Name>second</Name>
        </VirtualHost>
    </VirtualHosts>
</Server>`)

	server := ServerSchema()
	binder := NewBinder(zerolog.Nop(), nil)
	if err := binder.Bind(server, doc); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	vhosts, _ := server.Child("VirtualHosts")
	list, _ := vhosts.GetList("VirtualHost")
	if list.Len() != 2 {
		t.Fatalf("got %d virtual hosts, want 2", list.Len())
	}

	first := list.Items()[0].(*Node)
	if name, _ := first.GetString("Name"); name != "default" {
		t.Errorf("first vhost name: %q", name)
	}
	host, _ := first.Child("Host")
	names, _ := host.Child("Names")
	nameList, _ := names.GetList("Name")
	if got := nameList.Strings(); len(got) != 2 || got[1] != "b.example.com" {
		t.Errorf("host names: %v", got)
	}

	second := list.Items()[1].(*Node)
	if name, _ := second.GetString("Name"); name != "second" {
		t.Errorf("second vhost name: %q", name)
	}
}

func TestBinder_IncludeLayering(t *testing.T) {
	resolver := mapResolver{
		"base.xml": `
<Server>
    <Name>base-name</Name>
    <IP>10.0.0.1</IP>
</Server>`,
	}

	doc := mustParse(t, `
<Server include="base.xml">
    <Name>local-name</Name>
</Server>`)

	server := ServerSchema()
	binder := NewBinder(zerolog.Nop(), resolver)
	if err := binder.Bind(server, doc); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	// Set in both documents: the including document wins.
	if name, _ := server.GetString("Name"); name != "local-name" {
		t.Errorf("local value must win over included: %q", name)
	}
	// Set only in the included document: layered in.
	if ip, parsed := server.GetString("IP"); !parsed || ip != "10.0.0.1" {
		t.Errorf("included default not layered: %q (parsed=%v)", ip, parsed)
	}
}

func TestBinder_IncludeListConcatenation(t *testing.T) {
	resolver := mapResolver{
		"base.xml": `
<Server>
    <VirtualHosts>
        <VirtualHost><Name>included</Name></VirtualHost>
    </VirtualHosts>
</Server>`,
	}

	doc := mustParse(t, `
<Server include="base.xml">
    <VirtualHosts>
        <VirtualHost><Name>local</Name></VirtualHost>
    </VirtualHosts>
</Server>`)

	server := ServerSchema()
	binder := NewBinder(zerolog.Nop(), resolver)
	if err := binder.Bind(server, doc); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	vhosts, _ := server.Child("VirtualHosts")
	list, ok := vhosts.GetList("VirtualHost")
	if !ok {
		t.Fatal("missing VirtualHost list")
	}
	// Lists concatenate across the include boundary, included items first.
	want := []string{"included", "local"}
	if list.Len() != len(want) {
		t.Fatalf("got %d items, want %d", list.Len(), len(want))
	}
	for i, item := range list.Items() {
		name, _ := item.(*Node).GetString("Name")
		if name != want[i] {
			t.Errorf("item %d: got %q, want %q", i, name, want[i])
		}
	}
}

func TestBinder_IncludeWithoutResolver(t *testing.T) {
	doc := mustParse(t, `<Server include="base.xml"/>`)

	binder := NewBinder(zerolog.Nop(), nil)
	if err := binder.Bind(ServerSchema(), doc); err == nil {
		t.Fatal("expected an error when no resolver is configured")
	}
}

func TestBinder_IncludeUnresolvable(t *testing.T) {
	doc := mustParse(t, `<Server include="missing.xml"/>`)

	binder := NewBinder(zerolog.Nop(), mapResolver{})
	if err := binder.Bind(ServerSchema(), doc); err == nil {
		t.Fatal("expected an error for an unresolvable include")
	}
}

func TestBinder_DuplicateScalarElementDiagnostic(t *testing.T) {
	doc := mustParse(t, `
<Server>
    <Name>first</Name>
    <Name>second</Name>
</Server>`)

	server := ServerSchema()
	binder := NewBinder(zerolog.Nop(), nil)
	if err := binder.Bind(server, doc); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	if name, _ := server.GetString("Name"); name != "first" {
		t.Errorf("got %q, want the first element to win", name)
	}
	if len(binder.Diagnostics()) == 0 {
		t.Error("expected a diagnostic for duplicated scalar elements")
	}
}

func TestBinder_AttributeBeatsElement(t *testing.T) {
	doc := mustParse(t, `<Server Name="attr-name"><Name>elem-name</Name></Server>`)

	server := ServerSchema()
	binder := NewBinder(zerolog.Nop(), nil)
	if err := binder.Bind(server, doc); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if name, _ := server.GetString("Name"); name != "attr-name" {
		t.Errorf("got %q, want the attribute to win", name)
	}
}
