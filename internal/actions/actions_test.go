package actions

import (
	"io"
	"log/slog"
	"testing"

	"github.com/danielfarrell/gatsby/internal/changedetect"
	"github.com/danielfarrell/gatsby/internal/deps"
	"github.com/danielfarrell/gatsby/internal/event"
	"github.com/danielfarrell/gatsby/internal/graph"
	"github.com/danielfarrell/gatsby/internal/identity"
	"github.com/danielfarrell/gatsby/internal/model"
	"github.com/danielfarrell/gatsby/internal/ownership"
)

type stubLayouts struct {
	def string
}

func (s stubLayouts) DefaultLayout() (string, bool) {
	return s.def, s.def != ""
}

func newFixture(t *testing.T, program Program, layouts LayoutResolver) (*Actions, *graph.Store) {
	t.Helper()
	store := graph.NewStore()
	a := New(Config{
		Registry:   ownership.NewRegistry(),
		Graph:      store,
		Classifier: changedetect.NewClassifier(store),
		Tracker:    deps.NewTracker(),
		Program:    program,
		Layouts:    layouts,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return a, store
}

func newNode(id, typ, digest string) *model.Node {
	return &model.Node{
		ID:       id,
		Internal: model.Internal{Type: typ, ContentDigest: digest},
	}
}

// mustApply pushes an OK result's event into the store the way the
// session reducer would.
func mustApply(t *testing.T, store *graph.Store, res Result) *event.Event {
	t.Helper()
	if !res.OK() {
		t.Fatalf("expected OK result, got %v: %v", res.Severity, res.Diag)
	}
	if err := store.Apply(*res.Event); err != nil {
		t.Fatal(err)
	}
	return res.Event
}

func TestCreateNode_EmitsCreateEvent(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	res := a.CreateNode(newNode("post-1", "Post", "d1"), "source-fs", "t1")
	if !res.OK() {
		t.Fatalf("create rejected: %v", res.Diag)
	}
	if res.Event.Kind != event.CreateNode {
		t.Errorf("kind = %s, want CreateNode", res.Event.Kind)
	}
	if res.Event.Plugin != "source-fs" || res.Event.TraceID != "t1" {
		t.Errorf("event tagging = %q/%q", res.Event.Plugin, res.Event.TraceID)
	}

	n := res.Event.Payload.(*model.Node)
	if n.Internal.Owner != "source-fs" {
		t.Errorf("owner = %q, want source-fs", n.Internal.Owner)
	}
	if n.ID == "post-1" {
		t.Error("plugin-submitted id should be namespaced")
	}
}

func TestCreateNode_SubmittedRecordUntouched(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	n := newNode("post-1", "Post", "d1")
	a.CreateNode(n, "source-fs", "")
	if n.ID != "post-1" || n.Internal.Owner != "" {
		t.Errorf("caller's record was mutated: id=%q owner=%q", n.ID, n.Internal.Owner)
	}
}

func TestCreateNode_Nil(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	res := a.CreateNode(nil, "p", "")
	if res.Severity != SeverityReported {
		t.Fatalf("severity = %v, want reported", res.Severity)
	}
}

func TestCreateNode_OwnerReserved(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	n := newNode("x", "Post", "d")
	n.Internal.Owner = "forged"
	res := a.CreateNode(n, "p", "")
	if res.Severity != SeverityFatal {
		t.Fatalf("severity = %v, want fatal", res.Severity)
	}
	if res.Diag.Code != "create-node/owner-reserved" {
		t.Errorf("code = %q", res.Diag.Code)
	}
	if res.Diag.Record == nil {
		t.Error("diagnostic should carry the submitted record")
	}
}

func TestCreateNode_FieldsReserved(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	n := newNode("x", "Post", "d")
	n.Fields = map[string]any{"slug": "/x"}
	res := a.CreateNode(n, "p", "")
	if res.Severity != SeverityFatal {
		t.Fatalf("severity = %v, want fatal", res.Severity)
	}
	if res.Diag.Code != "create-node/fields-reserved" {
		t.Errorf("code = %q", res.Diag.Code)
	}
}

func TestCreateNode_Invalid(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	res := a.CreateNode(newNode("x", "Post", ""), "p", "")
	if res.Severity != SeverityReported {
		t.Fatalf("severity = %v, want reported", res.Severity)
	}
	if res.Diag.Code != "create-node/invalid" {
		t.Errorf("code = %q", res.Diag.Code)
	}
}

func TestCreateNode_TypeOwnedByOtherPlugin(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "plugin-a", ""))

	res := a.CreateNode(newNode("b", "Post", "d2"), "plugin-b", "")
	if res.Severity != SeverityFatal {
		t.Fatalf("severity = %v, want fatal", res.Severity)
	}
	if res.Diag.Code != "create-node/type-owned" {
		t.Errorf("code = %q", res.Diag.Code)
	}
	if res.Diag.OtherPlugin != "plugin-a" {
		t.Errorf("other plugin = %q, want plugin-a", res.Diag.OtherPlugin)
	}
}

func TestCreateNode_SamePluginMoreNodes(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "plugin-a", ""))
	if res := a.CreateNode(newNode("b", "Post", "d2"), "plugin-a", ""); !res.OK() {
		t.Fatalf("owner's second node rejected: %v", res.Diag)
	}
}

func TestCreateNode_OwnerConflict(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	ev := mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "plugin-a", ""))
	derived := ev.Payload.(*model.Node).ID

	// A raw submission (no plugin namespace) colliding with an owned id.
	res := a.CreateNode(newNode(derived, "Orphan", "d2"), "", "")
	if res.Severity != SeverityFatal {
		t.Fatalf("severity = %v, want fatal", res.Severity)
	}
	if res.Diag.Code != "create-node/owner-conflict" {
		t.Errorf("code = %q", res.Diag.Code)
	}
	if res.Diag.OtherPlugin != "plugin-a" {
		t.Errorf("other plugin = %q, want plugin-a", res.Diag.OtherPlugin)
	}
}

func TestCreateNode_UnchangedBecomesTouch(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "plugin-a", ""))

	res := a.CreateNode(newNode("a", "Post", "d1"), "plugin-a", "")
	if !res.OK() {
		t.Fatalf("resubmission rejected: %v", res.Diag)
	}
	if res.Event.Kind != event.TouchNode {
		t.Errorf("kind = %s, want TouchNode for unchanged content", res.Event.Kind)
	}
}

func TestCreateNode_SeededDigestStillCreatesAbsentNode(t *testing.T) {
	store := graph.NewStore()
	classifier := changedetect.NewClassifier(store)
	classifier.Seed(map[string]string{identity.DeriveID("a", "source"): "d1"})
	a := New(Config{
		Registry:   ownership.NewRegistry(),
		Graph:      store,
		Classifier: classifier,
		Tracker:    deps.NewTracker(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	// The digest matches a previous build, but the node is not in this
	// build's graph yet: the record must land as a create, not a touch.
	res := a.CreateNode(newNode("a", "Post", "d1"), "source", "")
	if !res.OK() {
		t.Fatalf("resubmission rejected: %v", res.Diag)
	}
	if res.Event.Kind != event.CreateNode {
		t.Fatalf("kind = %s, want CreateNode for a node absent from the graph", res.Event.Kind)
	}
	mustApply(t, store, res)

	// Once the node is live, the same content demotes to a touch.
	res = a.CreateNode(newNode("a", "Post", "d1"), "source", "")
	if !res.OK() || res.Event.Kind != event.TouchNode {
		t.Fatalf("second resubmission = %+v, want TouchNode", res)
	}
}

func TestCreateNode_AnonymousSkipsTypeClaim(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)

	// An anonymous create neither claims the type...
	mustApply(t, store, a.CreateNode(newNode("raw-1", "Post", "d1"), "", ""))
	if res := a.CreateNode(newNode("b", "Post", "d2"), "plugin-a", ""); !res.OK() {
		t.Fatalf("named plugin blocked by anonymous create: %v", res.Diag)
	}

	// ...nor contends for one a plugin already owns.
	if res := a.CreateNode(newNode("raw-2", "Post", "d3"), "", ""); !res.OK() {
		t.Fatalf("anonymous create blocked by type owner: %v", res.Diag)
	}
}

func TestCreateNode_ChangedRecreates(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "plugin-a", ""))

	res := a.CreateNode(newNode("a", "Post", "d2"), "plugin-a", "")
	if !res.OK() {
		t.Fatalf("changed resubmission rejected: %v", res.Diag)
	}
	if res.Event.Kind != event.CreateNode {
		t.Errorf("kind = %s, want CreateNode for changed content", res.Event.Kind)
	}
}

func TestTouchNode_OwnerEnforced(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	ev := mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "plugin-a", ""))
	id := ev.Payload.(*model.Node).ID

	if res := a.TouchNode(id, "plugin-a", ""); !res.OK() {
		t.Fatalf("owner touch rejected: %v", res.Diag)
	}
	res := a.TouchNode(id, "plugin-b", "")
	if res.Severity != SeverityFatal {
		t.Fatalf("severity = %v, want fatal", res.Severity)
	}
	if res.Diag.Code != "touch-node/owner-conflict" {
		t.Errorf("code = %q", res.Diag.Code)
	}

	// Touching an unknown node is allowed; the store treats it as a no-op.
	if res := a.TouchNode("ghost", "anyone", ""); !res.OK() {
		t.Errorf("touch of absent node rejected: %v", res.Diag)
	}
}

func TestDeleteNodes_CopiesInput(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	ids := []string{"a", "b"}
	res := a.DeleteNodes(ids, "p", "")
	if !res.OK() || res.Event.Kind != event.DeleteNodes {
		t.Fatalf("unexpected result: %v", res)
	}
	ids[0] = "tampered"
	if res.Event.Payload.([]string)[0] != "a" {
		t.Error("event payload aliased the caller's slice")
	}
}

func TestCreateNodeField(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	ev := mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "source", ""))
	id := ev.Payload.(*model.Node).ID

	res := a.CreateNodeField(NodeFieldArgs{NodeID: id, Name: "slug", Value: "/a"}, "transformer", "")
	if !res.OK() {
		t.Fatalf("field write rejected: %v", res.Diag)
	}
	payload := res.Event.Payload.(event.NodeField)
	if payload.Name != "slug" || payload.Value != "/a" {
		t.Errorf("payload = %+v", payload)
	}
	if payload.Node.Fields["slug"] != "/a" {
		t.Error("revision missing the field")
	}
	if payload.Node.Internal.FieldOwners["slug"] != "transformer" {
		t.Error("revision missing field ownership")
	}

	// The store is untouched until the event is applied.
	stored, _ := store.GetNode(id)
	if len(stored.Fields) != 0 {
		t.Error("store mutated before event application")
	}
}

func TestCreateNodeField_LastWriteWinsForOwner(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	ev := mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "source", ""))
	id := ev.Payload.(*model.Node).ID

	mustApply(t, store, a.CreateNodeField(NodeFieldArgs{NodeID: id, Name: "slug", Value: "/one"}, "transformer", ""))
	res := a.CreateNodeField(NodeFieldArgs{NodeID: id, Name: "slug", Value: "/two"}, "transformer", "")
	if !res.OK() {
		t.Fatalf("owner rewrite rejected: %v", res.Diag)
	}
	if res.Event.Payload.(event.NodeField).Node.Fields["slug"] != "/two" {
		t.Error("rewrite did not take")
	}
}

func TestCreateNodeField_CrossPluginFatal(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	ev := mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "source", ""))
	id := ev.Payload.(*model.Node).ID
	mustApply(t, store, a.CreateNodeField(NodeFieldArgs{NodeID: id, Name: "slug", Value: "/one"}, "plugin-a", ""))

	res := a.CreateNodeField(NodeFieldArgs{NodeID: id, Name: "slug", Value: "/two"}, "plugin-b", "")
	if res.Severity != SeverityFatal {
		t.Fatalf("severity = %v, want fatal", res.Severity)
	}
	if res.Diag.Code != "create-node-field/field-owned" {
		t.Errorf("code = %q", res.Diag.Code)
	}
	if res.Diag.OtherPlugin != "plugin-a" {
		t.Errorf("other plugin = %q", res.Diag.OtherPlugin)
	}
}

func TestCreateNodeField_DeprecatedAliases(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	ev := mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "source", ""))
	id := ev.Payload.(*model.Node).ID

	res := a.CreateNodeField(NodeFieldArgs{NodeID: id, FieldName: "slug", FieldValue: "/a"}, "p", "")
	if !res.OK() {
		t.Fatalf("alias write rejected: %v", res.Diag)
	}
	payload := res.Event.Payload.(event.NodeField)
	if payload.Name != "slug" || payload.Value != "/a" {
		t.Errorf("aliases not mapped: %+v", payload)
	}
}

func TestCreateNodeField_MissingNameOrNode(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	ev := mustApply(t, store, a.CreateNode(newNode("a", "Post", "d1"), "source", ""))
	id := ev.Payload.(*model.Node).ID

	if res := a.CreateNodeField(NodeFieldArgs{NodeID: id}, "p", ""); res.Severity != SeverityReported {
		t.Errorf("missing name severity = %v, want reported", res.Severity)
	}
	if res := a.CreateNodeField(NodeFieldArgs{NodeID: "ghost", Name: "x", Value: 1}, "p", ""); res.Severity != SeverityReported {
		t.Errorf("missing node severity = %v, want reported", res.Severity)
	}
}

func TestCreateParentChildLink(t *testing.T) {
	a, store := newFixture(t, Program{}, nil)
	ev := mustApply(t, store, a.CreateNode(newNode("p", "Dir", "d1"), "source", ""))
	parentID := ev.Payload.(*model.Node).ID

	res := a.CreateParentChildLink(parentID, "child-1", "source", "")
	if !res.OK() || res.Event.Kind != event.AddChildToParent {
		t.Fatalf("unexpected result: %+v", res)
	}
	link := res.Event.Payload.(event.ChildLink)
	if link.ParentID != parentID || link.ChildID != "child-1" {
		t.Errorf("link = %+v", link)
	}

	if res := a.CreateParentChildLink("ghost", "c", "source", ""); res.Severity != SeverityReported {
		t.Errorf("missing parent severity = %v, want reported", res.Severity)
	}
}

func TestCreatePage_NormalizesAndDerives(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	res := a.CreatePage(&model.Page{Path: "foo", Component: "/src/pages/foo.js"}, "site", "")
	if !res.OK() {
		t.Fatalf("page rejected: %v", res.Diag)
	}
	p := res.Event.Payload.(*model.Page)
	if p.Path != "/foo" {
		t.Errorf("path = %q, want /foo", p.Path)
	}
	if p.JSONName != "foo.json" {
		t.Errorf("json name = %q, want foo.json", p.JSONName)
	}
	if p.InternalComponentName != "ComponentFoo" {
		t.Errorf("component name = %q, want ComponentFoo", p.InternalComponentName)
	}
	if p.ComponentChunkName != "component---src-pages-foo-js" {
		t.Errorf("chunk name = %q", p.ComponentChunkName)
	}
	if p.UpdatedAt.IsZero() {
		t.Error("updatedAt not stamped")
	}
}

func TestCreatePage_RootPath(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	res := a.CreatePage(&model.Page{Path: "/", Component: "/src/pages/index.js"}, "site", "")
	if !res.OK() {
		t.Fatalf("root page rejected: %v", res.Diag)
	}
	p := res.Event.Payload.(*model.Page)
	if p.JSONName != "index.json" {
		t.Errorf("json name = %q, want index.json", p.JSONName)
	}
	if p.InternalComponentName != "ComponentIndex" {
		t.Errorf("component name = %q, want ComponentIndex", p.InternalComponentName)
	}
}

func TestCreatePage_LayoutFallback(t *testing.T) {
	a, _ := newFixture(t, Program{}, stubLayouts{def: "index"})
	res := a.CreatePage(&model.Page{Path: "/x", Component: "/c.js"}, "site", "")
	if !res.OK() {
		t.Fatal(res.Diag)
	}
	if got := res.Event.Payload.(*model.Page).Layout; got != "index" {
		t.Errorf("layout = %q, want index fallback", got)
	}

	// An explicit layout is kept.
	res = a.CreatePage(&model.Page{Path: "/y", Component: "/c.js", Layout: "wide"}, "site", "")
	if got := res.Event.Payload.(*model.Page).Layout; got != "wide" {
		t.Errorf("layout = %q, want wide", got)
	}
}

func TestCreatePage_Rejections(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	if res := a.CreatePage(nil, "site", ""); res.Severity != SeverityReported {
		t.Errorf("nil page severity = %v, want reported", res.Severity)
	}
	if res := a.CreatePage(&model.Page{Component: "/c.js"}, "site", ""); res.Severity != SeverityReported {
		t.Errorf("empty path severity = %v, want reported", res.Severity)
	}
	res := a.CreatePage(&model.Page{Path: "/x"}, "site", "")
	if res.Severity != SeverityReported {
		t.Fatalf("missing component severity = %v, want reported", res.Severity)
	}
	if res.Diag.Code != "create-page/invalid" {
		t.Errorf("code = %q", res.Diag.Code)
	}
}

func TestCreateLayout_Defaults(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	res := a.CreateLayout(&model.Layout{Component: "/src/layouts/index.js"}, "site", "")
	if !res.OK() {
		t.Fatalf("layout rejected: %v", res.Diag)
	}
	l := res.Event.Payload.(*model.Layout)
	if l.ID != "index" {
		t.Errorf("id = %q, want index (component base name)", l.ID)
	}
	if l.MachineID != "layout---index" {
		t.Errorf("machine id = %q", l.MachineID)
	}
	if l.ComponentChunkName != "layout-component---index" {
		t.Errorf("chunk name = %q", l.ComponentChunkName)
	}
}

func TestCreateRedirect_Prefixing(t *testing.T) {
	a, _ := newFixture(t, Program{PathPrefix: "/blog", PrefixPaths: true}, nil)
	res := a.CreateRedirect(&model.Redirect{FromPath: "/old", ToPath: "/new"}, "site", "")
	if !res.OK() {
		t.Fatal(res.Diag)
	}
	r := res.Event.Payload.(*model.Redirect)
	if r.FromPath != "/blog/old" {
		t.Errorf("fromPath = %q, want /blog/old", r.FromPath)
	}
	if r.ToPath != "/blog/new" {
		t.Errorf("toPath = %q, want /blog/new", r.ToPath)
	}
}

func TestCreateRedirect_ExternalTargetUnprefixed(t *testing.T) {
	a, _ := newFixture(t, Program{PathPrefix: "/blog", PrefixPaths: true}, nil)
	res := a.CreateRedirect(&model.Redirect{FromPath: "/old", ToPath: "https://example.com/new"}, "site", "")
	r := res.Event.Payload.(*model.Redirect)
	if r.ToPath != "https://example.com/new" {
		t.Errorf("external toPath = %q, should be untouched", r.ToPath)
	}
	if r.FromPath != "/blog/old" {
		t.Errorf("fromPath = %q, want /blog/old", r.FromPath)
	}
}

func TestCreateRedirect_NoPrefixWhenDisabled(t *testing.T) {
	a, _ := newFixture(t, Program{PathPrefix: "/blog", PrefixPaths: false}, nil)
	res := a.CreateRedirect(&model.Redirect{FromPath: "/old", ToPath: "/new"}, "site", "")
	r := res.Event.Payload.(*model.Redirect)
	if r.FromPath != "/old" || r.ToPath != "/new" {
		t.Errorf("paths prefixed despite disabled prefixing: %+v", r)
	}
}

func TestMiscActions_Kinds(t *testing.T) {
	a, _ := newFixture(t, Program{}, nil)
	cases := []struct {
		res  Result
		want event.Kind
	}{
		{a.CreatePageDependency("/p", "n1", "", "q", ""), event.CreateComponentDependency},
		{a.DeleteComponentsDependencies([]string{"/p"}, "q", ""), event.DeleteComponentsDependencies},
		{a.ReplaceComponentQuery("/c.js", "{ posts }", "q", ""), event.ReplaceComponentQuery},
		{a.SetWebpackConfig(map[string]any{"k": 1}, "b", ""), event.SetWebpackConfig},
		{a.ReplaceWebpackConfig(map[string]any{"k": 1}, "b", ""), event.ReplaceWebpackConfig},
		{a.CreateJob(map[string]any{"id": "j"}, "w", ""), event.CreateJob},
		{a.SetJob(map[string]any{"id": "j"}, "w", ""), event.SetJob},
		{a.EndJob("j", "w", ""), event.EndJob},
		{a.SetPluginStatus(map[string]any{"cursor": 1}, "w", ""), event.SetPluginStatus},
		{a.DeletePage("/p", "site", ""), event.DeletePage},
		{a.DeleteLayout("index", "site", ""), event.DeleteLayout},
		{a.DeleteNode("n", "p", ""), event.DeleteNode},
	}
	for _, c := range cases {
		if !c.res.OK() {
			t.Errorf("%s: rejected: %v", c.want, c.res.Diag)
			continue
		}
		if c.res.Event.Kind != c.want {
			t.Errorf("kind = %s, want %s", c.res.Event.Kind, c.want)
		}
	}
}
