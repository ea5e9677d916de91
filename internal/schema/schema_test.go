package schema

import (
	"testing"

	"github.com/danielfarrell/gatsby/internal/model"
)

func TestValidatePage_Valid(t *testing.T) {
	res := ValidatePage(&model.Page{Path: "/blog", Component: "/src/pages/blog.js"})
	if !res.OK {
		t.Fatalf("valid page rejected: %s: %s", res.Field, res.Message)
	}
}

func TestValidatePage_MissingComponent(t *testing.T) {
	res := ValidatePage(&model.Page{Path: "/blog"})
	if res.OK {
		t.Fatal("page without component should fail")
	}
	if res.Field != "component" {
		t.Errorf("field = %q, want component", res.Field)
	}
}

func TestValidatePage_PathWithoutSlash(t *testing.T) {
	res := ValidatePage(&model.Page{Path: "blog", Component: "/c.js"})
	if res.OK {
		t.Fatal("unnormalized path should fail")
	}
	if res.Field != "path" {
		t.Errorf("field = %q, want path", res.Field)
	}
}

func TestValidatePage_Nil(t *testing.T) {
	if res := ValidatePage(nil); res.OK {
		t.Fatal("nil page should fail")
	}
}

func TestValidateLayout(t *testing.T) {
	if res := ValidateLayout(&model.Layout{Component: "/src/layouts/index.js"}); !res.OK {
		t.Fatalf("valid layout rejected: %s: %s", res.Field, res.Message)
	}
	res := ValidateLayout(&model.Layout{})
	if res.OK {
		t.Fatal("layout without component should fail")
	}
	if res.Field != "component" {
		t.Errorf("field = %q, want component", res.Field)
	}
}

func TestValidateNode_Valid(t *testing.T) {
	n := &model.Node{
		ID:       "n1",
		Internal: model.Internal{Type: "MarkdownNote", ContentDigest: "abc"},
	}
	if res := ValidateNode(n); !res.OK {
		t.Fatalf("valid node rejected: %s: %s", res.Field, res.Message)
	}
}

func TestValidateNode_MissingID(t *testing.T) {
	n := &model.Node{Internal: model.Internal{Type: "T", ContentDigest: "d"}}
	res := ValidateNode(n)
	if res.OK {
		t.Fatal("node without id should fail")
	}
	if res.Field != "id" {
		t.Errorf("field = %q, want id", res.Field)
	}
}

func TestValidateNode_MissingInternal(t *testing.T) {
	res := ValidateNode(&model.Node{ID: "n1"})
	if res.OK {
		t.Fatal("node without internal metadata should fail")
	}
	if res.Field != "internal.contentDigest" && res.Field != "internal.type" {
		t.Errorf("field = %q, want an internal.* field", res.Field)
	}
}

func TestValidateNode_RecordCarried(t *testing.T) {
	n := &model.Node{}
	res := ValidateNode(n)
	if res.Record == nil {
		t.Error("failure result should carry the submitted record")
	}
}
