package layering

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestMergeLayersFromFixture(t *testing.T) {
	fx := loadLayeringFixture(t, "layering_merge.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			layers := make([]map[string]any, len(tc.Layers))
			for i := range tc.Layers {
				layers[i] = tc.Layers[i].Payload
			}

			got := MergeLayers(layers...)
			if !reflect.DeepEqual(tc.Expect, got) {
				t.Errorf("merged payload mismatch:\nwant: %#v\n got: %#v", tc.Expect, got)
			}
		})
	}
}

func TestMergeLayersZeroInput(t *testing.T) {
	if got := MergeLayers(); got != nil {
		t.Fatalf("expected MergeLayers() to return nil, got %+v", got)
	}
}

func TestMergeLayersKeepsExplicitNil(t *testing.T) {
	event := map[string]any{"id": nil}
	scope := map[string]any{"id": "1234", "email": "a@example.com"}

	got := MergeLayers(event, scope)
	want := map[string]any{"id": nil, "email": "a@example.com"}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestMergeLayersCyclicBuckets(t *testing.T) {
	strong := map[string]any{"name": "strong"}
	strong["self"] = strong
	weak := map[string]any{"name": "weak", "region": "eu"}
	weak["self"] = weak

	got := MergeLayers(strong, weak)
	if got["name"] != "strong" || got["region"] != "eu" {
		t.Fatalf("unexpected merge result: %v", got["name"])
	}
	inner, ok := got["self"].(map[string]any)
	if !ok || inner["name"] != "strong" {
		t.Fatalf("expected strong cycle to win, got %T", got["self"])
	}
	inner["name"] = "changed"
	if strong["name"] != "strong" {
		t.Fatalf("strong layer mutated through merged cycle")
	}
}

func TestMergeLayersDoesNotAliasInputs(t *testing.T) {
	strong := map[string]any{"tags": map[string]any{"env": "prod"}}
	weak := map[string]any{"extra": map[string]any{"id": 1}}

	merged := MergeLayers(strong, weak)
	merged["tags"].(map[string]any)["env"] = "changed"
	merged["extra"].(map[string]any)["id"] = 2

	if strong["tags"].(map[string]any)["env"] != "prod" {
		t.Fatalf("strong layer mutated: %v", strong)
	}
	if weak["extra"].(map[string]any)["id"] != 1 {
		t.Fatalf("weak layer mutated: %v", weak)
	}
}

func TestCloneDetachesNestedValues(t *testing.T) {
	type crumb struct {
		Message   string
		Timestamp time.Time
		Data      map[string]any
	}
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	original := []crumb{{Message: "a", Timestamp: at, Data: map[string]any{"k": "v"}}}

	cloned := Clone(original)
	cloned[0].Data["k"] = "changed"
	cloned[0].Message = "b"

	if original[0].Data["k"] != "v" || original[0].Message != "a" {
		t.Fatalf("expected original untouched, got %+v", original[0])
	}
	if !cloned[0].Timestamp.Equal(at) {
		t.Fatalf("expected timestamp preserved, got %v", cloned[0].Timestamp)
	}
}

type node struct {
	Name string
	Next *node
}

func TestCloneSelfReferencingPointer(t *testing.T) {
	original := &node{Name: "root"}
	original.Next = original

	cloned := Clone(map[string]any{"node": original})
	got, ok := cloned["node"].(*node)
	if !ok {
		t.Fatalf("expected *node, got %T", cloned["node"])
	}
	if got == original {
		t.Fatalf("expected a detached copy")
	}
	if got.Next != got {
		t.Fatalf("expected the copy to point at itself")
	}
}

func TestCloneSelfReferencingCollections(t *testing.T) {
	bucket := map[string]any{}
	bucket["self"] = bucket
	list := make([]any, 1)
	list[0] = list
	bucket["list"] = list

	cloned := Clone(bucket)
	inner, ok := cloned["self"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", cloned["self"])
	}
	inner["added"] = true
	if _, leaked := bucket["added"]; leaked {
		t.Fatalf("expected clone detached from original")
	}
	if cloned["added"] != true {
		t.Fatalf("expected cycle preserved in clone")
	}
	if _, ok := cloned["list"].([]any); !ok {
		t.Fatalf("expected list clone, got %T", cloned["list"])
	}
}

func TestCloneNilMap(t *testing.T) {
	var src map[string]any
	if got := Clone(src); got != nil {
		t.Fatalf("expected nil clone, got %#v", got)
	}
}

func TestMergeMapsOverridesKeys(t *testing.T) {
	base := map[string]any{"id": "1234", "name": "a"}
	got := MergeMaps(base, map[string]any{"name": "b", "email": "b@example.com"})

	want := map[string]any{"id": "1234", "name": "b", "email": "b@example.com"}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %v, got %v", want, got)
	}
	if base["name"] != "a" {
		t.Fatalf("base should not be mutated, got %v", base)
	}
}

type layeringFixture struct {
	Description string                `json:"description"`
	Cases       []layeringFixtureCase `json:"cases"`
}

type layeringFixtureCase struct {
	Name   string                 `json:"name"`
	Layers []layeringFixtureLayer `json:"layers"`
	Expect map[string]any         `json:"expect"`
}

type layeringFixtureLayer struct {
	Source  string         `json:"source"`
	Payload map[string]any `json:"payload"`
}

func loadLayeringFixture(t *testing.T, name string) layeringFixture {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read layering fixture %q: %v", name, err)
	}
	var fx layeringFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal layering fixture %q: %v", name, err)
	}
	return fx
}
