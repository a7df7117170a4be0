package anchor

import "testing"

func TestMergeStates(t *testing.T) {
	defaults := State{
		"chat":  {Value: String("closed"), Dependents: Dependents{"person": String("a1"), "muted": Flag()}},
		"theme": {Value: String("light")},
	}
	bookmark := Decode("chat=opened:person,b2")
	url := State{"theme": {Value: String("dark")}}

	merged := MergeStates(url, bookmark, defaults)

	want := State{
		"chat":  {Value: String("opened"), Dependents: Dependents{"person": String("b2"), "muted": Flag()}},
		"theme": {Value: String("dark")},
	}
	if !merged.Equal(want) {
		t.Fatalf("expected %v, got %v", want, merged)
	}
	if merged["chat"].Source != "opened:person,b2" {
		t.Fatalf("source should follow the winning value, got %q", merged["chat"].Source)
	}

	merged["chat"].Dependents["person"] = String("zz")
	if !defaults["chat"].Dependents["person"].Equal(String("a1")) {
		t.Fatalf("merge must not alias input dependent maps")
	}
}

func TestMergeStatesEmpty(t *testing.T) {
	if got := MergeStates(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty state, got %v", got)
	}
	only := State{"a": {Value: Flag()}}
	if got := MergeStates(nil, only); !got.Equal(only) {
		t.Fatalf("nil layers should be skipped, got %v", got)
	}
}
