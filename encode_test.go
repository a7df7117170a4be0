package anchor

import (
	"errors"
	"testing"
)

func encodeNoSchema(t *testing.T, state State) string {
	t.Helper()
	fragment, err := Encode(state, WithSchema(nil))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return fragment
}

func TestEncodeWireForm(t *testing.T) {
	cases := []struct {
		name  string
		state State
		want  string
	}{
		{"empty state", State{}, ""},
		{"nil state", nil, ""},
		{"omission law", State{"off": {Value: Bool(false)}, "on": {Value: Flag()}, "n": {Value: Int(3)}}, "n=3&&on"},
		{"trailing false flag", State{"on": {Value: Flag()}, "zz": {Value: Bool(false)}}, "on&"},
		{"empty parts still joined", State{"a": {Value: Bool(false)}, "b": {Value: String("1")}}, "&b=1"},
		{"zero value", State{"a": {}}, "a="},
		{"reserved and empty keys skipped", State{"_a": {Value: Flag()}, "": {Value: Flag()}, "b": {Value: Int(1)}}, "b=1"},
		{"percent encoded", State{"q": {Value: String("a b&c")}}, "q=a%20b%26c"},
		{
			"dependents",
			State{"mode": {Value: String("a"), Dependents: Dependents{"x": Int(1), "y": Flag(), "z": Bool(false)}}},
			"mode=a:x,1|y",
		},
		{"empty dependent map", State{"mode": {Value: String("a"), Dependents: Dependents{}}}, "mode=a"},
		{"flag with dependents", State{"open": {Value: Flag(), Dependents: Dependents{"id": String("7")}}}, "open:id,7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := encodeNoSchema(t, tc.state); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	state := State{
		"chat": {Value: String("opened"), Dependents: Dependents{"person": String("42"), "typing": Flag()}},
		"q":    {Value: String("x:y|z&w")},
		"on":   {Value: Flag()},
	}
	fragment := encodeNoSchema(t, state)
	decoded := Decode(fragment)
	if !decoded.Equal(state) {
		t.Fatalf("round trip mismatch:\n fragment %q\n want %v\n got  %v", fragment, state, decoded)
	}
	if again := encodeNoSchema(t, decoded); again != fragment {
		t.Fatalf("re-encode changed fragment: %q vs %q", again, fragment)
	}
}

func TestEncodeCustomDelimiters(t *testing.T) {
	d := Delimiters{Pair: ";", KeyValue: ":", Sub: "/", DepPair: "+", DepKeyValue: "~"}
	state := State{
		"a": {Value: String("b"), Dependents: Dependents{"c": Int(1), "d": Flag()}},
		"e": {Value: Flag()},
	}
	fragment, err := Encode(state, WithSchema(nil), WithDelimiters(d))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if fragment != "a:b/c~1+d;e" {
		t.Fatalf("unexpected fragment %q", fragment)
	}
	if decoded := Decode(fragment, WithDelimiters(d)); !decoded.Equal(State{
		"a": {Value: String("b"), Dependents: Dependents{"c": String("1"), "d": Flag()}},
		"e": {Value: Flag()},
	}) {
		t.Fatalf("unexpected decode %v", decoded)
	}
}

func chatSchema() *Schema {
	return NewSchema(
		Key("chat", OneOf("opened", "closed")),
		Key("debug", AnyValue()),
		Key("on", OneOf("true")),
		Key("ratio", OneOf("1.5")),
		Dependent("chat", map[string]Rule{"person": Expr(`value matches '^[0-9]+$'`)}),
	)
}

func TestEncodeSchemaRejects(t *testing.T) {
	cases := []struct {
		name  string
		state State
		kind  RejectKind
		key   string
	}{
		{"unknown key", State{"size": {Value: String("big")}}, IndependentKey, "size"},
		{"value not listed", State{"chat": {Value: String("maybe")}}, IndependentValue, "chat"},
		{"false flag checked before omission", State{"on": {Value: Bool(false)}}, IndependentValue, "on"},
		{"no dependent rule", State{"debug": {Value: Flag(), Dependents: Dependents{"x": Int(1)}}}, DependentKey, "_debug"},
		{"empty dependent map without rule", State{"debug": {Value: Flag(), Dependents: Dependents{}}}, DependentKey, "_debug"},
		{"dependent value", State{"chat": {Value: String("opened"), Dependents: Dependents{"person": String("bob")}}}, DependentValue, "person"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(tc.state, WithSchema(chatSchema()))
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if schemaErr.Kind != tc.kind || schemaErr.Key != tc.key {
				t.Fatalf("expected %s %q, got %s %q", tc.kind, tc.key, schemaErr.Kind, schemaErr.Key)
			}
			if !errors.Is(err, ErrSchemaReject) {
				t.Fatalf("expected ErrSchemaReject")
			}
		})
	}
}

func TestEncodeSchemaAllows(t *testing.T) {
	state := State{
		"chat":  {Value: String("opened"), Dependents: Dependents{"person": String("42"), "extra": Flag()}},
		"debug": {Value: String("anything")},
		"on":    {Value: Flag()},
		"ratio": {Value: Number(1.5)},
	}
	fragment, err := Encode(state, WithSchema(chatSchema()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if fragment != "chat=opened:extra|person,42&debug=anything&on&ratio=1.5" {
		t.Fatalf("unexpected fragment %q", fragment)
	}
}

func TestEncodeMap(t *testing.T) {
	if _, err := EncodeMap([]string{"a"}); !errors.Is(err, ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping, got %v", err)
	}
	if fragment, err := EncodeMap(nil, WithSchema(nil)); err != nil || fragment != "" {
		t.Fatalf("nil should encode as an empty map, got %q %v", fragment, err)
	}
	if _, err := EncodeMap(map[string]string{"a": "b"}); !errors.Is(err, ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping for other map types, got %v", err)
	}

	fragment, err := EncodeMap(map[string]any{
		"mode":    "a",
		"_mode":   map[string]any{"x": 1, "y": true},
		"_s_mode": "ignored",
		"_orphan": map[string]any{"z": 1},
	}, WithSchema(nil))
	if err != nil {
		t.Fatalf("encode map: %v", err)
	}
	if fragment != "mode=a:x,1|y" {
		t.Fatalf("unexpected fragment %q", fragment)
	}

	if _, err := EncodeMap(map[string]any{"a": []int{1}}, WithSchema(nil)); !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue, got %v", err)
	}
}

func TestEncodeLogsFailures(t *testing.T) {
	var events []LogEvent
	logger := LoggerFunc(func(event LogEvent) { events = append(events, event) })
	_, err := Encode(State{"size": {Value: Int(1)}}, WithSchema(chatSchema()), WithLogger(logger))
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if len(events) != 1 || events[0].Op != OpEncode || events[0].Err == nil {
		t.Fatalf("unexpected events %+v", events)
	}
}
