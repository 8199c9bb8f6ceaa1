package api

import (
	"encoding/json"
	"testing"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{"token field", `{"token":"t1"}`, "t1", true},
		{"accessToken field", `{"accessToken":"t2"}`, "t2", true},
		{"nested data.token", `{"data":{"token":"t3"}}`, "t3", true},
		{"token beats accessToken", `{"token":"t1","accessToken":"t2"}`, "t1", true},
		{"accessToken beats data.token", `{"accessToken":"t2","data":{"token":"t3"}}`, "t2", true},
		{"empty token skipped", `{"token":"","accessToken":"t2"}`, "t2", true},
		{"no token", `{"user":{"id":"1"}}`, "", false},
		{"non-object body", `[1,2]`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractToken(json.RawMessage(tt.body))
			if got != tt.want || ok != tt.ok {
				t.Errorf("ExtractToken(%s) = (%q, %v), want (%q, %v)", tt.body, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExtractUser(t *testing.T) {
	raw, ok := ExtractUser(json.RawMessage(`{"user":{"id":"7"}}`))
	if !ok {
		t.Fatal("user field not found")
	}
	var u map[string]string
	if err := json.Unmarshal(raw, &u); err != nil || u["id"] != "7" {
		t.Errorf("decoded %v, err %v", u, err)
	}

	raw, ok = ExtractUser(json.RawMessage(`{"data":{"user":{"id":"8"}}}`))
	if !ok {
		t.Fatal("data.user not found")
	}
	if err := json.Unmarshal(raw, &u); err != nil || u["id"] != "8" {
		t.Errorf("decoded %v, err %v", u, err)
	}

	if _, ok := ExtractUser(json.RawMessage(`{"token":"t"}`)); ok {
		t.Error("found a user in a body without one")
	}
	if _, ok := ExtractUser(json.RawMessage(`{"user":"bare-string"}`)); ok {
		t.Error("accepted non-object user field")
	}
}

func TestExtractList(t *testing.T) {
	type item struct {
		ID string `json:"id"`
	}

	tests := []struct {
		name string
		body string
		keys []string
		want int
	}{
		{"bare array", `[{"id":"a"},{"id":"b"}]`, []string{"vehicles"}, 2},
		{"enveloped", `{"vehicles":[{"id":"a"}]}`, []string{"vehicles", "data"}, 1},
		{"fallback key", `{"data":[{"id":"a"}]}`, []string{"vehicles", "data"}, 1},
		{"first matching key wins", `{"vehicles":[{"id":"a"}],"data":[{"id":"b"},{"id":"c"}]}`, []string{"vehicles", "data"}, 1},
		{"non-array value skipped", `{"vehicles":"nope","data":[{"id":"a"}]}`, []string{"vehicles", "data"}, 1},
		{"no match yields empty", `{"other":[{"id":"a"}]}`, []string{"vehicles"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out []item
			if err := ExtractList(json.RawMessage(tt.body), &out, tt.keys...); err != nil {
				t.Fatalf("ExtractList: %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
		})
	}

	var out []item
	if err := ExtractList(json.RawMessage(`"not a list"`), &out, "vehicles"); err == nil {
		t.Error("expected error for non-object non-array body")
	}
}
