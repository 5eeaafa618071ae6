package models

import (
	"encoding/json"
	"testing"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAssistant, RoleSystem} {
		if !r.Valid() {
			t.Fatalf("%s should be valid", r)
		}
	}
	for _, r := range []Role{"", "tool", "User"} {
		if r.Valid() {
			t.Fatalf("%q should be invalid", r)
		}
	}
}

func TestMessageDecodesClientHistory(t *testing.T) {
	var history []Message
	if err := json.Unmarshal([]byte(`[{"role":"user","content":"Hola"},{"role":"assistant","content":"¿Cómo estás?"}]`), &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 2 || history[0].Role != RoleUser || history[1].Content != "¿Cómo estás?" {
		t.Fatalf("unexpected history %+v", history)
	}
}
