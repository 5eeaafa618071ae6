package prompt

import (
	"strings"
	"testing"
)

func TestLookupKnownVariants(t *testing.T) {
	for _, name := range Names() {
		text, err := Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		if strings.TrimSpace(text) == "" {
			t.Fatalf("variant %s is empty", name)
		}
	}
}

func TestVoiceVariantExtendsChatVariant(t *testing.T) {
	chat, err := Lookup("contencion")
	if err != nil {
		t.Fatalf("lookup chat: %v", err)
	}
	voice, err := Lookup("contencion-voz")
	if err != nil {
		t.Fatalf("lookup voice: %v", err)
	}
	if !strings.HasPrefix(voice, chat) || voice == chat {
		t.Fatalf("voice variant should extend the chat variant")
	}
}

func TestLookupUnknownVariant(t *testing.T) {
	_, err := Lookup("therapist")
	if err == nil {
		t.Fatalf("expected error for unknown variant")
	}
	if !strings.Contains(err.Error(), "contencion") {
		t.Fatalf("error should list known variants, got %v", err)
	}
}
