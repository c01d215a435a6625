package clientid

import (
	"path/filepath"
	"testing"
)

func TestLoad_GeneratesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_id.txt")

	id1, err := Load(path)
	if err != nil {
		t.Fatalf("Load (generate): %v", err)
	}
	if id1.IsZero() {
		t.Fatalf("generated id is zero")
	}

	id2, err := Load(path)
	if err != nil {
		t.Fatalf("Load (reload): %v", err)
	}
	if id1 != id2 {
		t.Fatalf("id changed across reload: %v vs %v", id1, id2)
	}
}

func TestParse_RejectsMalformed(t *testing.T) {
	cases := []string{"", "not-hex", "00112233445566778899aabbccddee"}
	for _, c := range cases {
		if _, err := parse(c); err == nil {
			t.Fatalf("parse(%q): expected error, got nil", c)
		}
	}
}

func TestParse_RoundTripsString(t *testing.T) {
	id, err := Load(filepath.Join(t.TempDir(), "client_id.txt"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := parse(id.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != id {
		t.Fatalf("round trip mismatch: got %v, want %v", got, id)
	}
}
