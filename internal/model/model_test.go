package model

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"work", Work},
		{" Work ", Work},
		{"SOCIAL", Social},
		{"personal", Personal},
		{"", Personal},
		{"finance", Personal},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstCategory(t *testing.T) {
	if got := FirstCategory([]string{"bug", "social", "work"}); got != Social {
		t.Errorf("expected social, got %q", got)
	}
	if got := FirstCategory(nil); got != Personal {
		t.Errorf("expected personal fallback, got %q", got)
	}
}

func TestNamespaceMessagesDoesNotMutateInput(t *testing.T) {
	in := []Message{{ID: "1"}, {ID: "2"}}
	out := NamespaceMessages("slack", in)

	if out[0].ID != "slack:1" || out[1].ID != "slack:2" {
		t.Fatalf("unexpected ids: %q %q", out[0].ID, out[1].ID)
	}
	if in[0].ID != "1" {
		t.Errorf("input was mutated: %q", in[0].ID)
	}
}

func TestNamespaceEventsCopiesLinks(t *testing.T) {
	in := []Event{{ID: "7", Links: []Link{{Title: "Agenda", URL: "https://example.com/agenda"}}}}
	out := NamespaceEvents("google", in)

	out[0].Links[0].Title = "changed"
	if in[0].Links[0].Title != "Agenda" {
		t.Error("links share a backing array with the input")
	}
	if out[0].ID != "google:7" {
		t.Errorf("expected google:7, got %q", out[0].ID)
	}
}
