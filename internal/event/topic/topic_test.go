package topic

import "testing"

func TestTopic_Segments(t *testing.T) {
	tests := []struct {
		topic Topic
		want  []string
	}{
		{"", nil},
		{"mudlark", []string{"mudlark"}},
		{"mudlark.who.updated", []string{"mudlark", "who", "updated"}},
	}

	for _, tt := range tests {
		got := tt.topic.Segments()
		if len(got) != len(tt.want) {
			t.Errorf("Segments(%q) = %v, want %v", tt.topic, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Segments(%q)[%d] = %q, want %q", tt.topic, i, got[i], tt.want[i])
			}
		}
	}
}

func TestTopic_ParentBase(t *testing.T) {
	tp := Topic("mudlark.who.updated")
	if tp.Parent() != "mudlark.who" {
		t.Errorf("Parent() = %q, want %q", tp.Parent(), "mudlark.who")
	}
	if tp.Base() != "updated" {
		t.Errorf("Base() = %q, want %q", tp.Base(), "updated")
	}
	if Topic("mudlark").Parent() != "" {
		t.Error("expected empty parent for single-segment topic")
	}
}

func TestTopic_Child(t *testing.T) {
	if got := Topic("mudlark.who").Child("updated"); got != "mudlark.who.updated" {
		t.Errorf("Child() = %q", got)
	}
	if got := Topic("").Child("who"); got != "who" {
		t.Errorf("Child() on empty = %q", got)
	}
}

func TestTopic_HasPrefix(t *testing.T) {
	tests := []struct {
		topic  Topic
		prefix Topic
		want   bool
	}{
		{"mudlark.who.updated", "mudlark", true},
		{"mudlark.who.updated", "mudlark.who", true},
		{"mudlark.who.updated", "mudlark.who.updated", true},
		{"mudlarkx.who", "mudlark", false},
		{"mudlark.who", "who", false},
		{"mudlark.who", "", true},
	}

	for _, tt := range tests {
		if got := tt.topic.HasPrefix(tt.prefix); got != tt.want {
			t.Errorf("HasPrefix(%q, %q) = %v, want %v", tt.topic, tt.prefix, got, tt.want)
		}
	}
}

func TestTopic_IsValid(t *testing.T) {
	valid := []Topic{"mudlark", "mudlark.who", "mudlark.who.updated"}
	invalid := []Topic{"", ".mudlark", "mudlark.", "mudlark..who"}

	for _, tp := range valid {
		if !tp.IsValid() {
			t.Errorf("IsValid(%q) = false, want true", tp)
		}
	}
	for _, tp := range invalid {
		if tp.IsValid() {
			t.Errorf("IsValid(%q) = true, want false", tp)
		}
	}
}

func TestTopic_InNamespace(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{"mudlark.who.updated", true},
		{"mudlark.room.updated", true},
		{"mudlark", false}, // the bare namespace names nothing
		{"who.updated", false},
		{"mudlarkish.who", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.topic.InNamespace(); got != tt.want {
			t.Errorf("InNamespace(%q) = %v, want %v", tt.topic, got, tt.want)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join("mudlark", "who", "updated"); got != "mudlark.who.updated" {
		t.Errorf("Join() = %q", got)
	}
}
