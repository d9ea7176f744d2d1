package topic

import "testing"

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		topic Topic
		want  bool
	}{
		{"simple", Topic("input"), true},
		{"dotted", Topic("input.tap"), true},
		{"deep", Topic("input.longpress.start"), true},
		{"empty", Topic(""), false},
		{"empty segment", Topic("input..tap"), false},
		{"leading dot", Topic(".input"), false},
		{"trailing dot", Topic("input."), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.topic.IsValid(); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.topic, got, tt.want)
			}
		})
	}
}

func TestTopic_Navigation(t *testing.T) {
	tp := Topic("panel.skip.requested")

	if got := tp.Base(); got != "requested" {
		t.Errorf("Base() = %q, want %q", got, "requested")
	}
	if got := tp.Parent(); got != Topic("panel.skip") {
		t.Errorf("Parent() = %q, want %q", got, "panel.skip")
	}
	if got := Topic("panel").Parent(); got != Topic("") {
		t.Errorf("Parent() of root = %q, want empty", got)
	}
	if got := Topic("panel").Child("activated"); got != Topic("panel.activated") {
		t.Errorf("Child() = %q, want %q", got, "panel.activated")
	}
	if !tp.HasPrefix(Topic("panel.skip")) {
		t.Error("expected panel.skip.requested to have prefix panel.skip")
	}
	if tp.HasPrefix(Topic("panel.ski")) {
		t.Error("panel.ski is not a segment prefix of panel.skip.requested")
	}
}
