package resolve

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw     string
		kind    Kind
		project string
		label   string
	}{
		{"5", KindID, "", ""},
		{"0b0d4a57-7ab5-4c5e-9a2e-3b1f3c1a9f10", KindUUID, "", ""},
		{"0b0d4a57", KindUUIDPrefix, "", "0b0d4a57"},
		{"0B0D", KindUUIDPrefix, "", ""},
		{"add", KindUUIDPrefix, "", "add"},
		{"deploy", KindLabel, "", "deploy"},
		{"fix-bug-2", KindLabel, "", "fix-bug-2"},
		{"work/infra/deploy", KindFQL, "work.infra", "deploy"},
		{"home/dishes", KindFQL, "home", "dishes"},
		{"Roll out", KindDescription, "", ""},
		{"deploy.*prod", KindDescription, "", ""},
		{"+urgent", KindTag, "", ""},
		{"-someday", KindTag, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			tok := Classify(tt.raw)
			if tok.Kind != tt.kind {
				t.Fatalf("Classify(%q).Kind = %s, want %s", tt.raw, tok.Kind, tt.kind)
			}
			if tok.Project != tt.project || tok.Label != tt.label {
				t.Errorf("Classify(%q) = project %q label %q, want %q %q", tt.raw, tok.Project, tok.Label, tt.project, tt.label)
			}
		})
	}
}

func TestClassifyTagPredicate(t *testing.T) {
	tok := Classify("-someday")
	if tok.Tag != "someday" || !tok.Exclude {
		t.Errorf("Unexpected predicate %+v", tok)
	}
	tok = Classify("+urgent")
	if tok.Tag != "urgent" || tok.Exclude {
		t.Errorf("Unexpected predicate %+v", tok)
	}
}

func TestTiers(t *testing.T) {
	tests := []struct {
		raw  string
		want []Kind
	}{
		{"5", []Kind{KindID}},
		{"0b0d4a57-7ab5-4c5e-9a2e-3b1f3c1a9f10", []Kind{KindUUID}},
		{"add", []Kind{KindUUIDPrefix, KindLabel, KindDescription}},
		{"0B0D", []Kind{KindUUIDPrefix, KindDescription}},
		{"deploy", []Kind{KindLabel, KindDescription}},
		{"work/deploy", []Kind{KindFQL, KindDescription}},
		{"Roll out", []Kind{KindDescription}},
	}
	for _, tt := range tests {
		if got := Classify(tt.raw).Tiers(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tiers(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	req := ParseArgs([]string{"+urgent", "report", "-someday", "5"})
	want := Request{
		Tokens:  []string{"report", "5"},
		Include: []string{"urgent"},
		Exclude: []string{"someday"},
	}
	if !reflect.DeepEqual(req, want) {
		t.Errorf("ParseArgs() = %+v, want %+v", req, want)
	}
}
