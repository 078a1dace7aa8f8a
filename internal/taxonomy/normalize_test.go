package taxonomy

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SSO Issues", "sso-issues"},
		{"  Onboarding  ", "onboarding"},
		{"billing/invoices", "billing-invoices"},
		{"a--b---c", "a-b-c"},
		{"--already-normal--", "already-normal"},
		{"Q3 Roadmap (draft)", "q3-roadmap-draft"},
		{"café menu", "caf-menu"},
		{"ＳＳＯ　Issues", "sso-issues"}, // full-width folds via NFKC
		{"", "topic"},
		{"   ", "topic"},
		{"!!!", "topic"},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"SSO Issues", "onboarding", "", "   ", "a--b", "Café Menu", "topic",
		"weird\t\nspacing here", "123 456",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
