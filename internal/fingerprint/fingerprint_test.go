package fingerprint

import (
	"strings"
	"testing"
)

func TestFingerprint_OrderInvariance(t *testing.T) {
	entries := []Entry{
		{Name: "Salt", Amount: "1", UnitID: "u1", IngredientID: "i1"},
		{Name: "Flour", Amount: "200", UnitID: "u2", IngredientID: "i2"},
	}
	reversed := []Entry{entries[1], entries[0]}
	instructions := []string{"Mix well."}

	a := Fingerprint(entries, instructions)
	b := Fingerprint(reversed, instructions)
	if a != b {
		t.Errorf("fingerprints differ across entry order:\n%s\n%s", a, b)
	}
}

func TestFingerprint_TieBreakByIdentity(t *testing.T) {
	// Same slugged name, different identities: order must still not matter.
	entries := []Entry{
		{Name: "stock", Amount: "1", UnitID: "u1", IngredientID: "i9"},
		{Name: "Stock", Amount: "2", UnitID: "u1", IngredientID: ""},
	}
	reversed := []Entry{entries[1], entries[0]}

	a := Fingerprint(entries, nil)
	b := Fingerprint(reversed, nil)
	if a != b {
		t.Errorf("tie-broken fingerprints differ:\n%s\n%s", a, b)
	}

	// The empty identity sorts first.
	if !strings.HasPrefix(a, "stock:2:u1|") {
		t.Errorf("fingerprint = %s, want empty-identity entry first", a)
	}
}

func TestFingerprint_SensitiveToAmountAndUnit(t *testing.T) {
	base := []Entry{
		{Name: "Salt", Amount: "1", UnitID: "u1"},
		{Name: "Flour", Amount: "200", UnitID: "u2"},
	}
	instructions := []string{"Mix well."}
	orig := Fingerprint(base, instructions)

	amountChanged := []Entry{
		{Name: "Salt", Amount: "2", UnitID: "u1"},
		{Name: "Flour", Amount: "200", UnitID: "u2"},
	}
	if Fingerprint(amountChanged, instructions) == orig {
		t.Error("changing an amount must change the fingerprint")
	}

	unitChanged := []Entry{
		{Name: "Salt", Amount: "1", UnitID: "u3"},
		{Name: "Flour", Amount: "200", UnitID: "u2"},
	}
	if Fingerprint(unitChanged, instructions) == orig {
		t.Error("changing a unit must change the fingerprint")
	}
}

func TestFingerprint_InstructionNormalization(t *testing.T) {
	entries := []Entry{{Name: "Salt", Amount: "1", UnitID: "u1"}}

	a := Fingerprint(entries, []string{"Mix well."})
	b := Fingerprint(entries, []string{"  mix   WELL"})
	if a != b {
		t.Errorf("whitespace/case in instructions changed the fingerprint:\n%s\n%s", a, b)
	}

	c := Fingerprint(entries, []string{"Mix badly."})
	if a == c {
		t.Error("different instructions must change the fingerprint")
	}
}

func TestFingerprint_EmptyUnitRendersNull(t *testing.T) {
	fp := Fingerprint([]Entry{{Name: "Salt", Amount: "1"}}, nil)
	if fp != "salt:1:null::" {
		t.Errorf("fingerprint = %q, want %q", fp, "salt:1:null::")
	}
}

func TestSlug(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Tomato   Sauce ", "tomato sauce"},
		{"FLOUR", "flour"},
		{"a\tb\nc", "a b c"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripDirections(t *testing.T) {
	got := StripDirections([]string{"1. Chop the onions;", "2. Fry (gently)!"})
	want := "chop the onions fry gently"
	if got != want {
		t.Errorf("StripDirections = %q, want %q", got, want)
	}

	if got := StripDirections(nil); got != "" {
		t.Errorf("StripDirections(nil) = %q, want empty", got)
	}
}

func TestDigest_Stable(t *testing.T) {
	fp := Fingerprint([]Entry{{Name: "Salt", Amount: "1", UnitID: "u1"}}, []string{"Mix."})
	if Digest(fp) != Digest(fp) {
		t.Error("digest must be deterministic")
	}
	if len(Digest(fp)) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(Digest(fp)))
	}
}
