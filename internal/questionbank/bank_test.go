package questionbank

import (
	"testing"
)

func newBank(t *testing.T) *Bank {
	t.Helper()
	b, err := New()
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return b
}

func TestDataScientistHasFiveQuestions(t *testing.T) {
	b := newBank(t)

	if got := len(b.Questions("Data Scientist", "")); got != 5 {
		t.Fatalf("expected 5 base questions, got %d", got)
	}
	if got := len(b.Questions("Data Scientist", "Advanced")); got != 5 {
		t.Fatalf("expected 5 advanced questions, got %d", got)
	}
}

func TestUnknownRoleFallsBackToDefault(t *testing.T) {
	b := newBank(t)

	got := b.Questions("Astronaut", "")
	want := b.Questions(DefaultRole, "")
	if len(got) == 0 {
		t.Fatalf("expected non-empty fallback")
	}
	if got[0] != want[0] || len(got) != len(want) {
		t.Fatalf("fallback did not use default role: %v", got)
	}
	if b.Has("Astronaut") {
		t.Fatalf("unknown role reported as present")
	}
}

func TestDifficultyOverride(t *testing.T) {
	b := newBank(t)

	base := b.Questions("Frontend Developer", "")
	beginner := b.Questions("frontend developer", "beginner")
	if beginner[0] == base[0] {
		t.Fatalf("expected beginner override, got base list")
	}

	// roles without an override use the base list
	pm := b.Questions("Product Manager", "Advanced")
	if pm[0] != b.Questions("Product Manager", "")[0] {
		t.Fatalf("expected base list for missing difficulty")
	}
}

func TestQuestionsReturnsCopy(t *testing.T) {
	b := newBank(t)

	qs := b.Questions("Data Scientist", "")
	qs[0] = "mutated"
	if b.Questions("Data Scientist", "")[0] == "mutated" {
		t.Fatalf("caller mutation leaked into the bank")
	}
}

func TestMerge(t *testing.T) {
	b := newBank(t)
	before := len(b.Roles())

	merged, skipped := b.Merge([]QuestionSet{
		{Role: "QA Engineer", Questions: []string{"How do you write a test plan?"}},
		{Role: "Data Scientist", Questions: []string{"Replaced question?"}},
		{Role: "", Questions: []string{"no role"}},
		{Role: "Empty"},
	})
	if merged != 2 || skipped != 2 {
		t.Fatalf("expected 2 merged / 2 skipped, got %d / %d", merged, skipped)
	}
	if len(b.Roles()) != before+1 {
		t.Fatalf("expected one new role, got %v", b.Roles())
	}
	if got := b.Questions("Data Scientist", ""); len(got) != 1 || got[0] != "Replaced question?" {
		t.Fatalf("expected replaced set, got %v", got)
	}
}

func TestRolesSorted(t *testing.T) {
	roles := newBank(t).Roles()
	for i := 1; i < len(roles); i++ {
		if roles[i-1] > roles[i] {
			t.Fatalf("roles not sorted: %v", roles)
		}
	}
}
