package grading

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestAverage(t *testing.T) {
	s := Student{Name: "Marcos", Absences: 6, Grades: []float64{7, 5, 9, 3}}
	if math.Abs(s.Average()-6.0) > 1e-9 {
		t.Fatalf("expected 6.0, got %.4f", s.Average())
	}
	if (Student{}).Average() != 0 {
		t.Fatal("no grades should average to 0")
	}
}

func TestPasses_Examples(t *testing.T) {
	c := &Course{PassingGrade: 6, MaxAbsences: 3}
	marcos := Student{Name: "Marcos", Absences: 6, Grades: []float64{7, 5, 9, 3}}
	if c.Passes(marcos) {
		t.Fatal("average 6.0 with 6 absences over a limit of 3 should fail")
	}
	clayton := Student{Name: "Clayton", Absences: 0, Grades: []float64{9, 8, 8, 9}}
	if !c.Passes(clayton) {
		t.Fatal("average 8.5 with no absences should pass")
	}
}

func TestPasses_AbsenceLimitNeedsHonours(t *testing.T) {
	c := &Course{PassingGrade: 7, MaxAbsences: 3}
	onLimit := Student{Absences: 3, Grades: []float64{7.7}}
	if c.Passes(onLimit) {
		t.Fatal("exactly 110% of the passing grade on the limit should fail")
	}
	onLimit.Grades = []float64{7.8}
	if !c.Passes(onLimit) {
		t.Fatal("above 110% of the passing grade on the limit should pass")
	}
	overLimit := Student{Absences: 4, Grades: []float64{10}}
	if c.Passes(overLimit) {
		t.Fatal("absences over the limit should always fail")
	}
	atThreshold := Student{Absences: 2, Grades: []float64{7}}
	if !c.Passes(atThreshold) {
		t.Fatal("average equal to the passing grade under the limit should pass")
	}
}

func TestDefaultCourse_Report(t *testing.T) {
	want := map[string]bool{
		"Marcos":  false,
		"Clayton": true,
		"Erick":   true,
		"Gui":     true,
		"Heberth": true,
		"Lana":    true, // 8.5 > 7.7 on exactly the limit
	}
	results := DefaultCourse().Report()
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for _, r := range results {
		if r.Passed != want[r.Name] {
			t.Fatalf("%s: expected passed=%v, got %v", r.Name, want[r.Name], r.Passed)
		}
	}
	if got := results[0].String(); got != "Marcos está reprovado com média de 6" {
		t.Fatalf("unexpected line %q", got)
	}
	if got := results[1].String(); got != "Clayton está aprovado com média de 8.5" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestLoadCourse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	data := []byte(`name: Algoritmos
passing_grade: 6
max_absences: 2
students:
  - name: Ana
    absences: 1
    grades: [6, 7]
  - name: Bia
    absences: 2
    grades: [6, 6]
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCourse(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Algoritmos" || len(c.Students) != 2 {
		t.Fatalf("unexpected course %+v", c)
	}
	r := c.Report()
	if !r[0].Passed || r[1].Passed {
		t.Fatalf("expected Ana to pass and Bia to fail, got %+v", r)
	}
}

func TestLoadCourse_RejectsEmptyGrades(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	if err := os.WriteFile(path, []byte("students:\n  - name: Ana\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCourse(path); !errors.Is(err, ErrNoGrades) {
		t.Fatalf("expected ErrNoGrades, got %v", err)
	}
}
