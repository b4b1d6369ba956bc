package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGrades_DefaultRoster(t *testing.T) {
	var buf bytes.Buffer
	gradesCmd.SetOut(&buf)
	flagRoster = ""
	if err := runGrades(gradesCmd, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Programação Imperativa",
		"---- Nova lista de alunos ----",
		"---- Lista de Aprovação ----",
		"Marcos está reprovado com média de 6",
		"Clayton está aprovado com média de 8.5",
		"Lana está aprovado com média de 8.5",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Nova lista de alunos") > strings.Index(out, "Lista de Aprovação") {
		t.Fatal("roster should be listed before the approval results")
	}
}

func TestGrades_MissingRoster(t *testing.T) {
	var buf bytes.Buffer
	gradesCmd.SetOut(&buf)
	flagRoster = filepath.Join(t.TempDir(), "missing.yaml")
	defer func() { flagRoster = "" }()
	if err := runGrades(gradesCmd, nil); err == nil {
		t.Fatal("expected an error for a missing roster")
	}
}

func TestGrades_RosterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	doc := "name: Redes\npassing_grade: 5\nmax_absences: 1\nstudents:\n  - name: Caio\n    absences: 0\n    grades: [5, 6]\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	gradesCmd.SetOut(&buf)
	flagRoster = path
	defer func() { flagRoster = "" }()
	if err := runGrades(gradesCmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Caio está aprovado com média de 5.5") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
