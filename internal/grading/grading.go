// Package grading decides pass/fail for a course roster from grade averages
// and absences.
package grading

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// honoursFactor is how far above the passing grade a student must average
// to pass while sitting exactly on the absence limit.
const honoursFactor = 1.1

// ErrNoGrades is returned when a student has no grades to average.
var ErrNoGrades = errors.New("student has no grades")

// Student is one enrolled student.
type Student struct {
	Name     string    `yaml:"name"`
	Absences int       `yaml:"absences"`
	Grades   []float64 `yaml:"grades"`
}

// Average returns the arithmetic mean of the student's grades, or 0 when
// there are none.
func (s Student) Average() float64 {
	if len(s.Grades) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range s.Grades {
		sum += g
	}
	return sum / float64(len(s.Grades))
}

// Course is a roster plus its approval thresholds.
type Course struct {
	Name         string    `yaml:"name"`
	PassingGrade float64   `yaml:"passing_grade"`
	MaxAbsences  int       `yaml:"max_absences"`
	Students     []Student `yaml:"students"`
}

// AddStudent appends a student to the roster.
func (c *Course) AddStudent(name string, absences int, grades ...float64) {
	c.Students = append(c.Students, Student{Name: name, Absences: absences, Grades: grades})
}

// Passes applies the approval rule: a student passes with an average at or
// above the passing grade and fewer absences than the limit, or with an
// average above 110% of the passing grade and exactly the limit.
func (c *Course) Passes(s Student) bool {
	avg := s.Average()
	if avg >= c.PassingGrade && s.Absences < c.MaxAbsences {
		return true
	}
	return avg > c.PassingGrade*honoursFactor && s.Absences == c.MaxAbsences
}

// Result is the verdict for one student.
type Result struct {
	Name    string
	Average float64
	Passed  bool
}

// String renders the verdict the way the course office prints it.
func (r Result) String() string {
	verdict := "reprovado"
	if r.Passed {
		verdict = "aprovado"
	}
	return fmt.Sprintf("%s está %s com média de %s", r.Name, verdict, formatAverage(r.Average))
}

// formatAverage prints whole averages without decimals and others with as
// many as needed.
func formatAverage(v float64) string {
	return fmt.Sprintf("%g", v)
}

// Report returns the verdict for every student in roster order.
func (c *Course) Report() []Result {
	out := make([]Result, 0, len(c.Students))
	for _, s := range c.Students {
		out = append(out, Result{Name: s.Name, Average: s.Average(), Passed: c.Passes(s)})
	}
	return out
}

// Validate checks the roster for students without grades.
func (c *Course) Validate() error {
	for _, s := range c.Students {
		if len(s.Grades) == 0 {
			return fmt.Errorf("%s: %w", s.Name, ErrNoGrades)
		}
	}
	return nil
}

// DefaultCourse returns the built-in roster.
func DefaultCourse() *Course {
	c := &Course{
		Name:         "Programação Imperativa",
		PassingGrade: 7,
		MaxAbsences:  3,
	}
	c.AddStudent("Marcos", 6, 7, 5, 9, 3)
	c.AddStudent("Clayton", 2, 9, 8, 8, 9)
	c.AddStudent("Erick", 1, 9, 8, 8, 9)
	c.AddStudent("Gui", 0, 9, 8, 8, 9)
	c.AddStudent("Heberth", 1, 9, 8, 8, 9)
	c.AddStudent("Lana", 3, 9, 8, 8, 9)
	return c
}

// LoadCourse reads a roster from a YAML file.
func LoadCourse(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster %s: %w", path, err)
	}
	var c Course
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roster %s: %w", path, err)
	}
	return &c, nil
}
