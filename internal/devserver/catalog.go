package devserver

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/me/eduportal/pkg/model"
)

const maxGenerateCount = 10

// catalog is the canned curriculum data. Callers hold Server.mu.
type catalog struct {
	subjects []model.Subject
	grades   []model.Grade
	lessons  []model.Lesson
}

func newCatalog() *catalog {
	return &catalog{
		subjects: []model.Subject{
			{ID: "math", Name: "Mathematics"},
			{ID: "science", Name: "Science"},
			{ID: "reading", Name: "Reading"},
			{ID: "history", Name: "History"},
		},
		grades: []model.Grade{
			{ID: "k", Name: "Kindergarten", Level: 0},
			{ID: "g1", Name: "Grade 1", Level: 1},
			{ID: "g2", Name: "Grade 2", Level: 2},
			{ID: "g3", Name: "Grade 3", Level: 3},
			{ID: "g4", Name: "Grade 4", Level: 4},
			{ID: "g5", Name: "Grade 5", Level: 5},
		},
	}
}

func (c *catalog) subject(id string) (model.Subject, bool) {
	for _, s := range c.subjects {
		if s.ID == id {
			return s, true
		}
	}
	return model.Subject{}, false
}

func (c *catalog) grade(id string) (model.Grade, bool) {
	for _, g := range c.grades {
		if g.ID == id {
			return g, true
		}
	}
	return model.Grade{}, false
}

// plan builds the lessons a generation request would produce.
func (c *catalog) plan(subj model.Subject, grade model.Grade, count int) []model.Lesson {
	existing := 0
	for _, l := range c.lessons {
		if l.Subject == subj.ID && l.Grade == grade.ID {
			existing++
		}
	}
	lessons := make([]model.Lesson, 0, count)
	for i := 1; i <= count; i++ {
		n := existing + i
		lessons = append(lessons, model.Lesson{
			ID:      "les_" + uuid.New().String()[:8],
			Subject: subj.ID,
			Grade:   grade.ID,
			Title:   fmt.Sprintf("%s, %s: Lesson %d", subj.Name, grade.Name, n),
			Summary: fmt.Sprintf("Unit %d of the %s track for %s.", n, subj.Name, grade.Name),
		})
	}
	return lessons
}

func (c *catalog) filterLessons(subject, grade string) []model.Lesson {
	out := []model.Lesson{}
	for _, l := range c.lessons {
		if subject != "" && l.Subject != subject {
			continue
		}
		if grade != "" && l.Grade != grade {
			continue
		}
		out = append(out, l)
	}
	return out
}
