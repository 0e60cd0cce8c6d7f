package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/me/eduportal/pkg/model"
)

// envelopeError turns a 2xx response that reports success=false into an error.
func envelopeError(env model.Envelope, fallback string) error {
	if env.Success {
		return nil
	}
	return &model.APIError{Code: model.ErrInternal, Message: env.Reason(fallback)}
}

// Subjects lists curriculum subjects. Requires an admin session.
func (c *Client) Subjects(ctx context.Context) ([]model.Subject, error) {
	var resp struct {
		model.Envelope
		Subjects []model.Subject `json:"subjects"`
	}
	if err := c.Get(ctx, "admin/curriculum/subjects", &resp); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	if err := envelopeError(resp.Envelope, "Failed to load subjects"); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return resp.Subjects, nil
}

// Grades lists grade levels.
func (c *Client) Grades(ctx context.Context) ([]model.Grade, error) {
	var resp struct {
		model.Envelope
		Grades []model.Grade `json:"grades"`
	}
	if err := c.Get(ctx, "admin/curriculum/grades", &resp); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	if err := envelopeError(resp.Envelope, "Failed to load grades"); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return resp.Grades, nil
}

// Lessons lists generated lessons, optionally filtered by subject and grade.
func (c *Client) Lessons(ctx context.Context, subject, grade string) ([]model.Lesson, error) {
	q := url.Values{}
	if subject != "" {
		q.Set("subject", subject)
	}
	if grade != "" {
		q.Set("grade", grade)
	}
	endpoint := "admin/curriculum/lessons"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var resp struct {
		model.Envelope
		Lessons []model.Lesson `json:"lessons"`
	}
	if err := c.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	if err := envelopeError(resp.Envelope, "Failed to load lessons"); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return resp.Lessons, nil
}

// Generate asks the backend to generate lessons. With req.DryRun the result
// describes what would be created and nothing is stored.
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest) (*model.GenerateResult, error) {
	if req.Subject == "" || req.Grade == "" {
		return nil, model.NewValidationError("subject and grade are required")
	}
	var resp struct {
		model.Envelope
		model.GenerateResult
	}
	if err := c.Post(ctx, "admin/curriculum/generate", req, &resp); err != nil {
		return nil, fmt.Errorf("generate curriculum: %w", err)
	}
	if err := envelopeError(resp.Envelope, "Generation failed"); err != nil {
		return nil, fmt.Errorf("generate curriculum: %w", err)
	}
	return &resp.GenerateResult, nil
}

// Assignments lists the assignments visible to user id in role.
func (c *Client) Assignments(ctx context.Context, role model.Role, id string) ([]model.Assignment, error) {
	var resp struct {
		model.Envelope
		Assignments []model.Assignment `json:"assignments"`
	}
	endpoint := "assignment/" + url.PathEscape(string(role)) + "/" + url.PathEscape(id)
	if err := c.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	if err := envelopeError(resp.Envelope, "Failed to load assignments"); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return resp.Assignments, nil
}

// Library lists the library items visible to user id in role.
func (c *Client) Library(ctx context.Context, role model.Role, id string) ([]model.LibraryItem, error) {
	var resp struct {
		model.Envelope
		Items []model.LibraryItem `json:"items"`
	}
	endpoint := "library/" + url.PathEscape(string(role)) + "/" + url.PathEscape(id)
	if err := c.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	if err := envelopeError(resp.Envelope, "Failed to load library"); err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	return resp.Items, nil
}
