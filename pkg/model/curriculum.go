package model

// Subject is a curriculum subject such as "Mathematics".
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Grade is a school grade level.
type Grade struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Lesson is a generated curriculum lesson.
type Lesson struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// GenerateRequest asks the backend to generate lessons. With DryRun set the
// backend reports what it would create without persisting anything.
type GenerateRequest struct {
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
	Count   int    `json:"count,omitempty"`
	DryRun  bool   `json:"dryRun"`
}

// GenerateResult is the outcome of a generation request.
type GenerateResult struct {
	DryRun  bool     `json:"dryRun"`
	Created int      `json:"created"`
	Lessons []Lesson `json:"lessons"`
}

// Assignment is work assigned to (or by) a user.
type Assignment struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Subject string `json:"subject,omitempty"`
	DueDate string `json:"dueDate,omitempty"`
	Status  string `json:"status,omitempty"`
}

// LibraryItem is a resource in a user's library.
type LibraryItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind,omitempty"`
	URL   string `json:"url,omitempty"`
}
