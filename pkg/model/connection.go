package model

import "time"

// ConnectionType is the kind of account a student paired with.
type ConnectionType string

const (
	ConnectionTeacher ConnectionType = "teacher"
	ConnectionParent  ConnectionType = "parent"
)

// Connection records a student's successful pairing with a teacher or parent.
type Connection struct {
	Code        string         `json:"code"`
	Type        ConnectionType `json:"type"`
	Name        string         `json:"name"`
	UserID      string         `json:"userId"`
	ConnectedAt time.Time      `json:"connectedAt"`
}
