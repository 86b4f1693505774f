package api

import (
	"time"

	"taskcal/internal/schedule"
)

// Profile is the registration payload for signup and the OTP endpoints.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDetails is the user record returned by a successful login.
type UserDetails struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfileURL string `json:"profile_url,omitempty"`
	Status     string `json:"status,omitempty"`
	Role       string `json:"role,omitempty"`
}

// statusResponse is the minimal `{success, message}` envelope most
// endpoints reply with.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type loginResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	UserDetails UserDetails `json:"userDetails"`
}

type tasksResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Task    []taskPayload `json:"task"`
}

// taskPayload is the wire form of a task. Timestamps arrive as strings;
// conversion to domain types tolerates both RFC 3339 and the plain
// datetime-local form the web client submits.
type taskPayload struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ScheduledFor string `json:"scheduledFor"`
	Completed    bool   `json:"completed"`
	UserID       int64  `json:"user_id,omitempty"`
}

// taskWrite is the outgoing body for task create and edit calls.
type taskWrite struct {
	Name         string    `json:"name"`
	ScheduledFor time.Time `json:"scheduledFor"`
	Completed    bool      `json:"completed"`
	UserID       int64     `json:"user_id,omitempty"`
}

// timeLayouts are tried in order when parsing a scheduled time.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseScheduledFor(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// toTask converts a wire task to the domain type.
func toTask(p taskPayload) schedule.Task {
	return schedule.Task{
		ID:           p.ID,
		Name:         p.Name,
		ScheduledFor: parseScheduledFor(p.ScheduledFor),
		Completed:    p.Completed,
		OwnerID:      p.UserID,
	}
}
