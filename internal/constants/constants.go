package constants

import "time"

// Context keys
const (
	ContextKeyOwnerID = "owner_id"
)

// Task field limits
const (
	MaxTitleLength       = 100
	MaxSubjectLength     = 50
	MaxDescriptionLength = 500
)

// DueDateLayout is the calendar-date form accepted for dueDate.
const DueDateLayout = "2006-01-02"

const (
	DefaultClientTimeout   = 5 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	LocalTaskIDPrefix      = "local-"
)
