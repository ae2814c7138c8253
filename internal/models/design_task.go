package models

import "time"

const designTaskIDPrefix = "DT-"

// DesignTask is the design desk's view of an order that entered the design stage.
// It is derived from the order but keeps its own assignment and completion record.
type DesignTask struct {
	ID               string           `json:"id"`
	OrderID          string           `json:"orderId"`
	Customer         string           `json:"customer"`
	Items            []LineItem       `json:"items"`
	Date             time.Time        `json:"date"`
	Status           DesignTaskStatus `json:"status"`
	AssignedDesigner *string          `json:"assignedDesigner"`
	CompletionNotes  string           `json:"completionNotes,omitempty"`
	PartialReason    string           `json:"partialReason,omitempty"`
}

// DesignTaskID derives the task ID from its order ID.
func DesignTaskID(orderID string) string {
	return designTaskIDPrefix + orderID
}

// IsAssigned returns true if a designer has been set.
func (t *DesignTask) IsAssigned() bool {
	return t.AssignedDesigner != nil && *t.AssignedDesigner != ""
}

// IsCompleted returns true once the task is finished; completed tasks are final.
func (t *DesignTask) IsCompleted() bool {
	return t.Status == DesignTaskCompleted
}
