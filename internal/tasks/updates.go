package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ProjectGroups Phase = iota
	EnsureSystemTags
	ConsolidateContacts
	AssignTags
)

func (p Phase) String() string {
	switch p {
	case ProjectGroups:
		return "project_groups"
	case EnsureSystemTags:
		return "ensure_system_tags"
	case ConsolidateContacts:
		return "consolidate_contacts"
	case AssignTags:
		return "assign_tags"
	default:
		return "unknown"
	}
}

func projectGroupsUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProjectGroups,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Migrating group %q (%d/%d)", name, step, total),
	}
}

func systemTagsUpdate(step, total int, site int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnsureSystemTags,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Ensuring system tags for site %d (%d/%d)", site, step, total),
	}
}

func consolidateUpdate(step, total int, email string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ConsolidateContacts,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Consolidating contact %s (%d/%d)", email, step, total),
	}
}

func assignTagsUpdate(step, total int, email string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AssignTags,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Assigning tags to %s (%d/%d)", email, step, total),
	}
}
