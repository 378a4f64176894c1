// Package devops models Azure DevOps projects and work items and the service
// operations the API exposes on them. The Azure DevOps REST integration is
// not built yet: reads answer with empty collections or not-found, writes
// echo a mock resource, so the frontend can be developed against the final
// API shape.
package devops

import "time"

type ProjectVisibility string

const (
	VisibilityPrivate ProjectVisibility = "private"
	VisibilityPublic  ProjectVisibility = "public"
)

type ProjectState string

const (
	ProjectStateCreating ProjectState = "creating"
	ProjectStateCreated  ProjectState = "created"
	ProjectStateDeleting ProjectState = "deleting"
	ProjectStateDeleted  ProjectState = "deleted"
)

type Project struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	URL            string            `json:"url,omitempty"`
	State          ProjectState      `json:"state"`
	Visibility     ProjectVisibility `json:"visibility"`
	Revision       int               `json:"revision,omitempty"`
	LastUpdateTime *time.Time        `json:"last_update_time,omitempty"`
}

type ProjectCreate struct {
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	Visibility        ProjectVisibility `json:"visibility,omitempty"`
	SourceControlType string            `json:"source_control_type,omitempty"`
	TemplateTypeID    string            `json:"template_type_id,omitempty"`
}

type ProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ProjectList struct {
	Projects []Project `json:"projects"`
	Count    int       `json:"count"`
}

type WorkItemType string

const (
	TypeUserStory WorkItemType = "User Story"
	TypeTask      WorkItemType = "Task"
	TypeBug       WorkItemType = "Bug"
	TypeEpic      WorkItemType = "Epic"
	TypeFeature   WorkItemType = "Feature"
	TypeTestCase  WorkItemType = "Test Case"
)

type WorkItemState string

const (
	StateNew      WorkItemState = "New"
	StateActive   WorkItemState = "Active"
	StateResolved WorkItemState = "Resolved"
	StateClosed   WorkItemState = "Closed"
	StateRemoved  WorkItemState = "Removed"
)

type WorkItem struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	WorkItemType WorkItemType  `json:"work_item_type"`
	State        WorkItemState `json:"state"`
	Description  string        `json:"description,omitempty"`
	AssignedTo   string        `json:"assigned_to,omitempty"`
	CreatedBy    string        `json:"created_by,omitempty"`
	CreatedDate  *time.Time    `json:"created_date,omitempty"`
	ChangedDate  *time.Time    `json:"changed_date,omitempty"`
	Priority     int           `json:"priority,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	URL          string        `json:"url,omitempty"`
	ProjectID    string        `json:"project_id,omitempty"`
	ParentID     int           `json:"parent_id,omitempty"`
}

type WorkItemCreate struct {
	Title        string       `json:"title"`
	WorkItemType WorkItemType `json:"work_item_type"`
	Description  string       `json:"description,omitempty"`
	AssignedTo   string       `json:"assigned_to,omitempty"`
	Priority     int          `json:"priority,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	ParentID     int          `json:"parent_id,omitempty"`
}

type WorkItemUpdate struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	AssignedTo  *string        `json:"assigned_to,omitempty"`
	State       *WorkItemState `json:"state,omitempty"`
	Priority    *int           `json:"priority,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

type WorkItemList struct {
	WorkItems []WorkItem `json:"work_items"`
	Count     int        `json:"count"`
}

// WorkItemFilter narrows a project's work item listing.
type WorkItemFilter struct {
	WorkItemType string
	State        string
	Skip         int
	Limit        int
}
