package devops

import (
	"context"

	"github.com/avencore/devops-agent/internal/serviceerr"
)

const (
	mockProjectID  = "mock-project-123"
	mockWorkItemID = 123

	defaultPriority = 2
)

// Service answers project and work item operations. Validation and response
// shapes are final; the Azure DevOps REST calls behind them are still to
// come.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) ListProjects(_ context.Context, _, _ int) (ProjectList, error) {
	return ProjectList{Projects: []Project{}, Count: 0}, nil
}

func (s *Service) CreateProject(_ context.Context, create ProjectCreate) (Project, error) {
	if create.Name == "" {
		return Project{}, &serviceerr.Error{Err: serviceerr.CodeInvalidRequest, Description: "project name is required"}
	}

	visibility := create.Visibility
	if visibility == "" {
		visibility = VisibilityPrivate
	}

	return Project{
		ID:          mockProjectID,
		Name:        create.Name,
		Description: create.Description,
		State:       ProjectStateCreated,
		Visibility:  visibility,
		Revision:    1,
	}, nil
}

func (s *Service) GetProject(_ context.Context, _ string) (Project, error) {
	return Project{}, serviceerr.ErrNotFound
}

func (s *Service) UpdateProject(_ context.Context, _ string, _ ProjectUpdate) (Project, error) {
	return Project{}, serviceerr.ErrNotFound
}

func (s *Service) DeleteProject(_ context.Context, _ string) error {
	return serviceerr.ErrNotFound
}

func (s *Service) ListWorkItems(_ context.Context, _ string, _ WorkItemFilter) (WorkItemList, error) {
	return WorkItemList{WorkItems: []WorkItem{}, Count: 0}, nil
}

func (s *Service) CreateWorkItem(_ context.Context, projectID string, create WorkItemCreate) (WorkItem, error) {
	if create.Title == "" {
		return WorkItem{}, &serviceerr.Error{Err: serviceerr.CodeInvalidRequest, Description: "work item title is required"}
	}

	if create.WorkItemType == "" {
		return WorkItem{}, &serviceerr.Error{Err: serviceerr.CodeInvalidRequest, Description: "work item type is required"}
	}

	priority := create.Priority
	if priority == 0 {
		priority = defaultPriority
	}

	return WorkItem{
		ID:           mockWorkItemID,
		Title:        create.Title,
		WorkItemType: create.WorkItemType,
		State:        StateNew,
		Description:  create.Description,
		AssignedTo:   create.AssignedTo,
		Priority:     priority,
		Tags:         create.Tags,
		ProjectID:    projectID,
		ParentID:     create.ParentID,
	}, nil
}

func (s *Service) GetWorkItem(_ context.Context, _ int) (WorkItem, error) {
	return WorkItem{}, serviceerr.ErrNotFound
}

func (s *Service) UpdateWorkItem(_ context.Context, _ int, _ WorkItemUpdate) (WorkItem, error) {
	return WorkItem{}, serviceerr.ErrNotFound
}

func (s *Service) DeleteWorkItem(_ context.Context, _ int) error {
	return serviceerr.ErrNotFound
}
