package devops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avencore/devops-agent/internal/devops"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

func TestService_Projects(t *testing.T) {
	service := devops.NewService()

	t.Run("list is empty", func(t *testing.T) {
		list, err := service.ListProjects(t.Context(), 0, 100)
		require.NoError(t, err)
		assert.Empty(t, list.Projects)
		assert.Zero(t, list.Count)
	})

	t.Run("create echoes the request", func(t *testing.T) {
		project, err := service.CreateProject(t.Context(), devops.ProjectCreate{
			Name:        "My Project",
			Description: "A sample project",
		})
		require.NoError(t, err)
		assert.Equal(t, "mock-project-123", project.ID)
		assert.Equal(t, "My Project", project.Name)
		assert.Equal(t, devops.ProjectStateCreated, project.State)
		assert.Equal(t, devops.VisibilityPrivate, project.Visibility, "visibility defaults to private")
		assert.Equal(t, 1, project.Revision)
	})

	t.Run("create requires a name", func(t *testing.T) {
		_, err := service.CreateProject(t.Context(), devops.ProjectCreate{})

		var serviceErr *serviceerr.Error
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, serviceerr.CodeInvalidRequest, serviceErr.Err)
	})

	t.Run("get, update and delete are not found", func(t *testing.T) {
		_, err := service.GetProject(t.Context(), "project-1")
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)

		_, err = service.UpdateProject(t.Context(), "project-1", devops.ProjectUpdate{})
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)

		assert.ErrorIs(t, service.DeleteProject(t.Context(), "project-1"), serviceerr.ErrNotFound)
	})
}

func TestService_WorkItems(t *testing.T) {
	service := devops.NewService()

	t.Run("list is empty", func(t *testing.T) {
		list, err := service.ListWorkItems(t.Context(), "project-1", devops.WorkItemFilter{Limit: 100})
		require.NoError(t, err)
		assert.Empty(t, list.WorkItems)
		assert.Zero(t, list.Count)
	})

	t.Run("create echoes the request", func(t *testing.T) {
		item, err := service.CreateWorkItem(t.Context(), "project-1", devops.WorkItemCreate{
			Title:        "Implement user login",
			WorkItemType: devops.TypeUserStory,
			Tags:         []string{"authentication", "frontend"},
		})
		require.NoError(t, err)
		assert.Equal(t, 123, item.ID)
		assert.Equal(t, devops.StateNew, item.State)
		assert.Equal(t, "project-1", item.ProjectID)
		assert.Equal(t, 2, item.Priority, "priority defaults to 2")
	})

	t.Run("create validates title and type", func(t *testing.T) {
		var serviceErr *serviceerr.Error

		_, err := service.CreateWorkItem(t.Context(), "project-1", devops.WorkItemCreate{WorkItemType: devops.TypeBug})
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, serviceerr.CodeInvalidRequest, serviceErr.Err)

		_, err = service.CreateWorkItem(t.Context(), "project-1", devops.WorkItemCreate{Title: "No type"})
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, serviceerr.CodeInvalidRequest, serviceErr.Err)
	})

	t.Run("get, update and delete are not found", func(t *testing.T) {
		_, err := service.GetWorkItem(t.Context(), 123)
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)

		_, err = service.UpdateWorkItem(t.Context(), 123, devops.WorkItemUpdate{})
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)

		assert.ErrorIs(t, service.DeleteWorkItem(t.Context(), 123), serviceerr.ErrNotFound)
	})
}
