package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Project struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	URL            string     `json:"url,omitempty"`
	State          string     `json:"state"`
	Visibility     string     `json:"visibility"`
	Revision       int        `json:"revision,omitempty"`
	LastUpdateTime *time.Time `json:"last_update_time,omitempty"`
}

type ProjectCreate struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Visibility        string `json:"visibility,omitempty"`
	SourceControlType string `json:"source_control_type,omitempty"`
	TemplateTypeID    string `json:"template_type_id,omitempty"`
}

type ProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ProjectList struct {
	Projects []Project `json:"projects"`
	Count    int       `json:"count"`
}

func (c *Client) ListProjects(ctx context.Context, skip, limit int) (ProjectList, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var list ProjectList
	if err := c.do(ctx, http.MethodGet, "/api/projects", query, nil, &list); err != nil {
		return ProjectList{}, err
	}

	return list, nil
}

func (c *Client) CreateProject(ctx context.Context, create ProjectCreate) (Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, create, &project); err != nil {
		return Project{}, err
	}

	return project, nil
}

func (c *Client) GetProject(ctx context.Context, projectID string) (Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID), nil, nil, &project); err != nil {
		return Project{}, err
	}

	return project, nil
}

func (c *Client) UpdateProject(ctx context.Context, projectID string, update ProjectUpdate) (Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPatch, "/api/projects/"+url.PathEscape(projectID), nil, update, &project); err != nil {
		return Project{}, err
	}

	return project, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(projectID), nil, nil, nil)
}

type WorkItem struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	WorkItemType string     `json:"work_item_type"`
	State        string     `json:"state"`
	Description  string     `json:"description,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	CreatedBy    string     `json:"created_by,omitempty"`
	CreatedDate  *time.Time `json:"created_date,omitempty"`
	ChangedDate  *time.Time `json:"changed_date,omitempty"`
	Priority     int        `json:"priority,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	URL          string     `json:"url,omitempty"`
	ProjectID    string     `json:"project_id,omitempty"`
	ParentID     int        `json:"parent_id,omitempty"`
}

type WorkItemCreate struct {
	Title        string   `json:"title"`
	WorkItemType string   `json:"work_item_type"`
	Description  string   `json:"description,omitempty"`
	AssignedTo   string   `json:"assigned_to,omitempty"`
	Priority     int      `json:"priority,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ParentID     int      `json:"parent_id,omitempty"`
}

type WorkItemUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	AssignedTo  *string  `json:"assigned_to,omitempty"`
	State       *string  `json:"state,omitempty"`
	Priority    *int     `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type WorkItemList struct {
	WorkItems []WorkItem `json:"work_items"`
	Count     int        `json:"count"`
}

type WorkItemFilter struct {
	WorkItemType string
	State        string
	Skip         int
	Limit        int
}

func (c *Client) ListWorkItems(ctx context.Context, projectID string, filter WorkItemFilter) (WorkItemList, error) {
	query := url.Values{}
	if filter.WorkItemType != "" {
		query.Set("work_item_type", filter.WorkItemType)
	}
	if filter.State != "" {
		query.Set("state", filter.State)
	}
	if filter.Skip > 0 {
		query.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var list WorkItemList
	path := fmt.Sprintf("/api/projects/%s/workitems", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, query, nil, &list); err != nil {
		return WorkItemList{}, err
	}

	return list, nil
}

func (c *Client) CreateWorkItem(ctx context.Context, projectID string, create WorkItemCreate) (WorkItem, error) {
	var item WorkItem
	path := fmt.Sprintf("/api/projects/%s/workitems", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodPost, path, nil, create, &item); err != nil {
		return WorkItem{}, err
	}

	return item, nil
}

func (c *Client) GetWorkItem(ctx context.Context, workItemID int) (WorkItem, error) {
	var item WorkItem
	if err := c.do(ctx, http.MethodGet, "/api/workitems/"+strconv.Itoa(workItemID), nil, nil, &item); err != nil {
		return WorkItem{}, err
	}

	return item, nil
}

func (c *Client) UpdateWorkItem(ctx context.Context, workItemID int, update WorkItemUpdate) (WorkItem, error) {
	var item WorkItem
	if err := c.do(ctx, http.MethodPatch, "/api/workitems/"+strconv.Itoa(workItemID), nil, update, &item); err != nil {
		return WorkItem{}, err
	}

	return item, nil
}

func (c *Client) DeleteWorkItem(ctx context.Context, workItemID int) error {
	return c.do(ctx, http.MethodDelete, "/api/workitems/"+strconv.Itoa(workItemID), nil, nil, nil)
}
