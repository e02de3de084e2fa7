package routers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/kipanshi/odesk-meter/pkg/client"
)

// Task manages the activity codes contractors log time against. Company-wide
// variants address the company's root team, whose id equals the company id.
type Task struct {
	r *client.Router
}

// NewTask binds the task group to c.
func NewTask(c client.Caller) *Task {
	return &Task{r: client.NewRouter(c, TaskNamespace)}
}

// TaskSpec describes a task to create or update.
type TaskSpec struct {
	Code         string
	Description  string
	URL          string
	Engagements  []string
	AllInCompany bool
}

func (s TaskSpec) params() client.Params {
	p := client.Params{
		"code":        s.Code,
		"description": s.Description,
		"url":         s.URL,
	}
	if len(s.Engagements) > 0 {
		p["engagements"] = joinCodes(s.Engagements)
	}
	if s.AllInCompany {
		p["all_in_company"] = 1
	}
	return p
}

func teamPath(companyID, teamID string, parts ...string) string {
	return fmt.Sprintf("tasks/companies/%s/teams/%s/%s", companyID, teamID, strings.Join(parts, "/"))
}

// joinCodes joins task codes with ';' as the service expects in paths and
// fields.
func joinCodes(codes []string) string {
	return strings.Join(codes, ";")
}

func escapeCodes(codes []string) string {
	return url.PathEscape(joinCodes(codes))
}

func (t *Task) list(ctx context.Context, path string) (client.Result, error) {
	res, err := t.r.Get(ctx, path, nil)
	if err != nil {
		return client.Result{}, err
	}
	return res.Unwrap("tasks"), nil
}

// TeamTasks lists the tasks of a team.
func (t *Task) TeamTasks(ctx context.Context, companyID, teamID string) (client.Result, error) {
	return t.list(ctx, teamPath(companyID, teamID, "tasks"))
}

// CompanyTasks lists the tasks of a company.
func (t *Task) CompanyTasks(ctx context.Context, companyID string) (client.Result, error) {
	return t.TeamTasks(ctx, companyID, companyID)
}

// TeamSpecificTasks returns the named tasks of a team.
func (t *Task) TeamSpecificTasks(ctx context.Context, companyID, teamID string, codes ...string) (client.Result, error) {
	if len(codes) == 0 {
		return client.Result{}, client.NewValidationError("at least one task code is required")
	}
	return t.list(ctx, teamPath(companyID, teamID, "tasks", escapeCodes(codes)))
}

// CompanySpecificTasks returns the company tasks with the given codes.
func (t *Task) CompanySpecificTasks(ctx context.Context, companyID string, codes ...string) (client.Result, error) {
	return t.TeamSpecificTasks(ctx, companyID, companyID, codes...)
}

// PostTeamTask creates a team task.
func (t *Task) PostTeamTask(ctx context.Context, companyID, teamID string, spec TaskSpec) (client.Result, error) {
	return t.r.Post(ctx, teamPath(companyID, teamID, "tasks"), spec.params())
}

// PostCompanyTask creates a company task.
func (t *Task) PostCompanyTask(ctx context.Context, companyID string, spec TaskSpec) (client.Result, error) {
	return t.PostTeamTask(ctx, companyID, companyID, spec)
}

// PutTeamTask updates the task identified by spec.Code.
func (t *Task) PutTeamTask(ctx context.Context, companyID, teamID string, spec TaskSpec) (client.Result, error) {
	if spec.Code == "" {
		return client.Result{}, client.NewValidationError("task code is required")
	}
	return t.r.Put(ctx, teamPath(companyID, teamID, "tasks", url.PathEscape(spec.Code)), spec.params())
}

// PutCompanyTask updates the company task identified by spec.Code.
func (t *Task) PutCompanyTask(ctx context.Context, companyID string, spec TaskSpec) (client.Result, error) {
	return t.PutTeamTask(ctx, companyID, companyID, spec)
}

// ArchiveTeamTask archives team tasks by code.
func (t *Task) ArchiveTeamTask(ctx context.Context, companyID, teamID string, codes ...string) (client.Result, error) {
	return t.toggleArchive(ctx, "archive", companyID, teamID, codes)
}

// ArchiveCompanyTask archives company tasks by code.
func (t *Task) ArchiveCompanyTask(ctx context.Context, companyID string, codes ...string) (client.Result, error) {
	return t.ArchiveTeamTask(ctx, companyID, companyID, codes...)
}

// UnarchiveTeamTask restores archived team tasks.
func (t *Task) UnarchiveTeamTask(ctx context.Context, companyID, teamID string, codes ...string) (client.Result, error) {
	return t.toggleArchive(ctx, "unarchive", companyID, teamID, codes)
}

// UnarchiveCompanyTask restores archived company tasks.
func (t *Task) UnarchiveCompanyTask(ctx context.Context, companyID string, codes ...string) (client.Result, error) {
	return t.UnarchiveTeamTask(ctx, companyID, companyID, codes...)
}

func (t *Task) toggleArchive(ctx context.Context, action, companyID, teamID string, codes []string) (client.Result, error) {
	if len(codes) == 0 {
		return client.Result{}, client.NewValidationError("at least one task code is required")
	}
	return t.r.Put(ctx, teamPath(companyID, teamID, action, escapeCodes(codes)), client.Params{})
}

// AssignEngagement replaces the set of tasks an engagement may log time to.
func (t *Task) AssignEngagement(ctx context.Context, companyID, teamID, engagement string, codes ...string) (client.Result, error) {
	path := teamPath(companyID, teamID, "engagements", engagement, "tasks")
	return t.r.Put(ctx, path, client.Params{"tasks": joinCodes(codes)})
}

// UpdateBatchTasks applies CSV rows of "company,team,code,description,url".
func (t *Task) UpdateBatchTasks(ctx context.Context, companyID, csv string) (client.Result, error) {
	return t.r.Put(ctx, "tasks/companies/"+companyID+"/tasks/batch", client.Params{"data": csv})
}
