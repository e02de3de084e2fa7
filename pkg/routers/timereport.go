package routers

import (
	"context"
	"fmt"
	"strings"

	"github.com/kipanshi/odesk-meter/pkg/client"
	"github.com/oapi-codegen/runtime/types"
)

// DefaultTimereportFields are selected when a Query names no fields.
var DefaultTimereportFields = []string{"worked_on", "team_id", "team_name", "task", "memo", "hours"}

// Query is a GDS table query restricted to a range of worked_on days. Zero
// bounds are left open.
type Query struct {
	Select  []string
	From    types.Date
	To      types.Date
	OrderBy []string
}

// String renders the query in the service's query language, e.g.
//
//	SELECT worked_on, hours WHERE (worked_on >= '2013-05-06') AND (worked_on <= '2013-05-08')
func (q Query) String() string {
	fields := q.Select
	if len(fields) == 0 {
		fields = DefaultTimereportFields
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(fields, ", "))

	var where []string
	if !q.From.Time.IsZero() {
		where = append(where, fmt.Sprintf("(worked_on >= '%s')", q.From.Format(types.DateFormat)))
	}
	if !q.To.Time.IsZero() {
		where = append(where, fmt.Sprintf("(worked_on <= '%s')", q.To.Format(types.DateFormat)))
	}
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if len(q.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.OrderBy, ", "))
	}
	return b.String()
}

// TimeReport reads time reports from the GDS tree. It cannot write.
type TimeReport struct {
	r *client.ReadOnlyRouter
}

// NewTimeReport binds the read-only time report group to c.
func NewTimeReport(c client.Caller) *TimeReport {
	return &TimeReport{r: client.NewReadOnlyRouter(c, TimeReportNamespace)}
}

// ProviderReport returns the report of one contractor. hours limits the
// report to hour totals, which does not require financial permissions.
func (t *TimeReport) ProviderReport(ctx context.Context, providerID string, q Query, hours bool) (client.Result, error) {
	return t.report(ctx, "providers/"+providerID, q, hours)
}

// CompanyReport returns the report of a company.
func (t *TimeReport) CompanyReport(ctx context.Context, companyID string, q Query, hours bool) (client.Result, error) {
	return t.report(ctx, "companies/"+companyID, q, hours)
}

// AgencyReport returns the report of an agency within a company.
func (t *TimeReport) AgencyReport(ctx context.Context, companyID, agencyID string, q Query, hours bool) (client.Result, error) {
	return t.report(ctx, "companies/"+companyID+"/agencies/"+agencyID, q, hours)
}

func (t *TimeReport) report(ctx context.Context, path string, q Query, hours bool) (client.Result, error) {
	if hours {
		path += "/hours"
	}
	return t.r.Get(ctx, path, client.Params{"tq": q.String()})
}
