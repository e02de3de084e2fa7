// Package meter totals the hours a contractor logged today and this week,
// per team, from the provider time report.
package meter

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/kipanshi/odesk-meter/pkg/client"
	"github.com/kipanshi/odesk-meter/pkg/routers"
	"github.com/oapi-codegen/runtime/types"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// workedOnLayout is the format of worked_on cells in report rows.
const workedOnLayout = "20060102"

// Report columns the meter reads.
var (
	colWorkedOn = column{Type: "date", Label: "worked_on"}
	colTeamName = column{Type: "string", Label: "team_name"}
	colHours    = column{Type: "number", Label: "hours"}
)

type column struct {
	Type  string
	Label string
}

// TeamHours is the time logged for one team.
type TeamHours struct {
	Team  string  `json:"team"`
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
}

// Report is what the meter shows for one user.
type Report struct {
	UID   string      `json:"uid"`
	Teams []TeamHours `json:"teams"`
}

// Source fetches the data the meter needs.
type Source interface {
	UserUID(ctx context.Context) (string, error)
	ProviderReport(ctx context.Context, providerID string, q routers.Query, hours bool) (client.Result, error)
}

type routerSource struct {
	auth    *routers.Auth
	reports *routers.TimeReport
}

func (s routerSource) UserUID(ctx context.Context) (string, error) {
	return s.auth.UserUID(ctx)
}

func (s routerSource) ProviderReport(ctx context.Context, providerID string, q routers.Query, hours bool) (client.Result, error) {
	return s.reports.ProviderReport(ctx, providerID, q, hours)
}

// FromRouters adapts a router set to a Source.
func FromRouters(s *routers.Set) Source {
	return routerSource{auth: s.Auth, reports: s.TimeReport}
}

// Meter computes reports. The zero clock is time.Now.
type Meter struct {
	src    Source
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Meter.
type Option func(*Meter)

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(m *Meter) {
		m.now = now
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(m *Meter) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Meter reading from src.
func New(src Source, opts ...Option) *Meter {
	m := &Meter{src: src, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("meter")
	return m
}

// WeekStart returns midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, mo, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// Fetch reads the authenticated user's report from the start of the week to
// today and totals it.
func (m *Meter) Fetch(ctx context.Context) (Report, error) {
	now := m.now()

	uid, err := m.src.UserUID(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("auth info: %w", err)
	}

	q := routers.Query{
		Select: routers.DefaultTimereportFields,
		From:   types.Date{Time: WeekStart(now)},
		To:     types.Date{Time: now},
	}
	m.logger.Debug("fetching time report", zap.String("uid", uid), zap.Stringer("query", q))

	res, err := m.src.ProviderReport(ctx, uid, q, false)
	if err != nil {
		return Report{}, fmt.Errorf("time report: %w", err)
	}

	teams, err := Aggregate(res, now)
	if err != nil {
		return Report{}, err
	}
	return Report{UID: uid, Teams: teams}, nil
}

// Aggregate totals a time report table per team. Rows worked on the same
// calendar day as today also count toward Today. Teams are sorted by name.
func Aggregate(report client.Result, today time.Time) ([]TeamHours, error) {
	table := gjson.GetBytes(report.Raw(), "table")
	if !table.Exists() {
		return nil, &client.Error{Kind: client.KindMalformedResponse, Message: "time report has no table", Body: report.Raw()}
	}

	cols := table.Get("cols").Array()
	dateIdx, teamIdx, hoursIdx := indexOf(cols, colWorkedOn), indexOf(cols, colTeamName), indexOf(cols, colHours)
	if dateIdx < 0 || teamIdx < 0 || hoursIdx < 0 {
		return nil, &client.Error{
			Kind:    client.KindMalformedResponse,
			Message: "time report lacks worked_on, team_name or hours column",
			Body:    report.Raw(),
		}
	}

	todayKey := today.Format(workedOnLayout)
	byTeam := map[string]*TeamHours{}
	for _, row := range table.Get("rows").Array() {
		cells := row.Get("c").Array()
		if len(cells) <= max(dateIdx, teamIdx, hoursIdx) {
			continue
		}
		name := cells[teamIdx].Get("v").String()
		hours := cells[hoursIdx].Get("v").Float()

		th, ok := byTeam[name]
		if !ok {
			th = &TeamHours{Team: name}
			byTeam[name] = th
		}
		th.Week += hours
		if cells[dateIdx].Get("v").String() == todayKey {
			th.Today += hours
		}
	}

	out := make([]TeamHours, 0, len(byTeam))
	for _, th := range byTeam {
		out = append(out, *th)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out, nil
}

func indexOf(cols []gjson.Result, c column) int {
	for i, col := range cols {
		if col.Get("type").String() == c.Type && col.Get("label").String() == c.Label {
			return i
		}
	}
	return -1
}

// Render writes r as plain text.
func Render(w io.Writer, r Report) error {
	var rows []string
	for _, th := range r.Teams {
		rows = append(rows, fmt.Sprintf("%s:\n\t%.2f hrs today\n\t%.2f hrs this week\n", th.Team, th.Today, th.Week))
	}
	body := strings.Join(rows, "\n")
	if body == "" {
		body = "\nNo worked hours yet"
	}
	_, err := fmt.Fprintf(w, "User: %s\n%s\n", r.UID, body)
	return err
}
