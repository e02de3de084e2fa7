package routers

import (
	"context"
	"time"

	"github.com/kipanshi/odesk-meter/pkg/client"
)

// snapshotTimeLayout addresses one snapshot by its capture time.
const snapshotTimeLayout = "2006-01-02T15:04:05"

// workdiaryDateLayout is the day format of work diary paths.
const workdiaryDateLayout = "20060102"

// DefaultOnline is the teamroom presence filter used when none is given.
const DefaultOnline = "now"

// Team reads activity snapshots, work diaries and teamrooms.
type Team struct {
	r *client.Router
}

// NewTeam binds the team group to c.
func NewTeam(c client.Caller) *Team {
	return &Team{r: client.NewRouter(c, TeamNamespace)}
}

func snapshotPath(companyID, userID string, at time.Time) string {
	path := "snapshots/" + companyID + "/" + userID
	if !at.IsZero() {
		path += "/" + at.Format(snapshotTimeLayout)
	}
	return path
}

// Snapshot returns the snapshot taken at the given time, or the latest one
// when at is zero.
func (t *Team) Snapshot(ctx context.Context, companyID, userID string, at time.Time) (client.Result, error) {
	res, err := t.r.Get(ctx, snapshotPath(companyID, userID, at), nil)
	if err != nil {
		return client.Result{}, err
	}
	return res.Get("snapshot"), nil
}

// UpdateSnapshot replaces the memo of a snapshot.
func (t *Team) UpdateSnapshot(ctx context.Context, companyID, userID string, at time.Time, memo string) (client.Result, error) {
	return t.r.Post(ctx, snapshotPath(companyID, userID, at), client.Params{"memo": memo})
}

// DeleteSnapshot removes the snapshot taken at at.
func (t *Team) DeleteSnapshot(ctx context.Context, companyID, userID string, at time.Time) (client.Result, error) {
	return t.r.Delete(ctx, snapshotPath(companyID, userID, at), nil)
}

// Workdiary returns a user's snapshots for one day, today when day is zero,
// along with the user record the service returns beside them.
func (t *Team) Workdiary(ctx context.Context, teamID, username string, day time.Time) (user client.Result, snapshots []client.Result, err error) {
	path := "workdiaries/" + teamID + "/" + username
	if !day.IsZero() {
		path += "/" + day.Format(workdiaryDateLayout)
	}
	res, err := t.r.Get(ctx, path, nil)
	if err != nil {
		return client.Result{}, nil, err
	}
	return res.Get("snapshots.user"), res.List("snapshots.snapshot"), nil
}

// Teamrooms lists the teamrooms visible to the user. Pass client.AtVersion
// to query another protocol version.
func (t *Team) Teamrooms(ctx context.Context, opts ...client.CallOption) ([]client.Result, error) {
	res, err := t.r.Get(ctx, "teamrooms", nil, opts...)
	if err != nil {
		return nil, err
	}
	return res.List("teamrooms.teamroom"), nil
}

// TeamroomSnapshots lists the latest snapshot of each teamroom member.
// online filters by presence and defaults to DefaultOnline.
func (t *Team) TeamroomSnapshots(ctx context.Context, teamID, online string, opts ...client.CallOption) ([]client.Result, error) {
	if online == "" {
		online = DefaultOnline
	}
	res, err := t.r.Get(ctx, "teamrooms/"+teamID, client.Params{"online": online}, opts...)
	if err != nil {
		return nil, err
	}
	return res.List("teamroom.snapshot"), nil
}
