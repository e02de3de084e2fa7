package routers

import (
	"context"
	"strings"

	"github.com/kipanshi/odesk-meter/pkg/client"
)

// MaxProfileKeys is the most job keys one profile request may carry.
const MaxProfileKeys = 20

// jobKeyPrefix marks a job key as opposed to a record number.
const jobKeyPrefix = "~~"

// Job reads public job profiles.
type Job struct {
	r *client.Router
}

// NewJob binds the job profiles group to c.
func NewJob(c client.Caller) *Job {
	return &Job{r: client.NewRouter(c, JobNamespace)}
}

// Profile returns the profile of one job, by key or record number, or the
// profiles of up to MaxProfileKeys jobs by key.
func (j *Job) Profile(ctx context.Context, keys ...string) (client.Result, error) {
	switch {
	case len(keys) == 0:
		return client.Result{}, client.NewValidationError("at least one job key is required")
	case len(keys) > MaxProfileKeys:
		return client.Result{}, client.NewValidationError("number of keys per request is limited to %d, got %d", MaxProfileKeys, len(keys))
	case len(keys) > 1:
		for _, k := range keys {
			if !strings.HasPrefix(k, jobKeyPrefix) {
				return client.Result{}, client.NewValidationError("multiple-job requests accept only job keys, got %q", k)
			}
		}
	}

	res, err := j.r.Get(ctx, "jobs/"+strings.Join(keys, ";"), nil)
	if err != nil {
		return client.Result{}, err
	}
	if p := res.Unwrap("profiles").Get("profile"); p.Exists() {
		return p, nil
	}
	return res, nil
}
