package routers

import (
	"context"
	"net/http"
	"testing"

	"github.com/kipanshi/odesk-meter/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hrBase = testBase + "/api/hr/v2/"

func TestHRV1InviteToInterview(t *testing.T) {
	t.Run("requires a contractor", func(t *testing.T) {
		f := newFake(`{}`)
		_, err := NewHRV1(f).InviteToInterview(context.Background(), "j1", "hello", "", "")
		require.Error(t, err)
		assert.True(t, client.IsValidationError(err))
		assert.Empty(t, f.calls, "validation must happen before any call")
	})

	t.Run("posts candidate", func(t *testing.T) {
		f := newFake(`{}`)
		_, err := NewHRV1(f).InviteToInterview(context.Background(), "j1", "hello", "~~abc", "")
		require.NoError(t, err)

		req := f.last(t)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, testBase+"/api/hr/v1/jobs/j1/candidates", req.URL)
		assert.Equal(t, client.Params{"cover": "hello", "profile_key": "~~abc"}, req.Params)
	})
}

func TestHRReadEnvelopes(t *testing.T) {
	tests := []struct {
		name  string
		call  func(h *HR) (client.Result, error)
		reply string
		url   string
		want  string
	}{
		{
			name:  "user roles",
			call:  func(h *HR) (client.Result, error) { return h.UserRoles(context.Background()) },
			reply: `{"userroles":{"userrole":[]}}`,
			url:   hrBase + "userroles",
			want:  `{"userrole":[]}`,
		},
		{
			name:  "me",
			call:  func(h *HR) (client.Result, error) { return h.Me(context.Background()) },
			reply: `{"user":{"id":"bob"}}`,
			url:   hrBase + "users/me",
			want:  `{"id":"bob"}`,
		},
		{
			name:  "user",
			call:  func(h *HR) (client.Result, error) { return h.User(context.Background(), "u1") },
			reply: `{"user":{"id":"u1"}}`,
			url:   hrBase + "users/u1",
			want:  `{"id":"u1"}`,
		},
		{
			name:  "companies",
			call:  func(h *HR) (client.Result, error) { return h.Companies(context.Background()) },
			reply: `{"companies":[{"reference":"1"}]}`,
			url:   hrBase + "companies",
			want:  `[{"reference":"1"}]`,
		},
		{
			name:  "company",
			call:  func(h *HR) (client.Result, error) { return h.Company(context.Background(), "c1") },
			reply: `{"company":{"reference":"c1"}}`,
			url:   hrBase + "companies/c1",
			want:  `{"reference":"c1"}`,
		},
		{
			name:  "company teams",
			call:  func(h *HR) (client.Result, error) { return h.CompanyTeams(context.Background(), "c1") },
			reply: `{"teams":[]}`,
			url:   hrBase + "companies/c1/teams",
			want:  `[]`,
		},
		{
			name:  "teams",
			call:  func(h *HR) (client.Result, error) { return h.Teams(context.Background()) },
			reply: `{"teams":[{"id":"t"}]}`,
			url:   hrBase + "teams",
			want:  `[{"id":"t"}]`,
		},
		{
			name:  "job without envelope",
			call:  func(h *HR) (client.Result, error) { return h.Job(context.Background(), "j1") },
			reply: `{"reference":"j1"}`,
			url:   hrBase + "jobs/j1",
			want:  `{"reference":"j1"}`,
		},
		{
			name:  "offer",
			call:  func(h *HR) (client.Result, error) { return h.Offer(context.Background(), "o1") },
			reply: `{"offer":{"reference":"o1"}}`,
			url:   hrBase + "offers/o1",
			want:  `{"reference":"o1"}`,
		},
		{
			name:  "engagement",
			call:  func(h *HR) (client.Result, error) { return h.Engagement(context.Background(), "e1") },
			reply: `{"engagement":{"reference":"e1"}}`,
			url:   hrBase + "engagements/e1",
			want:  `{"reference":"e1"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake(tt.reply)
			res, err := tt.call(NewHR(f))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, res.String())

			req := f.last(t)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tt.url, req.URL)
		})
	}
}

func TestHRMembershipFilters(t *testing.T) {
	f := newFake(`{"users":[]}`)
	h := NewHR(f)
	ctx := context.Background()

	_, err := h.CompanyUsers(ctx, "c1", true)
	require.NoError(t, err)
	assert.Equal(t, client.Params{"status_in_company": "active"}, f.last(t).Params)

	_, err = h.TeamUsers(ctx, "t1", false)
	require.NoError(t, err)
	assert.Equal(t, hrBase+"teams/t1/users", f.last(t).URL)
	assert.Equal(t, client.Params{"status_in_team": "inactive"}, f.last(t).Params)

	_, err = h.Team(ctx, "t1", true)
	require.NoError(t, err)
	assert.Equal(t, client.Params{"include_users": true}, f.last(t).Params)
}

func TestHRTeamAdjustments(t *testing.T) {
	ctx := context.Background()

	t.Run("list for one engagement", func(t *testing.T) {
		f := newFake(`{"adjustments":[]}`)
		_, err := NewHR(f).TeamAdjustments(ctx, "t1", "e1")
		require.NoError(t, err)
		assert.Equal(t, hrBase+"teams/t1/adjustments", f.last(t).URL)
		assert.Equal(t, client.Params{"engagement_reference": "e1"}, f.last(t).Params)
	})

	tests := []struct {
		name    string
		adj     Adjustment
		wantErr bool
		want    client.Params
	}{
		{
			name:    "neither amount",
			adj:     Adjustment{EngagementRef: "e1", Comments: "bonus"},
			wantErr: true,
		},
		{
			name:    "both amounts",
			adj:     Adjustment{EngagementRef: "e1", Comments: "bonus", Amount: 10, ChargeAmount: 11},
			wantErr: true,
		},
		{
			name: "amount with notes",
			adj:  Adjustment{EngagementRef: "e1", Comments: "bonus", Amount: 10, Notes: "thanks"},
			want: client.Params{"engagement_reference": "e1", "comments": "bonus", "amount": float64(10), "notes": "thanks"},
		},
		{
			name: "charge amount",
			adj:  Adjustment{EngagementRef: "e1", Comments: "bonus", ChargeAmount: 11.5},
			want: client.Params{"engagement_reference": "e1", "comments": "bonus", "charge_amount": 11.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake(`{"adjustment":{"reference":"a1"}}`)
			res, err := NewHR(f).PostTeamAdjustment(ctx, "t1", tt.adj)
			if tt.wantErr {
				assert.True(t, client.IsValidationError(err))
				assert.Empty(t, f.calls)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, `{"reference":"a1"}`, res.String())
			assert.Equal(t, http.MethodPost, f.last(t).Method)
			assert.Equal(t, tt.want, f.last(t).Params)
		})
	}
}

func TestHRJobs(t *testing.T) {
	f := newFake(`{"jobs":[]}`)
	_, err := NewHR(f).Jobs(context.Background(), JobsQuery{
		BuyerTeamRef: "b1",
		Status:       "open",
		Page:         Page{Offset: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, hrBase+"jobs", f.last(t).URL)
	assert.Equal(t, client.Params{
		"buyer_team__reference": "b1",
		"include_sub_teams":     false,
		"status":                "open",
		"page":                  "20;20",
	}, f.last(t).Params)
}

func TestHRPostJob(t *testing.T) {
	valid := JobPosting{
		BuyerTeamRef: "b1",
		Title:        "Go developer",
		JobType:      "hourly",
		Description:  "Build a client",
		Visibility:   "public",
		Category:     "Web Development",
		Subcategory:  "Web Programming",
		Duration:     10,
		Skills:       []string{"go", "oauth"},
	}

	tests := []struct {
		name   string
		modify func(j *JobPosting)
		errMsg string
	}{
		{name: "bad job type", modify: func(j *JobPosting) { j.JobType = "salary" }, errMsg: "job type must be one of"},
		{name: "bad visibility", modify: func(j *JobPosting) { j.Visibility = "secret" }, errMsg: "visibility must be one of"},
		{name: "no budget or duration", modify: func(j *JobPosting) { j.Duration = 0 }, errMsg: "either budget or duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := valid
			tt.modify(&job)
			f := newFake(`{}`)
			_, err := NewHR(f).PostJob(context.Background(), job)
			require.Error(t, err)
			assert.True(t, client.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Empty(t, f.calls)
		})
	}

	t.Run("valid posting", func(t *testing.T) {
		f := newFake(`{"job":{"reference":"j9"}}`)
		_, err := NewHR(f).PostJob(context.Background(), valid)
		require.NoError(t, err)

		req := f.last(t)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, hrBase+"jobs", req.URL)
		assert.Equal(t, "go;oauth", req.Params["skills"])
		assert.Equal(t, 10, req.Params["duration"])
		assert.NotContains(t, req.Params, "budget")
	})
}

func TestHRUpdateJob(t *testing.T) {
	base := JobUpdate{BuyerTeamRef: "b1", Title: "t", Description: "d", Visibility: "private", Budget: 500}

	t.Run("invalid status", func(t *testing.T) {
		job := base
		job.Status = "closed"
		_, err := NewHR(newFake(`{}`)).UpdateJob(context.Background(), "j1", job)
		assert.True(t, client.IsValidationError(err))
	})

	t.Run("puts job", func(t *testing.T) {
		job := base
		job.Status = "filled"
		f := newFake(`{}`)
		_, err := NewHR(f).UpdateJob(context.Background(), "j1", job)
		require.NoError(t, err)

		req := f.last(t)
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, hrBase+"jobs/j1", req.URL)
		assert.Equal(t, "filled", req.Params["status"])
		assert.Equal(t, float64(500), req.Params["budget"])
	})
}

func TestHRDeleteJob(t *testing.T) {
	f := newFake(`{}`)
	_, err := NewHR(f).DeleteJob(context.Background(), "j1", "41")
	require.NoError(t, err)

	req := f.last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, client.Params{"reason_code": "41"}, req.Params)
}

func TestHROffers(t *testing.T) {
	ctx := context.Background()

	f := newFake(`{"offers":{"offer":[]}}`)
	res, err := NewHR(f).Offers(ctx, OffersQuery{BuyerTeamRef: "b1", JobRef: "j1", IncludeSubTeams: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"offer":[]}`, res.String())
	assert.Equal(t, client.Params{
		"buyer_team__reference": "b1",
		"include_sub_teams":     true,
		"job__reference":        "j1",
		"page":                  "0;20",
	}, f.last(t).Params)

	_, err = NewHR(f).PostOffer(ctx, OfferPosting{JobRef: "j1"})
	assert.True(t, client.IsValidationError(err))

	_, err = NewHR(f).PostOffer(ctx, OfferPosting{JobRef: "j1", ProviderRef: "p1", KeepOpen: "maybe"})
	assert.True(t, client.IsValidationError(err))

	_, err = NewHR(f).PostOffer(ctx, OfferPosting{JobRef: "j1", ProviderRef: "p1", HourlyPayRate: 25, KeepOpen: "yes"})
	require.NoError(t, err)
	req := f.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, hrBase+"offers", req.URL)
	assert.Equal(t, client.Params{
		"job__reference":      "j1",
		"provider__reference": "p1",
		"hourly_pay_rate":     float64(25),
		"keep_open":           "yes",
	}, req.Params)
}

func TestHREngagements(t *testing.T) {
	f := newFake(`{"engagements":[]}`)
	h := NewHR(f)

	_, err := h.Engagements(context.Background(), EngagementsQuery{BuyerTeamRef: "b1"})
	assert.True(t, client.IsValidationError(err))
	assert.Empty(t, f.calls)

	_, err = h.Engagements(context.Background(), EngagementsQuery{ProfileKey: "~~k", Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, hrBase+"engagements", f.last(t).URL)
	assert.Equal(t, client.Params{"profile_key": "~~k", "status": "active", "page": "0;20"}, f.last(t).Params)
}

func TestHREndContract(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		end  ContractEnd
	}{
		{name: "bad reason", end: ContractEnd{Reason: "BORED", WouldHireAgain: "yes"}},
		{name: "bad would hire again", end: ContractEnd{Reason: "API_REAS_WORK_NOT_NEEDED", WouldHireAgain: "perhaps"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake(`{}`)
			_, err := NewHR(f).EndContract(ctx, "c1", tt.end)
			assert.True(t, client.IsValidationError(err))
			assert.Empty(t, f.calls)
		})
	}

	t.Run("deletes contract", func(t *testing.T) {
		f := newFake(`{}`)
		_, err := NewHR(f).EndContract(ctx, "c1", ContractEnd{
			Reason:          "API_REAS_JOB_COMPLETED_SUCCESSFULLY",
			WouldHireAgain:  "yes",
			FeedbackScores:  map[string]any{"quality": 5},
			FeedbackComment: "great",
		})
		require.NoError(t, err)

		req := f.last(t)
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, hrBase+"contracts/c1", req.URL)
		assert.Equal(t, map[string]any{"quality": 5}, req.Params["fb_scores"])
		assert.Equal(t, "great", req.Params["fb_comment"])
	})
}
