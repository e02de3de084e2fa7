package routers

import (
	"context"
	"strings"

	"github.com/kipanshi/odesk-meter/pkg/client"
)

// Allowed values for enumerated HR fields.
var (
	JobTypes              = []string{"hourly", "fixed-price"}
	JobVisibilityOptions  = []string{"public", "private", "odesk", "invite-only"}
	JobStatuses           = []string{"open", "filled", "cancelled"}
	JobKeepOpenOptions    = []string{"yes", "no"}
	ContractReasonOptions = []string{
		"API_REAS_MISREPRESENTED_SKILLS",
		"API_REAS_CONTRACTOR_NOT_RESPONSIVE",
		"API_REAS_HIRED_DIFFERENT",
		"API_REAS_JOB_COMPLETED_SUCCESSFULLY",
		"API_REAS_WORK_NOT_NEEDED",
		"API_REAS_UNPROFESSIONAL_CONDUCT",
	}
	WouldHireAgainOptions = []string{"yes", "no"}
)

// HRV1 is the first version of the HR resources. Only interview invitations
// remain there.
type HRV1 struct {
	r *client.Router
}

// NewHRV1 binds the version 1 hr group to c.
func NewHRV1(c client.Caller) *HRV1 {
	return &HRV1{r: client.NewRouter(c, HRV1Namespace)}
}

// InviteToInterview invites a contractor to interview for a job. One of
// profileKey or providerRef must be set.
func (h *HRV1) InviteToInterview(ctx context.Context, jobID, cover, profileKey, providerRef string) (client.Result, error) {
	if profileKey == "" && providerRef == "" {
		return client.Result{}, client.NewValidationError("either profile key or provider reference must be provided")
	}
	p := client.Params{"cover": cover}
	setString(p, "profile_key", profileKey)
	setString(p, "provider__reference", providerRef)
	return h.r.Post(ctx, "jobs/"+jobID+"/candidates", p)
}

// HR covers users, companies, teams, jobs, offers, engagements and contracts.
type HR struct {
	r *client.Router
}

// NewHR binds the version 2 hr group to c.
func NewHR(c client.Caller) *HR {
	return &HR{r: client.NewRouter(c, HRNamespace)}
}

func (h *HR) get(ctx context.Context, path string, params client.Params, envelope string) (client.Result, error) {
	res, err := h.r.Get(ctx, path, params)
	if err != nil {
		return client.Result{}, err
	}
	return res.Unwrap(envelope), nil
}

// UserRoles returns the roles of the authenticated user.
func (h *HR) UserRoles(ctx context.Context) (client.Result, error) {
	return h.get(ctx, "userroles", nil, "userroles")
}

// User returns the user identified by userRef.
func (h *HR) User(ctx context.Context, userRef string) (client.Result, error) {
	return h.get(ctx, "users/"+userRef, nil, "user")
}

// Me returns the authenticated user.
func (h *HR) Me(ctx context.Context) (client.Result, error) {
	return h.get(ctx, "users/me", nil, "user")
}

// Companies lists the companies the user can access.
func (h *HR) Companies(ctx context.Context) (client.Result, error) {
	return h.get(ctx, "companies", nil, "companies")
}

// Company returns one company.
func (h *HR) Company(ctx context.Context, companyRef string) (client.Result, error) {
	return h.get(ctx, "companies/"+companyRef, nil, "company")
}

// CompanyTeams lists the teams of a company.
func (h *HR) CompanyTeams(ctx context.Context, companyRef string) (client.Result, error) {
	return h.get(ctx, "companies/"+companyRef+"/teams", nil, "teams")
}

// CompanyUsers lists active or inactive members of a company.
func (h *HR) CompanyUsers(ctx context.Context, companyRef string, active bool) (client.Result, error) {
	return h.get(ctx, "companies/"+companyRef+"/users", client.Params{"status_in_company": memberStatus(active)}, "users")
}

// TeamAdjustments lists bonus and charge adjustments of a team, optionally
// for a single engagement.
func (h *HR) TeamAdjustments(ctx context.Context, teamRef, engagementRef string) (client.Result, error) {
	p := client.Params{}
	setString(p, "engagement_reference", engagementRef)
	return h.get(ctx, "teams/"+teamRef+"/adjustments", p, "adjustments")
}

// Adjustment is a one-off payment on an engagement. Exactly one of Amount
// and ChargeAmount must be set.
type Adjustment struct {
	EngagementRef string
	Comments      string
	Amount        float64
	ChargeAmount  float64
	Notes         string
}

// PostTeamAdjustment pays a bonus or charge on an engagement of the team.
func (h *HR) PostTeamAdjustment(ctx context.Context, teamRef string, adj Adjustment) (client.Result, error) {
	if (adj.Amount != 0) == (adj.ChargeAmount != 0) {
		return client.Result{}, client.NewValidationError("exactly one of amount or charge amount must be specified")
	}
	p := client.Params{
		"engagement_reference": adj.EngagementRef,
		"comments":             adj.Comments,
	}
	setFloat(p, "amount", adj.Amount)
	setFloat(p, "charge_amount", adj.ChargeAmount)
	setString(p, "notes", adj.Notes)

	res, err := h.r.Post(ctx, "teams/"+teamRef+"/adjustments", p)
	if err != nil {
		return client.Result{}, err
	}
	return res.Unwrap("adjustment"), nil
}

// Teams lists the teams the user can access.
func (h *HR) Teams(ctx context.Context) (client.Result, error) {
	return h.get(ctx, "teams", nil, "teams")
}

// Team returns one team, with its members when includeUsers is set.
func (h *HR) Team(ctx context.Context, teamRef string, includeUsers bool) (client.Result, error) {
	return h.get(ctx, "teams/"+teamRef, client.Params{"include_users": includeUsers}, "team")
}

// TeamUsers lists active or inactive members of a team.
func (h *HR) TeamUsers(ctx context.Context, teamRef string, active bool) (client.Result, error) {
	return h.get(ctx, "teams/"+teamRef+"/users", client.Params{"status_in_team": memberStatus(active)}, "users")
}

// JobsQuery filters the jobs of a buyer team.
type JobsQuery struct {
	BuyerTeamRef    string
	IncludeSubTeams bool
	Status          string
	CreatedBy       string
	CreatedFrom     string
	CreatedTo       string
	Page            Page
	OrderBy         string
}

// Jobs lists the jobs of a buyer team.
func (h *HR) Jobs(ctx context.Context, q JobsQuery) (client.Result, error) {
	p := client.Params{
		"buyer_team__reference": q.BuyerTeamRef,
		"include_sub_teams":     q.IncludeSubTeams,
		"page":                  q.Page.String(),
	}
	setString(p, "status", q.Status)
	setString(p, "created_by", q.CreatedBy)
	setString(p, "created_time_from", q.CreatedFrom)
	setString(p, "created_time_to", q.CreatedTo)
	setString(p, "order_by", q.OrderBy)
	return h.get(ctx, "jobs", p, "jobs")
}

// Job returns one job.
func (h *HR) Job(ctx context.Context, jobRef string) (client.Result, error) {
	return h.get(ctx, "jobs/"+jobRef, nil, "job")
}

// JobPosting describes a new job. Budget or Duration must be set.
type JobPosting struct {
	BuyerTeamRef string
	Title        string
	JobType      string
	Description  string
	Visibility   string
	Category     string
	Subcategory  string
	Budget       float64
	Duration     int
	StartDate    string
	EndDate      string
	Skills       []string
}

// PostJob opens a new job.
func (h *HR) PostJob(ctx context.Context, job JobPosting) (client.Result, error) {
	if err := oneOf("job type", job.JobType, JobTypes); err != nil {
		return client.Result{}, err
	}
	if err := oneOf("visibility", job.Visibility, JobVisibilityOptions); err != nil {
		return client.Result{}, err
	}
	if job.Budget == 0 && job.Duration == 0 {
		return client.Result{}, client.NewValidationError("either budget or duration must be specified")
	}

	p := client.Params{
		"buyer_team__reference": job.BuyerTeamRef,
		"title":                 job.Title,
		"job_type":              job.JobType,
		"description":           job.Description,
		"visibility":            job.Visibility,
		"category":              job.Category,
		"subcategory":           job.Subcategory,
	}
	setFloat(p, "budget", job.Budget)
	setInt(p, "duration", job.Duration)
	setString(p, "start_date", job.StartDate)
	setString(p, "end_date", job.EndDate)
	if len(job.Skills) > 0 {
		p["skills"] = strings.Join(job.Skills, ";")
	}
	return h.r.Post(ctx, "jobs", p)
}

// JobUpdate replaces the editable fields of a job. Budget or Duration must be
// set; Status is optional.
type JobUpdate struct {
	BuyerTeamRef string
	Title        string
	Description  string
	Visibility   string
	Category     string
	Subcategory  string
	Budget       float64
	Duration     int
	StartDate    string
	EndDate      string
	Status       string
}

// UpdateJob replaces the editable fields of a job.
func (h *HR) UpdateJob(ctx context.Context, jobID string, job JobUpdate) (client.Result, error) {
	if err := oneOf("visibility", job.Visibility, JobVisibilityOptions); err != nil {
		return client.Result{}, err
	}
	if job.Budget == 0 && job.Duration == 0 {
		return client.Result{}, client.NewValidationError("either budget or duration must be specified")
	}
	if job.Status != "" {
		if err := oneOf("status", job.Status, JobStatuses); err != nil {
			return client.Result{}, err
		}
	}

	p := client.Params{
		"buyer_team__reference": job.BuyerTeamRef,
		"title":                 job.Title,
		"description":           job.Description,
		"visibility":            job.Visibility,
	}
	setString(p, "category", job.Category)
	setString(p, "subcategory", job.Subcategory)
	setFloat(p, "budget", job.Budget)
	setInt(p, "duration", job.Duration)
	setString(p, "start_date", job.StartDate)
	setString(p, "end_date", job.EndDate)
	setString(p, "status", job.Status)
	return h.r.Put(ctx, "jobs/"+jobID, p)
}

// DeleteJob closes a job with the given reason code.
func (h *HR) DeleteJob(ctx context.Context, jobID, reasonCode string) (client.Result, error) {
	return h.r.Delete(ctx, "jobs/"+jobID, client.Params{"reason_code": reasonCode})
}

// OffersQuery filters the offers of a buyer team.
type OffersQuery struct {
	BuyerTeamRef    string
	IncludeSubTeams bool
	ProviderRef     string
	ProfileKey      string
	JobRef          string
	AgencyRef       string
	Status          string
	CreatedFrom     string
	CreatedTo       string
	Page            Page
	OrderBy         string
}

// Offers lists the offers of a buyer team.
func (h *HR) Offers(ctx context.Context, q OffersQuery) (client.Result, error) {
	p := client.Params{
		"buyer_team__reference": q.BuyerTeamRef,
		"page":                  q.Page.String(),
	}
	if q.IncludeSubTeams {
		p["include_sub_teams"] = true
	}
	setString(p, "provider__reference", q.ProviderRef)
	setString(p, "profile_key", q.ProfileKey)
	setString(p, "job__reference", q.JobRef)
	setString(p, "agency_team__reference", q.AgencyRef)
	setString(p, "status", q.Status)
	setString(p, "created_time_from", q.CreatedFrom)
	setString(p, "created_time_to", q.CreatedTo)
	setString(p, "order_by", q.OrderBy)
	return h.get(ctx, "offers", p, "offers")
}

// Offer returns one offer.
func (h *HR) Offer(ctx context.Context, offerRef string) (client.Result, error) {
	return h.get(ctx, "offers/"+offerRef, nil, "offer")
}

// OfferPosting makes an offer on a job. One of ProviderRef or ProfileKey
// must be set.
type OfferPosting struct {
	JobRef                   string
	ProviderTeamRef          string
	ProviderRef              string
	ProfileKey               string
	MessageFromBuyer         string
	EngagementTitle          string
	AttachedDoc              string
	FixedChargeAmountAgreed  float64
	FixedPayAmountAgreed     float64
	FixedPriceUpfrontPayment float64
	HourlyPayRate            float64
	WeeklySalaryChargeAmount float64
	WeeklySalaryPayAmount    float64
	WeeklyStipendHours       float64
	WeeklyHoursLimit         float64
	StartDate                string
	KeepOpen                 string
}

// PostOffer makes an offer to a contractor.
func (h *HR) PostOffer(ctx context.Context, offer OfferPosting) (client.Result, error) {
	if offer.ProfileKey == "" && offer.ProviderRef == "" {
		return client.Result{}, client.NewValidationError("either profile key or provider reference must be provided")
	}
	if offer.KeepOpen != "" {
		if err := oneOf("keep open", offer.KeepOpen, JobKeepOpenOptions); err != nil {
			return client.Result{}, err
		}
	}

	p := client.Params{"job__reference": offer.JobRef}
	setString(p, "provider_team__reference", offer.ProviderTeamRef)
	setString(p, "provider__reference", offer.ProviderRef)
	setString(p, "profile_key", offer.ProfileKey)
	setString(p, "message_from_buyer", offer.MessageFromBuyer)
	setString(p, "engagement_title", offer.EngagementTitle)
	setString(p, "attached_doc", offer.AttachedDoc)
	setFloat(p, "fixed_charge_amount_agreed", offer.FixedChargeAmountAgreed)
	setFloat(p, "fixed_pay_amount_agreed", offer.FixedPayAmountAgreed)
	setFloat(p, "fixed_price_upfront_payment", offer.FixedPriceUpfrontPayment)
	setFloat(p, "hourly_pay_rate", offer.HourlyPayRate)
	setFloat(p, "weekly_salary_charge_amount", offer.WeeklySalaryChargeAmount)
	setFloat(p, "weekly_salary_pay_amount", offer.WeeklySalaryPayAmount)
	setFloat(p, "weekly_stipend_hours", offer.WeeklyStipendHours)
	setFloat(p, "weekly_hours_limit", offer.WeeklyHoursLimit)
	setString(p, "start_date", offer.StartDate)
	setString(p, "keep_open", offer.KeepOpen)
	return h.r.Post(ctx, "offers", p)
}

// EngagementsQuery filters engagements. One of ProviderRef or ProfileKey
// must be set.
type EngagementsQuery struct {
	BuyerTeamRef    string
	IncludeSubTeams bool
	ProviderRef     string
	ProfileKey      string
	JobRef          string
	AgencyTeamRef   string
	Status          string
	CreatedFrom     string
	CreatedTo       string
	Page            Page
	OrderBy         string
}

// Engagements lists engagements matching q.
func (h *HR) Engagements(ctx context.Context, q EngagementsQuery) (client.Result, error) {
	if q.ProfileKey == "" && q.ProviderRef == "" {
		return client.Result{}, client.NewValidationError("either profile key or provider reference must be provided")
	}

	p := client.Params{"page": q.Page.String()}
	setString(p, "buyer_team__reference", q.BuyerTeamRef)
	if q.IncludeSubTeams {
		p["include_sub_teams"] = true
	}
	setString(p, "provider__reference", q.ProviderRef)
	setString(p, "profile_key", q.ProfileKey)
	setString(p, "job__reference", q.JobRef)
	setString(p, "agency_team_reference", q.AgencyTeamRef)
	setString(p, "status", q.Status)
	setString(p, "created_time_from", q.CreatedFrom)
	setString(p, "created_time_to", q.CreatedTo)
	setString(p, "order_by", q.OrderBy)
	return h.get(ctx, "engagements", p, "engagements")
}

// Engagement returns one engagement.
func (h *HR) Engagement(ctx context.Context, engagementRef string) (client.Result, error) {
	return h.get(ctx, "engagements/"+engagementRef, nil, "engagement")
}

// ContractEnd closes a contract and leaves feedback.
type ContractEnd struct {
	Reason          string
	WouldHireAgain  string
	FeedbackScores  map[string]any
	FeedbackComment string
}

// EndContract closes a contract and leaves feedback.
func (h *HR) EndContract(ctx context.Context, contractRef string, end ContractEnd) (client.Result, error) {
	if err := oneOf("reason", end.Reason, ContractReasonOptions); err != nil {
		return client.Result{}, err
	}
	if err := oneOf("would hire again", end.WouldHireAgain, WouldHireAgainOptions); err != nil {
		return client.Result{}, err
	}

	p := client.Params{
		"reason":           end.Reason,
		"would_hire_again": end.WouldHireAgain,
	}
	if len(end.FeedbackScores) > 0 {
		p["fb_scores"] = end.FeedbackScores
	}
	setString(p, "fb_comment", end.FeedbackComment)
	return h.r.Delete(ctx, "contracts/"+contractRef, p)
}

func memberStatus(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
