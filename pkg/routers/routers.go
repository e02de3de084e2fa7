// Package routers groups the service's resources by namespace. Each router is
// a thin layer over client.Router: it builds the resource path, validates
// arguments locally and unwraps the response envelope.
package routers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kipanshi/odesk-meter/pkg/client"
)

// Namespaces of the resource groups.
var (
	AuthNamespace       = client.Namespace{Root: client.RootAPI, Prefix: "auth", Version: 1}
	HRV1Namespace       = client.Namespace{Root: client.RootAPI, Prefix: "hr", Version: 1}
	HRNamespace         = client.Namespace{Root: client.RootAPI, Prefix: "hr", Version: 2}
	JobNamespace        = client.Namespace{Root: client.RootAPI, Prefix: "profiles", Version: 1}
	TaskNamespace       = client.Namespace{Root: client.RootAPI, Prefix: "otask", Version: 1}
	TeamNamespace       = client.Namespace{Root: client.RootAPI, Prefix: "team", Version: 1}
	URLNamespace        = client.Namespace{Root: client.RootAPI, Prefix: "shorturl", Version: 1}
	TimeReportNamespace = client.Namespace{Root: client.RootGDS, Prefix: "timereports", Version: 1}
)

// Set holds one router per resource group, all sharing a caller.
type Set struct {
	Auth       *Auth
	HRV1       *HRV1
	HR         *HR
	Job        *Job
	Task       *Task
	Team       *Team
	URL        *URL
	TimeReport *TimeReport
}

// New binds every resource group to c.
func New(c client.Caller) *Set {
	return &Set{
		Auth:       NewAuth(c),
		HRV1:       NewHRV1(c),
		HR:         NewHR(c),
		Job:        NewJob(c),
		Task:       NewTask(c),
		Team:       NewTeam(c),
		URL:        NewURL(c),
		TimeReport: NewTimeReport(c),
	}
}

// Page selects a window of a list resource. A zero Size means 20.
type Page struct {
	Offset int
	Size   int
}

const defaultPageSize = 20

// String renders the page as "offset;size".
func (p Page) String() string {
	size := p.Size
	if size <= 0 {
		size = defaultPageSize
	}
	return fmt.Sprintf("%d;%d", p.Offset, size)
}

func oneOf(name, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return client.NewValidationError("%s must be one of %s, got %q", name, strings.Join(allowed, ", "), value)
}

func setString(p client.Params, key, value string) {
	if value != "" {
		p[key] = value
	}
}

func setFloat(p client.Params, key string, value float64) {
	if value != 0 {
		p[key] = value
	}
}

func setInt(p client.Params, key string, value int) {
	if value != 0 {
		p[key] = value
	}
}
