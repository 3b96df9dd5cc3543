package issue

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/gi8lino/jirabridge/internal/jira"
)

// DefaultIssueType is used when neither the request nor the settings name one.
const DefaultIssueType = "Task"

// maxEstimateHours keeps the minute count well inside int range.
const maxEstimateHours = math.MaxInt32 / minutesPerHour

// Features toggles the optional parts of the mapping.
type Features struct {
	Estimate    bool // map estimate to timetracking.originalEstimate
	Assignee    bool // resolve assignee display names
	Epic        bool // link to parent issue
	LogPayloads bool // debug-log outgoing payloads
}

// AllFeatures enables every optional field.
func AllFeatures() Features {
	return Features{Estimate: true, Assignee: true, Epic: true}
}

// UserSearcher resolves display names to Jira users.
type UserSearcher interface {
	SearchUsers(ctx context.Context, query string) ([]jira.User, int, error)
}

// OmitReason explains why an optional field was left out of the payload.
type OmitReason string

const (
	OmitDisabled     OmitReason = "disabled"
	OmitInvalid      OmitReason = "invalid"
	OmitNoMatch      OmitReason = "no match"
	OmitAmbiguous    OmitReason = "ambiguous"
	OmitLookupFailed OmitReason = "lookup failed"
)

// Warning is a non-fatal problem found while mapping one request.
type Warning struct {
	Field  string     `json:"field"`
	Reason OmitReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// String renders the warning for logs.
func (w Warning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("%s omitted: %s", w.Field, w.Reason)
	}
	return fmt.Sprintf("%s omitted: %s (%s)", w.Field, w.Reason, w.Detail)
}

// outcome is the result of one optional field step: a value, or the reason it was omitted.
type outcome[T any] struct {
	value  T
	reason OmitReason
	detail string
}

func applied[T any](v T) outcome[T] { return outcome[T]{value: v} }

func omitted[T any](reason OmitReason, format string, args ...any) outcome[T] {
	return outcome[T]{reason: reason, detail: fmt.Sprintf(format, args...)}
}

func (o outcome[T]) ok() bool { return o.reason == "" }

func (o outcome[T]) warning(field string) Warning {
	return Warning{Field: field, Reason: o.reason, Detail: o.detail}
}

// Mapper builds Jira fields from a Request.
type Mapper struct {
	Features         Features
	DefaultIssueType string
	Users            UserSearcher
}

// Map derives the create payload fields for req. Optional fields that cannot be applied are
// left out and reported as warnings; Map never fails.
func (m Mapper) Map(ctx context.Context, req Request) (jira.IssueFields, []Warning) {
	fields := jira.IssueFields{
		Project:     jira.ProjectRef{Key: req.ProjectKey},
		Summary:     req.Summary,
		Description: jira.NewParagraphDocument(req.Description),
		IssueType:   jira.IssueTypeRef{Name: m.issueType(req.IssueType)},
	}
	var warnings []Warning

	if req.Estimate != 0 {
		if o := m.estimate(req.Estimate); o.ok() {
			fields.TimeTracking = &jira.TimeTracking{OriginalEstimate: o.value}
		} else {
			warnings = append(warnings, o.warning("estimate"))
		}
	}

	if req.Assignee != "" {
		if o := m.assignee(ctx, req.Assignee); o.ok() {
			fields.Assignee = &jira.AccountRef{AccountID: o.value}
		} else {
			warnings = append(warnings, o.warning("assignee"))
		}
	}

	if req.Epic != "" {
		if o := m.epic(req.Epic); o.ok() {
			fields.Parent = &jira.ParentRef{Key: o.value}
		} else {
			warnings = append(warnings, o.warning("epic"))
		}
	}

	return fields, warnings
}

func (m Mapper) issueType(name string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	if m.DefaultIssueType != "" {
		return m.DefaultIssueType
	}
	return DefaultIssueType
}

func (m Mapper) estimate(hours float64) outcome[string] {
	switch {
	case !m.Features.Estimate:
		return omitted[string](OmitDisabled, "")
	case math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0:
		return omitted[string](OmitInvalid, "estimate must be a positive number of hours, got %v", hours)
	case hours > maxEstimateHours:
		return omitted[string](OmitInvalid, "estimate %v exceeds %d hours", hours, maxEstimateHours)
	}
	return applied(FormatEstimate(hours))
}

// assignee resolves a display name to an account ID. The lookup is not retried;
// a failed call is treated like a name without match.
func (m Mapper) assignee(ctx context.Context, name string) outcome[string] {
	if !m.Features.Assignee {
		return omitted[string](OmitDisabled, "")
	}
	if m.Users == nil {
		return omitted[string](OmitLookupFailed, "no user search configured")
	}

	users, status, err := m.Users.SearchUsers(ctx, name)
	if err != nil {
		return omitted[string](OmitLookupFailed, "status %d: %v", status, err)
	}

	match, count := pickUser(users, name)
	switch {
	case count == 0:
		return omitted[string](OmitNoMatch, "no user matches %q", name)
	case count > 1:
		return omitted[string](OmitAmbiguous, "%d users match %q", count, name)
	}
	return applied(match.AccountID)
}

// pickUser returns the single user matching name and the number of candidates.
// Several search hits are narrowed to exact display-name matches.
func pickUser(users []jira.User, name string) (jira.User, int) {
	candidates := make([]jira.User, 0, len(users))
	for _, u := range users {
		if u.AccountID != "" {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) <= 1 {
		if len(candidates) == 1 {
			return candidates[0], 1
		}
		return jira.User{}, 0
	}

	var exact []jira.User
	for _, u := range candidates {
		if strings.EqualFold(strings.TrimSpace(u.DisplayName), name) {
			exact = append(exact, u)
		}
	}
	if len(exact) == 1 {
		return exact[0], 1
	}
	return jira.User{}, len(candidates)
}

// epic links to the given key verbatim; Jira validates it.
func (m Mapper) epic(key string) outcome[string] {
	if !m.Features.Epic {
		return omitted[string](OmitDisabled, "")
	}
	return applied(key)
}
