package issue_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/gi8lino/jirabridge/internal/issue"
	"github.com/gi8lino/jirabridge/internal/jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUsers implements issue.UserSearcher.
type fakeUsers struct {
	users  []jira.User
	status int
	err    error
	calls  atomic.Int32
	query  atomic.Value
}

func (f *fakeUsers) SearchUsers(ctx context.Context, query string) ([]jira.User, int, error) {
	f.calls.Add(1)
	f.query.Store(query)
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return f.users, status, f.err
}

func TestMapperMap(t *testing.T) {
	t.Parallel()

	base := issue.Request{ProjectKey: "AAD", Summary: "Fix bug", Description: "NPE on login"}

	t.Run("always-present fields", func(t *testing.T) {
		t.Parallel()

		m := issue.Mapper{Features: issue.AllFeatures()}
		fields, warnings := m.Map(context.Background(), base)

		assert.Empty(t, warnings)
		assert.Equal(t, "AAD", fields.Project.Key)
		assert.Equal(t, "Fix bug", fields.Summary)
		assert.Equal(t, jira.NewParagraphDocument("NPE on login"), fields.Description)
		assert.Equal(t, "Task", fields.IssueType.Name)
		assert.Nil(t, fields.TimeTracking)
		assert.Nil(t, fields.Assignee)
		assert.Nil(t, fields.Parent)
	})

	t.Run("issue type from request then settings", func(t *testing.T) {
		t.Parallel()

		m := issue.Mapper{Features: issue.AllFeatures(), DefaultIssueType: "Story"}

		fields, _ := m.Map(context.Background(), base)
		assert.Equal(t, "Story", fields.IssueType.Name)

		req := base
		req.IssueType = "Bug"
		fields, _ = m.Map(context.Background(), req)
		assert.Equal(t, "Bug", fields.IssueType.Name)
	})

	t.Run("estimate becomes original estimate", func(t *testing.T) {
		t.Parallel()

		req := base
		req.Estimate = 2

		fields, warnings := issue.Mapper{Features: issue.AllFeatures()}.Map(context.Background(), req)
		assert.Empty(t, warnings)
		require.NotNil(t, fields.TimeTracking)
		assert.Equal(t, "2h", fields.TimeTracking.OriginalEstimate)
	})

	t.Run("invalid estimates are omitted with warning", func(t *testing.T) {
		t.Parallel()

		for _, hours := range []float64{-1, math.NaN(), math.Inf(1), 1e12} {
			req := base
			req.Estimate = hours

			fields, warnings := issue.Mapper{Features: issue.AllFeatures()}.Map(context.Background(), req)
			assert.Nil(t, fields.TimeTracking, "hours=%v", hours)
			require.Len(t, warnings, 1, "hours=%v", hours)
			assert.Equal(t, "estimate", warnings[0].Field)
			assert.Equal(t, issue.OmitInvalid, warnings[0].Reason)
		}
	})

	t.Run("resolved assignee", func(t *testing.T) {
		t.Parallel()

		users := &fakeUsers{users: []jira.User{{AccountID: "acc-1", DisplayName: "Jane Doe"}}}
		req := base
		req.Assignee = "Jane Doe"

		fields, warnings := issue.Mapper{Features: issue.AllFeatures(), Users: users}.Map(context.Background(), req)
		assert.Empty(t, warnings)
		require.NotNil(t, fields.Assignee)
		assert.Equal(t, "acc-1", fields.Assignee.AccountID)
		assert.Equal(t, "Jane Doe", users.query.Load())
	})

	t.Run("unresolvable assignee is omitted", func(t *testing.T) {
		t.Parallel()

		users := &fakeUsers{}
		req := base
		req.Assignee = "Nobody"

		fields, warnings := issue.Mapper{Features: issue.AllFeatures(), Users: users}.Map(context.Background(), req)
		assert.Nil(t, fields.Assignee)
		require.Len(t, warnings, 1)
		assert.Equal(t, issue.OmitNoMatch, warnings[0].Reason)
		assert.Equal(t, int32(1), users.calls.Load())
	})

	t.Run("ambiguous assignee is omitted", func(t *testing.T) {
		t.Parallel()

		users := &fakeUsers{users: []jira.User{
			{AccountID: "a", DisplayName: "Jane Doe"},
			{AccountID: "b", DisplayName: "Jane Dough"},
		}}
		req := base
		req.Assignee = "Jane"

		fields, warnings := issue.Mapper{Features: issue.AllFeatures(), Users: users}.Map(context.Background(), req)
		assert.Nil(t, fields.Assignee)
		require.Len(t, warnings, 1)
		assert.Equal(t, issue.OmitAmbiguous, warnings[0].Reason)
		assert.Equal(t, `assignee omitted: ambiguous (2 users match "Jane")`, warnings[0].String())
	})

	t.Run("exact display name disambiguates", func(t *testing.T) {
		t.Parallel()

		users := &fakeUsers{users: []jira.User{
			{AccountID: "a", DisplayName: "Jane Doe"},
			{AccountID: "b", DisplayName: "Jane Doe-Smith"},
		}}
		req := base
		req.Assignee = "jane doe"

		fields, warnings := issue.Mapper{Features: issue.AllFeatures(), Users: users}.Map(context.Background(), req)
		assert.Empty(t, warnings)
		require.NotNil(t, fields.Assignee)
		assert.Equal(t, "a", fields.Assignee.AccountID)
	})

	t.Run("failed lookup is treated as no match and not retried", func(t *testing.T) {
		t.Parallel()

		users := &fakeUsers{status: http.StatusUnauthorized, err: errors.New("jira error: unauthorized")}
		req := base
		req.Assignee = "Jane"

		fields, warnings := issue.Mapper{Features: issue.AllFeatures(), Users: users}.Map(context.Background(), req)
		assert.Nil(t, fields.Assignee)
		require.Len(t, warnings, 1)
		assert.Equal(t, issue.OmitLookupFailed, warnings[0].Reason)
		assert.Contains(t, warnings[0].Detail, "status 401")
		assert.Equal(t, int32(1), users.calls.Load())
	})

	t.Run("epic key is used verbatim", func(t *testing.T) {
		t.Parallel()

		req := base
		req.Epic = "AAD-15"

		fields, warnings := issue.Mapper{Features: issue.AllFeatures()}.Map(context.Background(), req)
		assert.Empty(t, warnings)
		require.NotNil(t, fields.Parent)
		assert.Equal(t, "AAD-15", fields.Parent.Key)
	})

	t.Run("disabled features drop fields with warnings", func(t *testing.T) {
		t.Parallel()

		users := &fakeUsers{users: []jira.User{{AccountID: "a"}}}
		req := base
		req.Estimate = 1
		req.Assignee = "Jane"
		req.Epic = "AAD-1"

		fields, warnings := issue.Mapper{Users: users}.Map(context.Background(), req)
		assert.Nil(t, fields.TimeTracking)
		assert.Nil(t, fields.Assignee)
		assert.Nil(t, fields.Parent)
		require.Len(t, warnings, 3)
		for _, w := range warnings {
			assert.Equal(t, issue.OmitDisabled, w.Reason)
		}
		assert.Zero(t, users.calls.Load())
	})

	t.Run("request is not mutated", func(t *testing.T) {
		t.Parallel()

		req := base
		req.Estimate = 1.5
		req.Epic = "AAD-2"
		before := req

		issue.Mapper{Features: issue.AllFeatures()}.Map(context.Background(), req)
		assert.Equal(t, before, req)
	})
}
