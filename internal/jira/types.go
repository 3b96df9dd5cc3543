package jira

// CreateIssueRequest is the body of POST /rest/api/3/issue.
type CreateIssueRequest struct {
	Fields IssueFields `json:"fields"`
}

// IssueFields is the "fields" object of a create request.
type IssueFields struct {
	Project      ProjectRef    `json:"project"`
	Summary      string        `json:"summary"`
	Description  Document      `json:"description"`
	IssueType    IssueTypeRef  `json:"issuetype"`
	TimeTracking *TimeTracking `json:"timetracking,omitempty"`
	Assignee     *AccountRef   `json:"assignee,omitempty"`
	Parent       *ParentRef    `json:"parent,omitempty"`
}

// ProjectRef references a project by key.
type ProjectRef struct {
	Key string `json:"key"`
}

// IssueTypeRef references an issue type by name.
type IssueTypeRef struct {
	Name string `json:"name"`
}

// TimeTracking carries the original estimate in Jira duration notation ("1w 2d 3h 4m").
type TimeTracking struct {
	OriginalEstimate string `json:"originalEstimate"`
}

// AccountRef references a user by account ID.
type AccountRef struct {
	AccountID string `json:"accountId"`
}

// ParentRef links an issue to its parent (epic) by key.
type ParentRef struct {
	Key string `json:"key"`
}

// Document is an Atlassian Document Format root node.
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

// Node is an ADF block or inline node.
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// NewParagraphDocument wraps text in a single-paragraph ADF document.
// Jira rejects empty text nodes, so empty text yields an empty paragraph.
func NewParagraphDocument(text string) Document {
	paragraph := Node{Type: "paragraph"}
	if text != "" {
		paragraph.Content = []Node{{Type: "text", Text: text}}
	}
	return Document{
		Type:    "doc",
		Version: 1,
		Content: []Node{paragraph},
	}
}

// CreatedIssue is the success response of the create endpoint.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// User is the subset of a Jira user returned by user search.
type User struct {
	AccountID    string `json:"accountId"`
	AccountType  string `json:"accountType,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active"`
}
