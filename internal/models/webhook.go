package models

// WebhookPayload captures the subset of GitHub's webhook JSON the pipeline
// reads. Field names follow GitHub's wire format.
type WebhookPayload struct {
	Repository  *PayloadRepository  `json:"repository"`
	Sender      PayloadSender       `json:"sender"`
	Action      string              `json:"action,omitempty"`
	Ref         string              `json:"ref,omitempty"`
	Commits     []PayloadCommit     `json:"commits,omitempty"`
	PullRequest *PayloadPullRequest `json:"pull_request,omitempty"`
	Issue       *PayloadIssue       `json:"issue,omitempty"`
}

type PayloadRepository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type PayloadSender struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type PayloadCommit struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
	Author    struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Username string `json:"username,omitempty"`
	} `json:"author"`
}

type PayloadPullRequest struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	State  string `json:"state"`
	Merged bool   `json:"merged,omitempty"`
	Base   struct {
		Ref string `json:"ref"`
	} `json:"base"`
	User struct {
		Login string `json:"login"`
	} `json:"user"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type PayloadIssue struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	State  string `json:"state"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
}
