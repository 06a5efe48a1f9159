package github

import (
	"regexp"
	"strings"
)

var repoURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// RepoFromURL extracts the owner and repository name from a GitHub URL.
// A trailing ".git" suffix on the repository segment is stripped.
func RepoFromURL(url string) (owner, repo string, ok bool) {
	m := repoURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), true
}
