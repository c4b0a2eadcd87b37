package types

import (
	"fmt"
	"time"
)

// Object types and modes as reported by the git data API.
const (
	TypeBlob   = "blob"
	TypeTree   = "tree"
	TypeCommit = "commit"
	TypeTag    = "tag"

	ModeBlob = "100644"

	EncodingBase64 = "base64"
	EncodingUTF8   = "utf-8"
)

type Blob struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha,omitempty"`
}

// TreeEntry is one file in a tree. Path is slash separated and already
// carries the destination prefix.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"` // "blob" or "tree"
	SHA  string `json:"sha"`
}

type Tree struct {
	SHA     string      `json:"sha"`
	Entries []TreeEntry `json:"tree,omitempty"`
}

type CommitUser struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

type Commit struct {
	SHA       string      `json:"sha,omitempty"`
	Message   string      `json:"message"`
	Tree      Tree        `json:"tree"`
	Parents   []string    `json:"parents,omitempty"`
	Author    *CommitUser `json:"author,omitempty"`
	Committer *CommitUser `json:"committer,omitempty"`
}

// TypedObject is the target of a reference.
type TypedObject struct {
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

type Reference struct {
	Ref    string      `json:"ref"`
	Object TypedObject `json:"object"`
}

type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Quota is the host's view of the remaining API budget.
type Quota struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

// RepositoryID names the destination repository.
type RepositoryID struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the "owner/name" form.
func (r RepositoryID) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// IsZero reports whether either half of the id is missing.
func (r RepositoryID) IsZero() bool {
	return r.Owner == "" || r.Name == ""
}

// BatchResult records what one batch did (or would have done in a dry run).
type BatchResult struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Entries int    `json:"entries"`
	Tree    string `json:"tree"`
	Commit  string `json:"commit"`
	Parent  string `json:"parent,omitempty"`
	Created bool   `json:"created"`
}
