package uires

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Kind identifies which resource a URI addresses.
type Kind int

const (
	// KindSummary is the rendered HTML summary of a single post.
	KindSummary Kind = iota
	// KindRemoteDom is the remote-DOM script variant of a single post.
	KindRemoteDom
	// KindList is the aggregate listing of the post collection.
	KindList
)

// ErrInvalidURI is returned by Resolve for any URI outside the recognized
// grammar, including non-numeric or non-positive post ids.
var ErrInvalidURI = errors.New("invalid URI format")

// Target is the resolved form of a resource URI. ID is zero for KindList.
type Target struct {
	Kind Kind
	ID   int
}

var (
	postURIPattern = regexp.MustCompile(`^post://(\d+)$`)
	urnURIPattern  = regexp.MustCompile(`^urn:post:(\d+):(summary|remote-dom)$`)
)

// SummaryURI returns the canonical URI of a post's summary resource. The
// mapping is deterministic: the same id always yields the same URI.
func SummaryURI(postID int) string {
	return fmt.Sprintf("urn:post:%d:summary", postID)
}

// RemoteDomURI returns the canonical URI of a post's remote-DOM resource.
func RemoteDomURI(postID int) string {
	return fmt.Sprintf("urn:post:%d:remote-dom", postID)
}

// ListURI is the canonical URI of the aggregate post listing.
const ListURI = "urn:posts:list"

// Resolve parses a resource URI into a Target. Recognized forms:
//
//	posts://list, urn:posts:list        -> KindList
//	post://{digits}                     -> KindSummary
//	urn:post:{digits}:summary           -> KindSummary
//	urn:post:{digits}:remote-dom        -> KindRemoteDom
//
// Parsing is strict; anything else fails with ErrInvalidURI.
func Resolve(uri string) (Target, error) {
	switch uri {
	case "posts://list", ListURI:
		return Target{Kind: KindList}, nil
	}

	if m := postURIPattern.FindStringSubmatch(uri); m != nil {
		id, err := parsePostID(m[1])
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: KindSummary, ID: id}, nil
	}

	if m := urnURIPattern.FindStringSubmatch(uri); m != nil {
		id, err := parsePostID(m[1])
		if err != nil {
			return Target{}, err
		}
		kind := KindSummary
		if m[2] == "remote-dom" {
			kind = KindRemoteDom
		}
		return Target{Kind: kind, ID: id}, nil
	}

	return Target{}, fmt.Errorf("%w: %s", ErrInvalidURI, uri)
}

func parsePostID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: post id %q out of range", ErrInvalidURI, raw)
	}
	return id, nil
}
