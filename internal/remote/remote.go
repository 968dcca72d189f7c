// Package remote resolves GitHub shorthand references to local checkouts.
package remote

import (
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents a remote repository to analyze.
type Source struct {
	URL      string // normalized git URL
	Ref      string // branch, tag, or SHA (empty = default branch)
	CloneDir string // temp directory after clone
}

// Parse detects if a path is a remote reference: a full clone URL, a host
// path like github.com/owner/repo, or the owner/repo GitHub shorthand, each
// optionally suffixed with @ref. Returns nil if path exists on the
// filesystem (local paths take precedence).
func Parse(path string) (*Source, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	// SSH URLs carry a literal "@"; take them verbatim.
	if strings.HasPrefix(path, "git@") {
		return &Source{URL: path}, nil
	}

	// Extract ref from path@ref syntax
	ref := ""
	if idx := strings.LastIndex(path, "@"); idx != -1 {
		ref = path[idx+1:]
		path = path[:idx]
	}

	switch {
	case strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "http://"):
		return &Source{URL: path, Ref: ref}, nil
	case strings.HasPrefix(path, "github.com/"),
		strings.HasPrefix(path, "gitlab.com/"),
		strings.HasPrefix(path, "bitbucket.org/"):
		return &Source{URL: "https://" + path, Ref: ref}, nil
	}

	if isGitHubShorthand(path) {
		return &Source{
			URL: "https://github.com/" + path,
			Ref: ref,
		}, nil
	}

	return nil, nil
}

// isGitHubShorthand returns true if path matches owner/repo pattern.
func isGitHubShorthand(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx == -1 {
		return false
	}
	// Must have exactly one slash
	if strings.Count(path, "/") != 1 {
		return false
	}
	// No dots before the slash (would indicate a domain)
	if strings.Contains(path[:slashIdx], ".") {
		return false
	}
	// Both parts must be non-empty
	return slashIdx > 0 && slashIdx < len(path)-1
}

// Fetch clones the source into a temp directory and returns the checkout
// path. Clones are shallow unless a ref needs resolving beyond the tip.
// The caller releases the checkout with Cleanup.
func (s *Source) Fetch() (string, error) {
	dir, err := os.MkdirTemp("", "scry-remote-*")
	if err != nil {
		return "", err
	}

	opts := &git.CloneOptions{
		URL:          s.URL,
		Depth:        1,
		SingleBranch: true,
	}
	if s.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.Ref)
	}

	repo, err := git.PlainClone(dir, false, opts)
	if err != nil && s.Ref != "" {
		// The ref may be a tag or a commit SHA rather than a branch; retry
		// with a full clone and check the ref out explicitly.
		os.RemoveAll(dir)
		if dir, err = os.MkdirTemp("", "scry-remote-*"); err != nil {
			return "", err
		}
		repo, err = git.PlainClone(dir, false, &git.CloneOptions{URL: s.URL})
		if err == nil {
			err = checkoutRef(repo, s.Ref)
		}
	}
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to clone %s: %w", s.URL, err)
	}

	s.CloneDir = dir
	return dir, nil
}

func checkoutRef(repo *git.Repository, ref string) error {
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}

	tagRef := plumbing.NewTagReferenceName(ref)
	if _, err := repo.Reference(tagRef, true); err == nil {
		return wt.Checkout(&git.CheckoutOptions{Branch: tagRef})
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return err
	}
	return wt.Checkout(&git.CheckoutOptions{Hash: *hash})
}

// Cleanup removes the cloned checkout, if any.
func (s *Source) Cleanup() {
	if s.CloneDir != "" {
		os.RemoveAll(s.CloneDir)
		s.CloneDir = ""
	}
}
