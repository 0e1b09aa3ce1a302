package history

import (
	"context"
	"sort"

	"github.com/ariel-frischer/monorel/internal/config"
	"github.com/ariel-frischer/monorel/internal/errors"
	"github.com/ariel-frischer/monorel/internal/gitexec"
	"github.com/ariel-frischer/monorel/internal/pkgs"
	"golang.org/x/sync/errgroup"
)

// Resolver enumerates and filters the commits in a revision range that are
// relevant to one package, either directly or through that package's
// internal dependencies as resolved at each commit.
type Resolver struct {
	cfg     *config.Configuration
	git     *gitexec.Git
	fetcher *Fetcher
	recon   *Reconstructor
	deps    *pkgs.Analyzer
}

// NewResolver creates a Resolver over the given repository.
// Each Resolver owns its own dependency analyzer; do not share a Resolver
// across concurrent package analyses.
func NewResolver(cfg *config.Configuration, git *gitexec.Git) *Resolver {
	fetcher := NewFetcher(git)
	return &Resolver{
		cfg:     cfg,
		git:     git,
		fetcher: fetcher,
		recon:   NewReconstructor(git, fetcher),
		deps:    pkgs.NewAnalyzer(cfg, git),
	}
}

// ResolveRange returns the commits in from..to relevant to desc, ordered
// with merge commits first and orphan commits after, both newest first.
//
// The only fatal condition is an unresolvable boundary reference. Every
// other failure (rev-list errors, unreadable commits, unparseable manifests)
// degrades that step's contribution to empty; a broken commit must never
// sink the whole analysis.
func (r *Resolver) ResolveRange(ctx context.Context, desc pkgs.Descriptor, from, to string) (commits []Commit, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logDebug("[history] range resolution panicked for %s %s..%s: %v", desc.Name, from, to, rec)
			commits, err = nil, nil
		}
	}()

	if _, ok := r.git.ResolveRef(ctx, from); !ok {
		return nil, errors.InvalidReference(from)
	}
	if _, ok := r.git.ResolveRef(ctx, to); !ok {
		return nil, errors.InvalidReference(to)
	}

	all := r.git.RevList(ctx, from, to, gitexec.RevListOptions{})
	merges := r.git.RevList(ctx, from, to, gitexec.RevListOptions{MergesOnly: true})

	merges = r.relevantMerges(ctx, desc, merges)

	hashes := unionHashes(all, merges)
	resolved := r.fetchAll(ctx, hashes, toSet(merges))

	kept := r.filterRelevant(ctx, desc, resolved)
	return orderCommits(kept), nil
}

// relevantMerges re-derives the merge set for non-root packages: only merges
// whose delivered diff touches the package path stay in. The root package
// considers every merge relevant. Checks run concurrently with bounded
// fan-out; each merge's result lands in its own slot.
func (r *Resolver) relevantMerges(ctx context.Context, desc pkgs.Descriptor, merges []string) []string {
	if desc.IsRoot() || len(merges) == 0 {
		return merges
	}

	relevant := make([]bool, len(merges))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxParallel)

	for i, hash := range merges {
		i, hash := i, hash
		g.Go(func() error {
			files := r.git.ChangedFiles(gctx, hash)
			relevant[i] = touchesPath(files, desc.Path)
			return nil
		})
	}
	// Workers never return errors; failures just leave the slot false.
	_ = g.Wait()

	var kept []string
	for i, hash := range merges {
		if relevant[i] {
			kept = append(kept, hash)
		}
	}
	return kept
}

// fetchAll fetches and parses every hash concurrently with bounded fan-out.
// Merge commits get PR reconstruction attached. Unreadable commits are
// dropped; a dropped sibling never cancels the rest.
func (r *Resolver) fetchAll(ctx context.Context, hashes []string, mergeSet map[string]bool) []Commit {
	slots := make([]*Commit, len(hashes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxParallel)

	for i, hash := range hashes {
		i, hash := i, hash
		g.Go(func() error {
			commit, ok := r.fetcher.Fetch(gctx, hash)
			if !ok {
				logDebug("[history] dropping unreadable commit %s", hash)
				return nil
			}
			if mergeSet[hash] && commit.Message.IsMerge {
				commit.PR = r.recon.Reconstruct(gctx, hash, commit.Message)
			}
			slots[i] = &commit
			return nil
		})
	}
	_ = g.Wait()

	var commits []Commit
	for _, slot := range slots {
		if slot != nil {
			commits = append(commits, *slot)
		}
	}
	return commits
}

// filterRelevant keeps the commits that matter to the package. Direct path
// membership wins outright; the dependency check only applies when direct
// membership is false. The root package keeps every commit that changed at
// least one file.
func (r *Resolver) filterRelevant(ctx context.Context, desc pkgs.Descriptor, commits []Commit) []Commit {
	var kept []Commit
	for _, commit := range commits {
		if desc.IsRoot() {
			if len(commit.Files) > 0 {
				kept = append(kept, commit)
			}
			continue
		}

		if touchesPath(commit.Files, desc.Path) {
			kept = append(kept, commit)
			continue
		}

		// Dependencies are resolved as of this commit, not as of HEAD: a
		// dependency added later must not make old commits relevant.
		for _, depPath := range r.deps.DepPaths(ctx, desc, commit.Hash) {
			if touchesPath(commit.Files, depPath) {
				// A merge relevant only through a dependency path was not in
				// the package's merge set, so it has no reconstruction yet.
				if commit.Message.IsMerge && commit.PR == nil {
					commit.PR = r.recon.Reconstruct(ctx, commit.Hash, commit.Message)
				}
				kept = append(kept, commit)
				break
			}
		}
	}
	return kept
}

// orderCommits partitions into merge commits and orphans (non-merge commits
// not already subsumed as a PR commit of a retained merge), sorts each by
// commit date descending, and returns merges followed by orphans.
func orderCommits(commits []Commit) []Commit {
	subsumed := make(map[string]bool)
	for _, commit := range commits {
		if commit.PR == nil {
			continue
		}
		for _, prCommit := range commit.PR.Commits {
			subsumed[prCommit.Hash] = true
		}
	}

	var merges, orphans []Commit
	for _, commit := range commits {
		switch {
		case commit.Message.IsMerge:
			merges = append(merges, commit)
		case !subsumed[commit.Hash]:
			orphans = append(orphans, commit)
		}
	}

	byDateDesc := func(list []Commit) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Time().After(list[j].Time())
		})
	}
	byDateDesc(merges)
	byDateDesc(orphans)

	return append(merges, orphans...)
}

// unionHashes merges two hash lists preserving first-seen order.
func unionHashes(a, b []string) []string {
	seen := make(map[string]bool)
	var union []string
	for _, list := range [][]string{a, b} {
		for _, hash := range list {
			if !seen[hash] {
				seen[hash] = true
				union = append(union, hash)
			}
		}
	}
	return union
}

// toSet builds a membership set from a hash list.
func toSet(hashes []string) map[string]bool {
	set := make(map[string]bool, len(hashes))
	for _, hash := range hashes {
		set[hash] = true
	}
	return set
}
