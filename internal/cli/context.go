package cli

import (
	"path/filepath"

	"github.com/ariel-frischer/monorel/internal/config"
	"github.com/ariel-frischer/monorel/internal/errors"
	"github.com/ariel-frischer/monorel/internal/gitexec"
	"github.com/ariel-frischer/monorel/internal/pkgs"
	"github.com/ariel-frischer/monorel/internal/repo"
)

// appEnv bundles the loaded configuration and the git collaborator for
// one command invocation.
type appEnv struct {
	cfg  *config.Configuration
	root string
	git  *gitexec.Git
}

// setup loads configuration and locates the repository root. Every
// command that touches git history goes through here.
func setup() (*appEnv, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	if !repo.IsRepository(repoFlag) {
		return nil, NewExitError(ExitNotRepository, errors.GitNotRepository())
	}
	root, err := repo.Root(repoFlag)
	if err != nil {
		return nil, errors.Wrap(err, errors.Runtime)
	}

	runner := gitexec.NewCLIRunner(cfg.GitTimeout)
	return &appEnv{
		cfg:  cfg,
		root: root,
		git:  gitexec.New(runner, root),
	}, nil
}

// descriptor resolves a package name argument against the configuration.
func (e *appEnv) descriptor(name string) pkgs.Descriptor {
	return pkgs.Resolve(e.cfg, name)
}

// abs returns the absolute path of a repository-relative path.
func (e *appEnv) abs(rel string) string {
	return filepath.Join(e.root, rel)
}
