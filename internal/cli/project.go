package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"snekctl/internal/catalog"
	"snekctl/internal/descriptor"
	"snekctl/internal/lockfile"
	"snekctl/internal/shellenv"
	"snekctl/internal/system"
)

// project bundles what every dev shell command starts from: the located
// descriptor and the tool catalog.
type project struct {
	DescriptorPath string
	Descriptor     descriptor.Descriptor
	Catalog        *catalog.Catalog
}

// loadProject walks up from the working directory, loads and validates the
// descriptor, and loads the catalog.
func loadProject() (*project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dpath, err := descriptor.Find(cwd)
	if errors.Is(err, descriptor.ErrNotFound) {
		return nil, fmt.Errorf("no %s between here and the filesystem root; run `snekctl init`", descriptor.DefaultName)
	}
	if err != nil {
		return nil, err
	}
	d, err := descriptor.Load(dpath)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load()
	if err != nil {
		system.Logger.Warn("user catalog ignored", "err", err)
	}
	if problems := d.Validate(cat.Known); len(problems) > 0 {
		return nil, fmt.Errorf("%s is invalid:\n  %s", dpath, strings.Join(problems, "\n  "))
	}
	return &project{DescriptorPath: dpath, Descriptor: d, Catalog: cat}, nil
}

// lock loads the lockfile for the project, erroring with a hint when the
// project has never been synced or the lock no longer matches.
func (p *project) lock() (lockfile.Lock, error) {
	l, err := lockfile.Load(lockfile.Path(p.DescriptorPath))
	if os.IsNotExist(err) {
		return l, fmt.Errorf("no %s; run `snekctl sync` first", lockfile.DefaultName)
	}
	if err != nil {
		return l, err
	}
	if l.Stale(p.Descriptor.Fingerprint()) {
		return l, fmt.Errorf("%s is stale; run `snekctl sync`", lockfile.DefaultName)
	}
	return l, nil
}

// assemble builds the shell environment from the lock on top of the
// process search path.
func (p *project) assemble(l lockfile.Lock) (shellenv.Environment, error) {
	base := filepath.SplitList(os.Getenv("PATH"))
	return shellenv.Assemble(p.Descriptor, l, p.Catalog, base)
}
