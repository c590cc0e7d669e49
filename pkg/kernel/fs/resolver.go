package fs

import (
	"fmt"
	"path"
	"strings"
)

// FsResolver is a process's path-resolution context: its root and
// working directory. Shareable across the process's threads under the
// owning lock.
type FsResolver struct {
	root string
	cwd  string
}

// NewFsResolver creates a resolver rooted and working at "/".
func NewFsResolver() FsResolver {
	return FsResolver{root: "/", cwd: "/"}
}

// Cwd returns the working directory.
func (r *FsResolver) Cwd() string {
	return r.cwd
}

// SetCwd changes the working directory. The path must be absolute.
func (r *FsResolver) SetCwd(dir string) error {
	if !strings.HasPrefix(dir, "/") {
		return fmt.Errorf("fs: cwd must be absolute, got %q", dir)
	}
	r.cwd = path.Clean(dir)
	return nil
}

// Resolve turns p into a cleaned absolute path relative to the
// resolver's working directory.
func (r *FsResolver) Resolve(p string) string {
	if strings.HasPrefix(p, "/") {
		return path.Clean(p)
	}
	return path.Join(r.cwd, p)
}
