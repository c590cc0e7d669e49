package thread

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rzbill/nucleus/pkg/kernel/fs"
	"github.com/rzbill/nucleus/pkg/kernel/vm"
)

// ErrNoSuchExecutable is returned by loaders when the path does not
// name a loadable image.
var ErrNoSuchExecutable = errors.New("thread: no such executable")

// Loader maps an executable image into an address space. The real
// ELF machinery is a collaborator; the core only needs the contract.
type Loader interface {
	Load(as *vm.AddressSpace, resolver *fs.FsResolver, path string, argv, envp []string) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(as *vm.AddressSpace, resolver *fs.FsResolver, path string, argv, envp []string) error

// Load calls f.
func (f LoaderFunc) Load(as *vm.AddressSpace, resolver *fs.FsResolver, path string, argv, envp []string) error {
	return f(as, resolver, path, argv, envp)
}

// ImageLoader is the boot/test loader: it accepts any absolute path
// and reserves a text region for the image.
type ImageLoader struct{}

var _ Loader = (*ImageLoader)(nil)

// NewImageLoader creates the default loader.
func NewImageLoader() *ImageLoader {
	return &ImageLoader{}
}

// textBase is where the fake image is reserved.
const textBase uintptr = 0x0000_0040_0000

// Load validates the path and reserves a text region in the address
// space.
func (l *ImageLoader) Load(as *vm.AddressSpace, resolver *fs.FsResolver, path string, argv, envp []string) error {
	resolved := resolver.Resolve(path)
	if !strings.HasPrefix(resolved, "/") || resolved == "/" {
		return fmt.Errorf("%w: %q", ErrNoSuchExecutable, path)
	}
	if err := as.Map(vm.Range{Start: textBase, End: textBase + 16*vm.PageSize}, "text:"+resolved); err != nil {
		return fmt.Errorf("failed to map text segment: %w", err)
	}
	return nil
}
