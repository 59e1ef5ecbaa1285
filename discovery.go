// FILE: lixenwraith/iniconf/discovery.go
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoverySource tells where a discovered INI file came from.
type DiscoverySource int

const (
	DiscoveredNone DiscoverySource = iota
	DiscoveredFlag
	DiscoveredEnv
	DiscoveredSearch
)

func (s DiscoverySource) String() string {
	switch s {
	case DiscoveredFlag:
		return "flag"
	case DiscoveredEnv:
		return "env"
	case DiscoveredSearch:
		return "search"
	default:
		return "none"
	}
}

// FileDiscoveryOptions configures where an INI file is looked for
type FileDiscoveryOptions struct {
	// Base name of the file, without extension
	Name string

	// Extensions tried in order for every search directory
	Extensions []string

	// Directories searched before the current and XDG directories
	Paths []string

	// Environment variable holding an explicit path
	EnvVar string

	// CLI flag holding an explicit path (e.g., "--config")
	CLIFlag string

	// Search XDG config directories
	UseXDG bool

	// Search the current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns the options for an application named appName:
// flag --config, variable APPNAME_CONFIG and the usual INI extensions.
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".ini", ".conf", ".cfg"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		CLIFlag:       "--config",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// Discovery is the outcome of a file lookup.
type Discovery struct {
	Path   string
	Source DiscoverySource
}

// WithFileDiscovery resolves the INI file from the builder's args, the
// environment and the search directories. When nothing is found the path set
// by WithFile, if any, is kept.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	found := Discover(opts, b.args)
	if found.Source != DiscoveredNone {
		b.opts.Path = found.Path
		b.discovered = found
	}
	return b
}

// DiscoverFile is Discover returning only the path; "" means nothing was found.
func DiscoverFile(opts FileDiscoveryOptions, args []string) string {
	return Discover(opts, args).Path
}

// Discover checks, in order: the CLI flag in args, the environment variable,
// then the first existing regular file among the search candidates. An
// explicit path from the flag or variable is returned even if it does not
// exist, so that Parse can report ErrConfigNotFound for it.
func Discover(opts FileDiscoveryOptions, args []string) Discovery {
	if path := flagValue(args, opts.CLIFlag); path != "" {
		return Discovery{Path: path, Source: DiscoveredFlag}
	}

	if opts.EnvVar != "" {
		if path := strings.TrimSpace(os.Getenv(opts.EnvVar)); path != "" {
			return Discovery{Path: path, Source: DiscoveredEnv}
		}
	}

	for _, candidate := range candidates(opts) {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return Discovery{Path: candidate, Source: DiscoveredSearch}
		}
	}

	return Discovery{}
}

// flagValue supports both "--flag value" and "--flag=value"
func flagValue(args []string, flag string) string {
	if flag == "" {
		return ""
	}
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
		if value, ok := strings.CutPrefix(arg, flag+"="); ok {
			return value
		}
	}
	return ""
}

// candidates lists every file path the search step tries, in priority order
func candidates(opts FileDiscoveryOptions) []string {
	dirs := append([]string(nil), opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			dirs = append(dirs, cwd)
		}
	}
	if opts.UseXDG {
		dirs = append(dirs, getXDGConfigPaths(opts.Name)...)
	}

	out := make([]string, 0, len(dirs)*len(opts.Extensions))
	for _, dir := range dirs {
		for _, ext := range opts.Extensions {
			out = append(out, filepath.Join(dir, opts.Name+ext))
		}
	}
	return out
}

// getXDGConfigPaths returns the per-application XDG config directories
func getXDGConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
