package nixstore

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/nixdiff/nixdiff/store"
)

// quotedPathMatcher extracts the quoted store paths from nixos-option output.
var quotedPathMatcher = regexp.MustCompile(`"(.+?)"`)

type CommandSourceConfig struct {
	// NixosOptionBin lists environment.systemPackages.
	NixosOptionBin string

	// NixStoreBin queries dependency closures with -qR.
	NixStoreBin string
}

func DefaultCommandSourceConfig() CommandSourceConfig {
	return CommandSourceConfig{
		NixosOptionBin: "nixos-option",
		NixStoreBin:    "nix-store",
	}
}

type commandSource struct {
	config CommandSourceConfig
}

var _ Source = (*commandSource)(nil)

// NewCommandSource builds a source that observes the system by shelling out
// to the nix tooling. It needs no special privileges but has no registration
// times, so ambiguous duplicates resolve by highest version instead.
func NewCommandSource(config CommandSourceConfig) (*commandSource, error) {
	return &commandSource{config: config}, nil
}

func (c *commandSource) Name() string {
	return "command"
}

func (c *commandSource) SystemStores(ctx context.Context) (store.StoreSet, error) {
	output, err := runCommand(ctx, c.config.NixosOptionBin, "environment.systemPackages")
	if err != nil {
		return nil, err
	}

	return parseSystemPackagesOutput(output)
}

func (c *commandSource) Closure(ctx context.Context, path store.StorePath) ([]store.StorePath, error) {
	output, err := runCommand(ctx, c.config.NixStoreBin, "-qR", path.Origin)
	if err != nil {
		return nil, err
	}

	return parseClosureOutput(output), nil
}

// parseSystemPackagesOutput extracts store paths from the bracketed list
// nixos-option prints for environment.systemPackages. Without registration
// times the deduplication window cannot apply, so conflicting versions of a
// name resolve to the highest version seen.
func parseSystemPackagesOutput(output string) (store.StoreSet, error) {
	start := strings.Index(output, "[ ")
	end := strings.IndexByte(output, ']')
	if start < 0 || end < 0 || end < start {
		return nil, ErrMalformedOutput.Wrap(fmt.Errorf("no package list in %d bytes of output", len(output)))
	}

	stores := make(store.StoreSet)

	for _, match := range quotedPathMatcher.FindAllStringSubmatch(output[start+2:end], -1) {
		parsed, ok := store.Parse(match[1])
		if !ok {
			continue
		}

		if existing, ok := stores[parsed.Key()]; ok && existing.Version > parsed.Version {
			continue
		}

		stores.Insert(parsed)
	}

	return stores, nil
}

// parseClosureOutput parses one store path per line of nix-store -qR output.
// The final line names the queried package itself; it parses fine and is
// excluded later by identity when the package is assembled.
func parseClosureOutput(output string) []store.StorePath {
	var paths []store.StorePath

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if parsed, ok := store.Parse(line); ok {
			paths = append(paths, parsed)
		}
	}

	return paths
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", ErrCommandFailed.Wrap(fmt.Errorf("%s: %w\nstderr: %s",
			name, err, strings.TrimSpace(stderr.String())))
	}

	return stdout.String(), nil
}
