package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version string
	Commit  string
	Date    string
	Dirty   bool
	Module  string
	Deps    map[string]string
}

// stackModules are the dependencies reported by `version --deps`.
var stackModules = []string{
	"github.com/go-chi/chi/v5",
	"github.com/gorilla/websocket",
	"github.com/prometheus/client_golang",
	"github.com/spf13/cobra",
	"go.opentelemetry.io/otel",
	"gopkg.in/yaml.v3",
}

// currentBuild combines the linker-set variables with the embedded build
// info. Linker values win; a `go install` binary has only the latter.
func currentBuild() buildInfo {
	info := buildInfo{Version: version, Commit: commit, Date: date, Deps: map[string]string{}}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.Module = bi.Main.Path
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	for _, dep := range bi.Deps {
		info.Deps[dep.Path] = dep.Version
	}
	return info
}

func (b buildInfo) shortCommit() string {
	c := b.Commit
	if len(c) > 12 {
		c = c[:12]
	}
	if b.Dirty {
		c += "-dirty"
	}
	return c
}

func versionCmd() *cobra.Command {
	var (
		short bool
		deps  bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the floatkit version and how the binary was built.

Values set by the release build take precedence; otherwise they are read
from the module and VCS information Go embeds in the binary.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			info := currentBuild()
			if short {
				fmt.Fprintln(out, info.Version)
				return
			}
			printBuild(out, info, deps)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&deps, "deps", false, "Also list the versions of the UI and server stack")

	return cmd
}

func printBuild(out io.Writer, info buildInfo, deps bool) {
	printBanner(out)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Version:    %s\n", info.Version)
	fmt.Fprintf(out, "  Commit:     %s\n", info.shortCommit())
	fmt.Fprintf(out, "  Built:      %s\n", info.Date)
	if info.Module != "" {
		fmt.Fprintf(out, "  Module:     %s\n", info.Module)
	}
	fmt.Fprintf(out, "  Go version: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	if deps {
		fmt.Fprintln(out)
		for _, path := range stackModules {
			v, ok := info.Deps[path]
			if !ok {
				v = gray("not linked")
			}
			fmt.Fprintf(out, "  %-38s %s\n", path, v)
		}
	}
	fmt.Fprintln(out)
}
