package manager

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/ernesto27/typeadd/report"
	"github.com/tidwall/gjson"
)

// PackageManager describes one host package manager's add syntax.
type PackageManager struct {
	Name string

	addCommand string
	devFlag    string

	// workspaceRootFlag is the token that bypasses the manager's
	// workspace-root safety check. Empty when the manager has none.
	workspaceRootFlag string
}

var managers = map[string]PackageManager{
	"yarn": {Name: "yarn", addCommand: "yarn add", devFlag: "-D", workspaceRootFlag: "-W"},
	"npm":  {Name: "npm", addCommand: "npm install", devFlag: "--save-dev"},
	"pnpm": {Name: "pnpm", addCommand: "pnpm add", devFlag: "-D", workspaceRootFlag: "-w"},
	"bun":  {Name: "bun", addCommand: "bun add", devFlag: "-d"},
}

// lockfiles maps lockfile names to the manager that writes them, in
// detection precedence order.
var lockfiles = []struct {
	file string
	pm   string
}{
	{"yarn.lock", "yarn"},
	{"pnpm-lock.yaml", "pnpm"},
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"package-lock.json", "npm"},
}

// Get returns the package manager with the given name.
func Get(name string) (PackageManager, error) {
	pm, ok := managers[name]
	if !ok {
		names := make([]string, 0, len(managers))
		for n := range managers {
			names = append(names, n)
		}
		sort.Strings(names)
		return PackageManager{}, fmt.Errorf("unknown package manager %q (supported: %s)", name, strings.Join(names, ", "))
	}
	return pm, nil
}

// Detect picks the package manager from lockfiles present in dir,
// defaulting to yarn when none is found.
func Detect(dir string) PackageManager {
	for _, l := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, l.file)); err == nil {
			return managers[l.pm]
		}
	}
	return managers["yarn"]
}

// HasWorkspaceRootCheck reports whether the manager refuses installs at a
// workspace root unless its override token is passed.
func (pm PackageManager) HasWorkspaceRootCheck() bool {
	return pm.workspaceRootFlag != ""
}

// shellSafeRegex covers targets that need no quoting. Version range specs
// carry shell metacharacters (>, <, |, spaces), so anything outside this
// set is single-quoted before the command reaches the shell.
var shellSafeRegex = regexp.MustCompile(`^[a-zA-Z0-9@/._^~-]+$`)

func shellQuote(s string) string {
	if shellSafeRegex.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func quoteTargets(targets []string) []string {
	quoted := make([]string, len(targets))
	for i, t := range targets {
		quoted[i] = shellQuote(t)
	}
	return quoted
}

// Assemble builds the install command line: a regular install, a dev
// install, or both chained with &&. Each target is shell-quoted as needed
// so a range spec like "lodash@>=4.17.0" stays a single argument. The
// workspace-root override token is appended to each install when requested.
func (pm PackageManager) Assemble(targets report.Targets, ignoreWorkspaceRoot bool) string {
	rootFlag := ""
	if ignoreWorkspaceRoot && pm.workspaceRootFlag != "" {
		rootFlag = " " + pm.workspaceRootFlag
	}

	var parts []string
	if len(targets.Regular) > 0 {
		parts = append(parts, pm.addCommand+" "+strings.Join(quoteTargets(targets.Regular), " ")+rootFlag)
	}
	if len(targets.Dev) > 0 {
		parts = append(parts, pm.addCommand+" "+strings.Join(quoteTargets(targets.Dev), " ")+" "+pm.devFlag+rootFlag)
	}

	return strings.Join(parts, " && ")
}

// IsWorkspaceRoot reports whether the package.json in dir declares a
// workspaces field, marking dir as a monorepo root.
func IsWorkspaceRoot(dir string) bool {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return false
	}
	return gjson.GetBytes(data, "workspaces").Exists()
}

// Run hands the command to the platform shell, streaming its output.
// The child's stdout and stderr go straight to the parent's.
func Run(command string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fmt.Printf("$ %s\n", command)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("install command failed: %w", err)
	}

	return nil
}
