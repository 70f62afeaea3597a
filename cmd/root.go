package cmd

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ernesto27/typeadd/config"
	"github.com/ernesto27/typeadd/manager"
	"github.com/ernesto27/typeadd/progress"
	"github.com/ernesto27/typeadd/registry"
	"github.com/ernesto27/typeadd/report"
	"github.com/ernesto27/typeadd/resolve"
	"github.com/spf13/cobra"
)

//go:embed version.json
var versionFile []byte

type VersionInfo struct {
	Version string `json:"version"`
}

func getVersion() string {
	var versionInfo VersionInfo
	if err := json.Unmarshal(versionFile, &versionInfo); err != nil {
		return "unknown"
	}
	return versionInfo.Version
}

var (
	devFlag                 bool
	ignoreWorkspaceRootFlag bool
	dryRunFlag              bool
	packageManagerFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "typeadd <package[@version]...>",
	Short: "Install npm packages together with their TypeScript declarations",
	Long: `typeadd checks each package on the npm registry, figures out whether it
ships its own TypeScript declarations or has a published @types companion,
and runs a single install command that adds everything in one shot.

Append ` + resolve.DevMarker + ` to a package name to force that single package into the
dev-dependency group:

  typeadd lodash 'typescript$D'`,
	Version: getVersion(),
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRoot,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().BoolVarP(&devFlag, "dev", "D", false, "Install every package as a dev dependency")
	rootCmd.Flags().BoolVarP(&ignoreWorkspaceRootFlag, "ignore-workspace-root-check", "W", false, "Allow installing at a monorepo workspace root")
	rootCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Print the install command without running it")
	rootCmd.Flags().StringVarP(&packageManagerFlag, "package-manager", "p", "", "Package manager to use (yarn|npm|pnpm|bun)")
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	client := registry.New(cfg.RegistryPageURL)

	prog := progress.New(len(args))
	resolver := resolve.NewResolver(client, prog.Increment)

	prog.Start()
	outcomes := resolver.ResolveAll(args, devFlag)
	prog.Stop()

	fmt.Println(report.Render(outcomes))

	targets := report.ComputeTargets(outcomes)
	if targets.Empty() {
		fmt.Println("No packages")
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	pm, err := pickManager(cfg, cwd)
	if err != nil {
		return err
	}

	if !ignoreWorkspaceRootFlag && pm.HasWorkspaceRootCheck() && manager.IsWorkspaceRoot(cwd) {
		return fmt.Errorf("%s is a workspace root, pass -W to install here", cwd)
	}

	command := pm.Assemble(targets, ignoreWorkspaceRootFlag)

	if dryRunFlag {
		fmt.Println(command)
		return nil
	}

	// A failed install is reported but does not fail the process
	if err := manager.Run(command); err != nil {
		fmt.Println(report.Error(err.Error()))
	}

	return nil
}

func pickManager(cfg *config.Config, dir string) (manager.PackageManager, error) {
	name := packageManagerFlag
	if name == "" {
		name = cfg.PackageManager
	}

	if name != "" {
		return manager.Get(name)
	}

	return manager.Detect(dir), nil
}
