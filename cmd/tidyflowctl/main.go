// Command tidyflowctl is the operator-facing CLI for the tidyflow daemon:
// it manages the project registry directly against the on-disk state
// document and reports basic environment diagnostics. Grounded on the
// teacher's cmd/wt/main.go (cobra command tree) and cmd/wt/doctor.go
// (environment checks via exec.LookPath/os.Getenv).
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitbobobo/tidyflow/internal/config"
	"github.com/gitbobobo/tidyflow/internal/gitcli"
	"github.com/gitbobobo/tidyflow/internal/state"
)

func cmdContext() context.Context { return context.Background() }

func main() {
	root := &cobra.Command{
		Use:   "tidyflowctl",
		Short: "manage the tidyflow workspace host",
	}

	root.AddCommand(projectsCmd(), doctorCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() (*state.Store, string, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, "", err
	}
	if err := config.EnsureDataDirs(dataDir); err != nil {
		return nil, "", err
	}
	store, err := state.Load(config.StateFilePath(dataDir))
	if err != nil {
		return nil, "", err
	}
	return store, dataDir, nil
}

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "manage registered projects",
	}
	cmd.AddCommand(projectsImportCmd(), projectsListCmd())
	return cmd
}

func projectsImportCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "register an existing Git repository as a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("%s is not a directory", path)
			}
			if _, err := os.Stat(path + "/.git"); err != nil {
				return fmt.Errorf("%s is not a Git repository", path)
			}

			store, dataDir, err := openStore()
			if err != nil {
				return err
			}

			projectName := name
			if projectName == "" {
				projectName = filepath.Base(path)
			}
			if _, ok := store.GetProject(projectName); ok {
				return fmt.Errorf("project %q already registered", projectName)
			}

			git := gitcli.New()
			ctx := cmdContext()
			branches, err := git.Branches(ctx, path)
			if err != nil {
				return fmt.Errorf("read branches: %w", err)
			}
			defaultBranch := branches.Current
			if defaultBranch == "" {
				defaultBranch = "main"
			}

			store.AddProject(&state.Project{
				Name:          projectName,
				RootPath:      path,
				DefaultBranch: defaultBranch,
				RemoteURL:     git.RemoteURL(ctx, path),
				Workspaces:    map[string]*state.Workspace{},
			})

			saver := state.StartSaver(store, config.StateFilePath(dataDir), time.Millisecond)
			saver.Trigger()
			saver.Stop()

			fmt.Printf("imported %q at %s (default branch %s)\n", projectName, path, defaultBranch)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (defaults to the directory's base name)")
	return cmd
}

func projectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "list registered projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			names := store.ListProjects()
			if len(names) == 0 {
				fmt.Println("no projects registered")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tROOT\tDEFAULT BRANCH\tWORKSPACES")
			for _, name := range names {
				p, ok := store.GetProject(name)
				if !ok {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.Name, p.RootPath, p.DefaultBranch, len(p.Workspaces))
			}
			return tw.Flush()
		},
	}
}

var wellKnownCLIs = []struct {
	name string
	cmd  string
}{
	{"git", "git"},
	{"tidyflowd", "tidyflowd"},
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "check the local environment tidyflowd depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := config.DataDir()
			if err != nil {
				return err
			}

			fmt.Println("tidyflow doctor")
			fmt.Println()

			fmt.Println("CLI tools:")
			for _, c := range wellKnownCLIs {
				if path, err := exec.LookPath(c.cmd); err == nil {
					fmt.Printf("  %-12s %s\n", c.name, path)
				} else {
					fmt.Printf("  %-12s not found\n", c.name)
				}
			}
			fmt.Println()

			fmt.Println("Config:")
			fmt.Printf("  data dir: %s\n", dataDir)
			cfg, err := config.Load(config.ConfigFilePath(dataDir))
			if err != nil {
				return err
			}
			fmt.Printf("  port:     %d\n", cfg.Port)
			fmt.Printf("  log:      %s\n", cfg.LogLevel)
			return nil
		},
	}
}
