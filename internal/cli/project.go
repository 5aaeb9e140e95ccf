package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"adaptik/pkg/adaptive/httpclient"
)

func runProject(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		name := fs.String("name", "", "Project name")
		team := fs.String("team", "", "Team id")
		description := fs.String("description", "", "Project description")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *name == "" {
			fmt.Fprintln(stderr, "--name is required")
			return ExitUsage
		}

		client, err := httpclient.New(httpclient.Options{})
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		defer client.Close()

		project, err := client.CreateProject(context.Background(), *name, *team, *description)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to create project: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Project %s created (%s)\n", project.Name, project.ID)
		return ExitOK
	}
}
