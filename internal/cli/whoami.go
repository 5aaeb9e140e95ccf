package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"adaptik/pkg/adaptive/httpclient"
)

func runWhoami(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		client, err := httpclient.New(httpclient.Options{})
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		defer client.Close()

		identity, err := client.Me(context.Background())
		if err != nil {
			fmt.Fprintf(stderr, "Failed to fetch identity: %v\n", err)
			return ExitError
		}
		name := strings.TrimSpace(identity.User.FirstName + " " + identity.User.LastName)
		fmt.Fprintf(stdout, "User: %s <%s>\n", name, identity.User.Email)
		for _, team := range identity.Teams {
			fmt.Fprintf(stdout, "Team: %s (%s)\n", team.Name, team.Role)
		}
		return ExitOK
	}
}
