package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/domain/user"
	"freightdesk/internal/usecase/viewstate"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")
		query, _ := cmd.Flags().GetString("query")
		page, err := svc.Users.List(cmd.Context(), user.ListFilter{Skip: skip, Limit: limit})
		if err != nil {
			return err
		}
		page.Items = viewstate.Filter(page.Items, query,
			viewstate.Field(func(u user.User) string { return u.Email }),
			viewstate.Field(func(u user.User) string { return u.Username }),
			viewstate.Field(func(u user.User) string { return u.DisplayName() }),
			viewstate.Field(func(u user.User) string { return strings.Join(u.RoleNames(), " ") }),
		)
		return render(cmd, page, func() table {
			out := usersTable(page.Items)
			out.add("", "", "", "", "", "total="+itoa(int64(page.Total)))
			return out
		})
	}),
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "user id")
		if err != nil {
			return err
		}
		found, err := svc.Users.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd, found, func() table { return userFields(found) })
	}),
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		email, _ := cmd.Flags().GetString("email")
		username, _ := cmd.Flags().GetString("username")
		fullName, _ := cmd.Flags().GetString("full-name")
		password, err := resolvePassword(cmd)
		if err != nil {
			return err
		}
		roleIDs, _ := cmd.Flags().GetInt64Slice("role-id")

		request := user.CreateRequest{
			Email:    email,
			Username: username,
			FullName: fullName,
			Phone:    stringFlag(cmd, "phone"),
			Password: password,
			RoleIDs:  roleIDs,
		}
		created, err := svc.Users.Create(cmd.Context(), request)
		if err != nil {
			return err
		}
		return render(cmd, created, func() table { return userFields(created) })
	}),
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the fields of a user that were given as flags",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "user id")
		if err != nil {
			return err
		}
		request := user.UpdateRequest{
			Email:    stringFlag(cmd, "email"),
			Username: stringFlag(cmd, "username"),
			FullName: stringFlag(cmd, "full-name"),
			Phone:    stringFlag(cmd, "phone"),
			Password: stringFlag(cmd, "password"),
		}
		if cmd.Flags().Changed("role-id") {
			request.RoleIDs, _ = cmd.Flags().GetInt64Slice("role-id")
		}

		updated, err := svc.Users.Update(cmd.Context(), id, request)
		if err != nil {
			return err
		}
		return render(cmd, updated, func() table { return userFields(updated) })
	}),
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a user",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "user id")
		if err != nil {
			return err
		}
		deactivated, err := svc.Users.Deactivate(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd, deactivated, func() table { return userFields(deactivated) })
	}),
}

var usersByRoleCmd = &cobra.Command{
	Use:   "by-role <role>",
	Short: "List users holding a role, e.g. driver",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		items, err := svc.Users.ByRole(cmd.Context(), cmd.Flags().Arg(0))
		if err != nil {
			return err
		}
		return render(cmd, items, func() table { return usersTable(items) })
	}),
}

func usersTable(items []user.User) table {
	out := table{header: []string{"id", "email", "username", "full_name", "roles", "status"}}
	for _, item := range items {
		out.add(
			itoa(item.ID),
			item.Email,
			item.Username,
			item.DisplayName(),
			strings.Join(item.RoleNames(), ","),
			item.ActiveLabel(),
		)
	}
	return out
}

// stringFlag returns nil unless the flag was set on the command line.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(
		usersListCmd,
		usersGetCmd,
		usersCreateCmd,
		usersUpdateCmd,
		usersDeactivateCmd,
		usersByRoleCmd,
	)

	usersListCmd.Flags().Int("skip", 0, "Number of users to skip")
	usersListCmd.Flags().Int("limit", 50, "Maximum number of users")
	usersListCmd.Flags().String("query", "", "Case-insensitive text filter applied to the fetched page")

	for _, c := range []*cobra.Command{usersCreateCmd, usersUpdateCmd} {
		c.Flags().String("email", "", "Email")
		c.Flags().String("username", "", "Username")
		c.Flags().String("full-name", "", "Full name")
		c.Flags().String("phone", "", "Phone number")
		c.Flags().String("password", "", "Password")
		c.Flags().Int64Slice("role-id", nil, "Role id, repeatable")
	}
	usersCreateCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
	_ = usersCreateCmd.MarkFlagRequired("email")
	_ = usersCreateCmd.MarkFlagRequired("username")
}
