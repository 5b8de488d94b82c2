package cmd

import (
	"bufio"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/user"
	"freightdesk/internal/errs"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in, log out and inspect the current session",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token locally",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		ctx := cmd.Context()

		email, _ := cmd.Flags().GetString("email")
		password, err := resolvePassword(cmd)
		if err != nil {
			return err
		}

		profile, err := svc.Session.Login(ctx, email, password)
		if err != nil {
			logging.Error(ctx, "login failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "login")
		}
		return printf(cmd, "logged in as %s (%s)\n", profile.Email, strings.Join(profile.RoleNames(), ","))
	}),
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the local session",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		if err := svc.Session.Logout(cmd.Context()); err != nil {
			return errs.Wrap(err, "logout")
		}
		return printf(cmd, "logged out\n")
	}),
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the profile of the logged in user",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		profile, err := svc.Session.Current(cmd.Context())
		if err != nil {
			return errs.Wrap(err, "load current user")
		}
		return render(cmd, profile, func() table {
			return userFields(profile)
		})
	}),
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is stored, without calling the server",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		status, err := svc.Session.Status(cmd.Context())
		if err != nil {
			return errs.Wrap(err, "load session status")
		}
		return render(cmd, status, func() table {
			out := fields("logged_in", boolText(status.LoggedIn))
			if status.User != nil {
				out.add("email", status.User.Email)
			}
			if status.ExpiresAt != nil {
				out.add("expires_at", status.ExpiresAt.UTC().Format(time.RFC3339))
			}
			return out
		})
	}),
}

// resolvePassword prefers --password and otherwise reads one line from stdin
// when --password-stdin is set.
func resolvePassword(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	if password != "" && fromStdin {
		return "", errors.New("password and password-stdin are mutually exclusive")
	}
	if !fromStdin {
		return password, nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", errs.Wrap(err, "read password from stdin")
		}
		return "", nil
	}
	return strings.TrimRight(scanner.Text(), "\r\n"), nil
}

func userFields(profile user.User) table {
	return fields(
		"id", itoa(profile.ID),
		"email", profile.Email,
		"username", profile.Username,
		"full_name", profile.DisplayName(),
		"roles", strings.Join(profile.RoleNames(), ","),
		"status", profile.ActiveLabel(),
	)
}

func boolText(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authWhoamiCmd, authStatusCmd)

	authLoginCmd.Flags().String("email", "", "Account email")
	authLoginCmd.Flags().String("password", "", "Account password")
	authLoginCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
	_ = authLoginCmd.MarkFlagRequired("email")
}
