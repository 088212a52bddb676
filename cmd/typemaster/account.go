package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typemaster/internal/progress"
)

var registerEmail string

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE:  runRegisterCmd,
	}
	cmd.Flags().StringVar(&registerEmail, "email", "", "email address")
	return cmd
}

func runRegisterCmd(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
	if err != nil {
		return err
	}
	user, err := env.accounts.Register(cmd.Context(), args[0], registerEmail, password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", user.Username)
	return err
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Log in",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoginCmd,
	}
}

func runLoginCmd(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
	if err != nil {
		return err
	}
	user, err := env.accounts.Login(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (level %d, %d XP)\n", user.Username, user.Level, user.XP)
	return err
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			if err := env.accounts.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE:  runWhoamiCmd,
	}
}

func runWhoamiCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	user, err := env.accounts.Current(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if user == nil {
		_, err = fmt.Fprintln(out, "Not logged in (guest)")
		return err
	}
	p := progress.LevelProgress(user.XP)
	_, err = fmt.Fprintf(out, "%s <%s>\nLevel %d  %d XP (%d%% to next)\nTests %d  Best %d WPM\n",
		user.Username, user.Email, p.Level, user.XP, p.Percent, user.TotalTests, user.BestWPM)
	return err
}

// readPassword reads a password without echo when in is a terminal.
func readPassword(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if _, err := fmt.Fprint(prompt, label); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}
		raw, err := term.ReadPassword(int(f.Fd()))
		if _, perr := fmt.Fprintln(prompt); perr != nil {
			_ = perr
		}
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
