package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/photostudio/photostudio/internal/api"
	"github.com/photostudio/photostudio/internal/i18n"
)

type credentials struct {
	username string
	email    string
	password string
}

func newLoginCmd(root *rootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if err := prompt(in, cmd.ErrOrStderr(), "Username", &creds.username); err != nil {
				return err
			}
			if err := promptSecret(cmd.InOrStdin(), in, cmd.ErrOrStderr(), "Password", &creds.password); err != nil {
				return err
			}

			client, store, err := root.client()
			if err != nil {
				return err
			}
			printer := root.printer()

			token, err := client.Login(cmd.Context(), creds.username, creds.password)
			if err != nil {
				return errors.New(authError(printer, err, i18n.MsgLoginFailed))
			}
			if err := store.SetToken(token); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), printer.Sprintf(i18n.MsgLoginOK))
			return nil
		},
	}

	cmd.Flags().StringVarP(&creds.username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&creds.password, "password", "p", "", "Account password (prompted without echo when empty)")

	return cmd
}

func newRegisterCmd(root *rootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			for _, field := range []struct {
				label string
				value *string
			}{
				{"Username", &creds.username},
				{"Email", &creds.email},
			} {
				if err := prompt(in, cmd.ErrOrStderr(), field.label, field.value); err != nil {
					return err
				}
			}
			if err := promptSecret(cmd.InOrStdin(), in, cmd.ErrOrStderr(), "Password", &creds.password); err != nil {
				return err
			}

			client, store, err := root.client()
			if err != nil {
				return err
			}
			printer := root.printer()

			token, err := client.Register(cmd.Context(), creds.username, creds.email, creds.password)
			if err != nil {
				return errors.New(authError(printer, err, i18n.MsgRegisterFailed))
			}
			if err := store.SetToken(token); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), printer.Sprintf(i18n.MsgRegisterOK))
			return nil
		},
	}

	cmd.Flags().StringVarP(&creds.username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&creds.email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&creds.password, "password", "p", "", "Account password (prompted without echo when empty)")

	return cmd
}

func newLogoutCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.tokenStore()
			if err != nil {
				return err
			}
			return store.Clear()
		},
	}
}

// prompt reads a line into value unless it is already set
func prompt(in *bufio.Reader, out io.Writer, label string, value *string) error {
	if *value != "" {
		return nil
	}
	fmt.Fprintf(out, "%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	*value = strings.TrimSpace(line)
	if *value == "" {
		return fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return nil
}

// promptSecret reads value without echo when stdin is a terminal. Piped
// input goes through the line reader.
func promptSecret(stdin io.Reader, in *bufio.Reader, out io.Writer, label string, value *string) error {
	if *value != "" {
		return nil
	}
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return prompt(in, out, label, value)
	}

	fmt.Fprintf(out, "%s: ", label)
	secret, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	*value = strings.TrimSpace(string(secret))
	if *value == "" {
		return fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return nil
}

// authError prefers the server's detail, then the generic failure message
func authError(printer *i18n.Printer, err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return printer.Sprintf(fallback)
	}
	return printer.Sprintf(i18n.MsgConnectFailed)
}
