package main

import (
	"errors"
	"fmt"
	"io"

	"nlpengine/internal/client"
	"nlpengine/internal/form"
	"nlpengine/internal/model"
	"nlpengine/internal/validation"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))

	statusStyles = map[string]lipgloss.Style{
		model.StatusActive:  okStyle,
		model.StatusExpired: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		model.StatusRevoked: errorStyle,
	}
)

var errKeyTestFailed = errors.New("api key test failed")

// maskKey shows the first 8 and last 4 characters of a secret.
func maskKey(key string) string {
	head := key[:min(8, len(key))]
	tail := key[max(len(key)-4, 0):]
	return head + "..." + tail
}

func lastUsed(k model.APIKey) string {
	if k.LastUsed == nil {
		return "Never"
	}
	return humanize.Time(*k.LastUsed)
}

func renderKeys(w io.Writer, keys []model.APIKey, showKeys bool) {
	if len(keys) == 0 {
		fmt.Fprintln(w, "No API keys found. Add your first API key to get started.")
		return
	}

	headers := []string{"NAME", "KEY", "DOMAIN", "SERVICE", "STATUS", "CREATED", "LAST USED"}
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		secret := maskKey(k.Key)
		if showKeys {
			secret = k.Key
		}
		rows = append(rows, []string{
			k.Name,
			secret,
			k.Domain,
			form.ServiceLabel(k.Service),
			k.Status,
			k.CreatedAt.Format("2006-01-02"),
			lastUsed(k),
		})
	}

	columns := make([]string, len(headers))
	for col, header := range headers {
		width := lipgloss.Width(header)
		for _, row := range rows {
			width = max(width, lipgloss.Width(row[col]))
		}
		lines := []string{headerStyle.Width(width + 2).Render(header)}
		for _, row := range rows {
			style := cellStyle
			if col == 4 {
				if s, ok := statusStyles[row[col]]; ok {
					style = s.PaddingRight(2)
				}
			}
			lines = append(lines, style.Width(width+2).Render(row[col]))
		}
		columns[col] = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, columns...))
}

func printValidation(w io.Writer, errs validation.Errors) {
	for _, f := range []string{"name", "key", "domain", "service", "permissions"} {
		if msg, ok := errs[f]; ok {
			fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("%s: %s", f, msg)))
		}
	}
}

type keyFlags struct {
	name, key, domain, service, status string
	permissions                        []string
}

func (f *keyFlags) register(cmd *cobra.Command, withStatus bool) {
	cmd.Flags().StringVar(&f.name, "name", "", "display name of the key")
	cmd.Flags().StringVar(&f.key, "key", "", "the secret itself")
	cmd.Flags().StringVar(&f.domain, "domain", "", "domain the key is used for")
	cmd.Flags().StringVar(&f.service, "service", form.DefaultService, "service the key belongs to")
	cmd.Flags().StringSliceVar(&f.permissions, "permission", []string{"read"}, "granted permissions, repeatable")
	if withStatus {
		cmd.Flags().StringVar(&f.status, "status", "", "one of active, expired, revoked")
	}
}

// apply replays the changed flags onto state the way the form would be edited.
func (f *keyFlags) apply(cmd *cobra.Command, state form.State) form.State {
	set := map[form.Field]string{
		form.FieldName:    f.name,
		form.FieldKey:     f.key,
		form.FieldDomain:  f.domain,
		form.FieldService: f.service,
	}
	for _, field := range form.Fields {
		if cmd.Flags().Changed(string(field)) {
			state = form.Reduce(state, form.SetField{Field: field, Value: set[field]})
		}
	}
	if cmd.Flags().Changed("permission") {
		for _, p := range state.Permissions {
			state = form.Reduce(state, form.TogglePermission{Permission: p})
		}
		for _, p := range f.permissions {
			state = form.Reduce(state, form.TogglePermission{Permission: p})
		}
	}
	return state
}

func newKeysCmd() *cobra.Command {
	var server string

	store := func() *client.KeyStore {
		return client.NewKeyStore(client.New(server), nil)
	}

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage third-party API keys on a running server",
	}
	cmd.PersistentFlags().StringVar(&server, "server", "http://localhost:8080", "base URL of the nlpengine server")

	var showKeys bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List stored API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := store().Refresh(cmd.Context())
			if err != nil {
				return err
			}
			renderKeys(cmd.OutOrStdout(), keys, showKeys)
			return nil
		},
	}
	list.Flags().BoolVar(&showKeys, "show-keys", false, "print secrets in full")

	var addFlags keyFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := addFlags.apply(cmd, form.Initial())
			if errs := state.Validate(); errs != nil {
				printValidation(cmd.ErrOrStderr(), errs)
				return errs
			}
			key, err := store().Add(cmd.Context(), state.Request())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key %q has been added successfully (%s)\n", key.Name, key.ID)
			return nil
		},
	}
	addFlags.register(add, false)

	var updateFlags keyFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store()
			keys, err := s.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			var current *model.APIKey
			for i := range keys {
				if keys[i].ID == args[0] {
					current = &keys[i]
					break
				}
			}
			if current == nil {
				return &client.APIError{StatusCode: 404, Message: "API key not found"}
			}

			state := updateFlags.apply(cmd, form.Reduce(form.Initial(), form.Load{Key: *current}))
			if errs := state.Validate(); errs != nil {
				printValidation(cmd.ErrOrStderr(), errs)
				return errs
			}
			req := state.Request()
			req.Status = updateFlags.status
			key, err := s.Update(cmd.Context(), current.ID, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key %q has been updated successfully\n", key.Name)
			return nil
		},
	}
	updateFlags.register(update, true)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key has been deleted successfully")
			return nil
		},
	}

	test := &cobra.Command{
		Use:   "test <id>",
		Short: "Check that an API key is usable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := store().Test(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !result.Success {
				fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("✗ "+result.Message))
				return errKeyTestFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("✓ "+result.Message))
			return nil
		},
	}

	cmd.AddCommand(list, add, update, del, test)
	return cmd
}
