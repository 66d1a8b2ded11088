package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/atelier/storefront/internal/core/ports"
	"github.com/atelier/storefront/internal/core/service"
	"github.com/atelier/storefront/internal/infrastructure/queue"
	"github.com/atelier/storefront/pkg/logger"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.ensureIndexes(cmd.Context()); err != nil {
			return err
		}

		user, err := service.NewAuthService(a.users, logger.Component("service")).
			CreateAdmin(cmd.Context(), name, email, password)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

var normalizeRolesCmd = &cobra.Command{
	Use:   "normalize-roles",
	Short: "Collapse imported multi-role accounts into a single role",
	Long: "Finds accounts that still carry a legacy role list and writes a single role.\n" +
		"A list holding exactly one known role keeps it; anything else is demoted to customer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		dispatcher := queue.NewDispatcher(1, a.events, logger.Component("audit"))
		dispatcher.Start(cmd.Context())
		defer dispatcher.Close()

		repairs, err := service.NewUserService(a.users, dispatcher, logger.Component("service")).
			NormalizeRoles(cmd.Context())
		writeRepairs(cmd.OutOrStdout(), repairs)
		return err
	},
}

func init() {
	createAdminCmd.Flags().String("name", "", "Display name")
	createAdminCmd.Flags().String("email", "", "Login email")
	createAdminCmd.Flags().String("password", "", "Password (at least 8 characters)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	_ = createAdminCmd.MarkFlagRequired("name")

	usersCmd.AddCommand(createAdminCmd, normalizeRolesCmd)
	rootCmd.AddCommand(usersCmd)
}

// writeRepairs prints one row per repaired account.
func writeRepairs(out io.Writer, repairs []ports.RoleRepair) {
	if len(repairs) == 0 {
		fmt.Fprintln(out, "no legacy role assignments found")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USER\tEMAIL\tBEFORE\tAFTER\tDEMOTED")
	for _, r := range repairs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", r.UserID, r.Email, strings.Join(r.Before, ","), r.After, r.Demoted)
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "%d account(s) repaired\n", len(repairs))
}
