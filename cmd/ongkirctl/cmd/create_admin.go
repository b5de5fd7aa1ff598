package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GTDGit/gtd_ongkir/internal/app"
	"github.com/GTDGit/gtd_ongkir/internal/repository"
	"github.com/GTDGit/gtd_ongkir/internal/service"
)

var (
	adminEmail string
	adminName  string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create or reset an operator account",
	Long: `Creates an operator for the /v1/admin endpoints, or resets the password
of an existing one. The password is read from stdin.`,
	Args: cobra.NoArgs,
	RunE: runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "operator email")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
	_ = createAdminCmd.MarkFlagRequired("email")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	password, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && password == "" {
		return fmt.Errorf("read password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	ctx := cmd.Context()
	engine, _, err := loadEngine(ctx, app.Options{SkipWardTable: true})
	if err != nil {
		return err
	}
	defer engine.Close()

	name := adminName
	if name == "" {
		name, _, _ = strings.Cut(adminEmail, "@")
	}

	auth := service.NewAdminAuthService(repository.NewAdminUserRepository(engine.DB))
	if err := auth.CreateAdmin(ctx, adminEmail, password, name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Operator %s saved\n", adminEmail)
	return nil
}
