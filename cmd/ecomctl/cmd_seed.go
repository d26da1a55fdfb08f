package main

import (
	"errors"
	"fmt"

	"vdg_commerce/internal/api/initsvc"

	"github.com/spf13/cobra"
)

var (
	seedFile      string
	seedSkipAdmin bool
)

// seedCmd tạo super admin và ghi dữ liệu mặc định còn thiếu
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the super admin and write missing default settings, taxes and shippings",
	Long: `Seed default data.

The super admin comes from ADMIN_EMAIL / ADMIN_PASSWORD. The seed file
(--file, default SEED_SETTINGS_FILE) is YAML with key, options, taxes and
shippings. Existing data is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed YAML file (default SEED_SETTINGS_FILE)")
	seedCmd.Flags().BoolVar(&seedSkipAdmin, "skip-admin", false, "do not create or promote the super admin")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	s, err := connect(cmd)
	if err != nil {
		return err
	}
	defer s.cancel()

	svc, err := initsvc.NewInitService()
	if err != nil {
		return err
	}

	var errs []error
	if !seedSkipAdmin {
		changed, err := svc.EnsureSuperAdmin(s.ctx, s.cfg.AdminEmail, s.cfg.AdminPassword)
		if err != nil {
			errs = append(errs, fmt.Errorf("super admin: %w", err))
		} else {
			cmd.Printf("super admin: changed=%t\n", changed)
		}
	}

	path := seedFile
	if path == "" {
		path = s.cfg.SeedSettingsFile
	}
	if path == "" {
		cmd.Println("no seed file, skipped")
		return errors.Join(errs...)
	}
	res, err := svc.SeedDefaults(s.ctx, path)
	if err != nil {
		errs = append(errs, fmt.Errorf("seed %s: %w", path, err))
	} else {
		cmd.Printf("settings: %t, taxes: %d, shippings: %d\n", res.Settings, res.Taxes, res.Shippings)
	}
	return errors.Join(errs...)
}
