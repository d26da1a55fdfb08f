package main

import (
	"vdg_commerce/internal/api/initsvc"

	"github.com/spf13/cobra"
)

// backfillCmd gán id số tăng dần và uuid cho category cũ chưa có
var backfillCmd = &cobra.Command{
	Use:   "backfill-category-ids",
	Short: "Assign numeric id and uuid to categories missing them",
	Args:  cobra.NoArgs,
	RunE:  runBackfill,
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	s, err := connect(cmd)
	if err != nil {
		return err
	}
	defer s.cancel()

	svc, err := initsvc.NewInitService()
	if err != nil {
		return err
	}
	n, err := svc.BackfillCategoryIDs(s.ctx)
	if err != nil {
		return err
	}
	cmd.Printf("categories updated: %d\n", n)
	return nil
}
