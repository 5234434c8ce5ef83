package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/core/state"
	"github.com/kilianp07/fleetsim/core/stats"
	_ "github.com/kilianp07/fleetsim/infra/statestore"
	"github.com/kilianp07/fleetsim/pkg/export"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the persisted simulation state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted state as JSON",
	RunE:  runStateShow,
}

var stateStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the summary of the persisted state",
	RunE:  runStateStats,
}

func init() {
	stateCmd.AddCommand(stateShowCmd, stateStatsCmd)
	rootCmd.AddCommand(stateCmd)
}

func loadPersisted(cmd *cobra.Command) (model.StateView, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return model.StateView{}, err
	}
	store, err := state.New(cfg.State)
	if err != nil {
		return model.StateView{}, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error while closing state store: %v\n", err)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := store.Load(ctx)
	if errors.Is(err, state.ErrNotFound) {
		return model.StateView{}, fmt.Errorf("no persisted state in %q store", cfg.State.Type)
	}
	return v, err
}

func runStateShow(cmd *cobra.Command, args []string) error {
	v, err := loadPersisted(cmd)
	if err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), v)
}

func runStateStats(cmd *cobra.Command, args []string) error {
	v, err := loadPersisted(cmd)
	if err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), stats.Summarize(v))
}
