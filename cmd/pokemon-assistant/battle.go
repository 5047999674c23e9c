package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newBattleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "battle <pokemon1> <pokemon2>",
		Short: "Predict the winner of a battle between two Pokemon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, flush, err := opts.load()
			if err != nil {
				return err
			}
			defer flush()

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			verdict, err := a.predictor.Predict(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{"result": verdict})
		},
	}
}
