package main

import (
	"github.com/spf13/cobra"

	"pokemon-assistant/internal/common/config"
	"pokemon-assistant/internal/common/logger"
)

type options struct {
	cfgFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pokemon-assistant",
		Short: "Answers Pokemon questions and predicts battles",
		Long: `pokemon-assistant routes free-form Pokemon questions to the right
handler: direct answers, research, data lookups or battle predictions.

Configuration:
  configs/config.yaml, merged with configs/config.<APP_ENVIRONMENT>.yaml,
  or the file given with --config.

Environment Variables:
  LLM_API_KEY / OPENAI_API_KEY / GEMINI_API_KEY  - model credentials
  ZEEBE_ADDRESS                                  - Zeebe gateway for job workers`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newAskCmd(opts))
	root.AddCommand(newBattleCmd(opts))

	return root
}

func (o *options) load() (*config.Config, logger.Logger, func(), error) {
	var (
		cfg *config.Config
		err error
	)
	if o.cfgFile != "" {
		cfg, err = config.LoadFromFile(o.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, nil, err
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	flush := func() { _ = zapLog.Sync() }
	return cfg, logger.NewZapAdapter(zapLog), flush, nil
}
