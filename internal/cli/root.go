// Package cli — офлайн-калькулятор наград: те же расчёты, что в боте,
// без Telegram и PostgreSQL.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"serotonyl.ru/reach-rewards-bot/internal/config"
	"serotonyl.ru/reach-rewards-bot/internal/features/rewards"
)

type options struct {
	tiersFile   string
	defaultRate string
	verbose     bool
}

// NewRootCmd собирает команду rewardcalc со всеми подкомандами.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "rewardcalc",
		Short:         "Калькулятор наград за охват рилсов",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.tiersFile, "tiers-file", "", "YAML с таблицей тиров (по умолчанию встроенная)")
	root.PersistentFlags().StringVar(&opts.defaultRate, "default-rate", "0.01", "ставка, если тир не найден")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "подробный лог")

	root.AddCommand(calcCmd(opts))
	root.AddCommand(tierCmd(opts))
	root.AddCommand(tiersCmd(opts))
	return root
}

func calcCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "calc <охват> [ставка]",
		Short: "Примерная награда: охват × ставка",
		Example: `  rewardcalc calc 50000 0.01
  rewardcalc calc "50 000"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			rate := ""
			if len(args) > 1 {
				rate = args[1]
			}
			est, err := svc.Estimate(cmd.Context(), 0, args[0], rate)
			if err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), rewards.FormatEstimate(est))
		},
	}
}

func tierCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tier <охват>",
		Short: "В какой тир попадает охват",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			row, err := svc.Classify(args[0])
			if err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), fmt.Sprintf("%s\t$%s/просмотр\tпример: %s",
				row.Tier.Label, row.Tier.RatePerView.String(), rewards.FormatAmount(row.Example)))
		},
	}
}

func tiersCmd(opts *options) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Таблица тиров с примером на 50K просмотров",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asYAML {
				data, err := rewards.MarshalTierYAML(table)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			var sb strings.Builder
			for _, t := range table.Tiers() {
				upper := "∞"
				if !t.IsUnbounded() {
					upper = fmt.Sprint(t.MaxReach)
				}
				sb.WriteString(fmt.Sprintf("%d. %s\t%d–%s\t$%s/просмотр\t50K = $%s\n",
					t.DisplayRank, t.Label, t.MinReach, upper,
					t.RatePerView.String(), rewards.FormatAmount(rewards.SuggestedExample(t))))
			}
			_, err = io.WriteString(out, sb.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "вывести в формате файла тиров")
	return cmd
}

func (o *options) table() (*rewards.TierTable, error) {
	if o.tiersFile == "" {
		return rewards.DefaultTiers(), nil
	}
	return rewards.LoadTierFile(o.tiersFile)
}

func (o *options) service() (*rewards.Service, error) {
	table, err := o.table()
	if err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(o.defaultRate)
	if err != nil || !rate.IsPositive() {
		return nil, fmt.Errorf("--default-rate: нужна положительная ставка, получено %q", o.defaultRate)
	}
	// История в CLI не ведётся: FeatureHistoryEnabled = false.
	return rewards.NewService(table, nil, nil, &config.Config{RewardDefaultRate: rate}), nil
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
