// pinpoint — psychological fair value engine for optionable US equities.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/traderank/pinpoint/api"
	"github.com/traderank/pinpoint/internal/analysis/fairvalue"
	"github.com/traderank/pinpoint/internal/config"
	"github.com/traderank/pinpoint/internal/datasource"
	"github.com/traderank/pinpoint/internal/engine"
	"github.com/traderank/pinpoint/internal/infra"
	"github.com/traderank/pinpoint/pkg/models"
	"github.com/traderank/pinpoint/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, loaded in PersistentPreRunE.
var (
	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pinpoint",
	Short: "pinpoint — psychological fair value for optionable stocks",
	Long: `pinpoint computes the price a stock is psychologically drawn toward:
options max pain, gamma walls, technical levels, and round-number
magnetism fused into one fair value with confidence and bias.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logger, err = infra.NewLogger(level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// newEngine builds the engine from the loaded configuration.
func newEngine() (*engine.Engine, error) {
	var src datasource.Source
	switch cfg.Data.Source {
	case "file", "":
		src = datasource.NewFileSource(cfg.Data.Dir, logger)
	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Data.Source)
	}
	if cfg.Data.RateLimit > 0 {
		src = datasource.NewRateLimitedSource(src, cfg.Data.RateLimit, cfg.Data.RateBurst)
	}
	return engine.New(cfg, src, logger), nil
}

// analyzeOptionsFromFlags reads the shared analysis flags.
func analyzeOptionsFromFlags(cmd *cobra.Command) (fairvalue.Options, error) {
	var opts fairvalue.Options

	if p, _ := cmd.Flags().GetString("profile"); p != "" {
		pt := models.ProfileType(p)
		if _, ok := map[models.ProfileType]bool{
			models.ProfileBlueChip: true, models.ProfileMemeRetail: true,
			models.ProfileETF: true, models.ProfileLowFloat: true,
			models.ProfileDefault: true,
		}[pt]; !ok {
			return opts, fmt.Errorf("unknown profile: %s", p)
		}
		opts.ProfileType = pt
	}
	maxDTE, _ := cmd.Flags().GetInt("max-dte")
	if maxDTE < 0 {
		return opts, fmt.Errorf("max-dte must be non-negative")
	}
	opts.MaxDTE = maxDTE
	opts.IncludeAllLevels, _ = cmd.Flags().GetBool("all-levels")
	return opts, nil
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().String("profile", "", "force a behavioral profile (BLUE_CHIP, MEME_RETAIL, ETF, LOW_FLOAT, DEFAULT)")
	cmd.Flags().Int("max-dte", 0, "max days to expiry considered (default from config)")
	cmd.Flags().Bool("all-levels", false, "include weak magnetic levels")
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pinpoint %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Compute the psychological fair value for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		opts, err := analyzeOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		pfv, err := eng.Analyze(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}

		printFairValue(pfv)
		return nil
	},
}

// --- Levels Command ---

var levelsCmd = &cobra.Command{
	Use:   "levels [ticker]",
	Short: "List ranked magnetic levels for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		opts, err := analyzeOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		pfv, err := eng.Analyze(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}

		fmt.Printf("%s  price %.2f  fair value %.2f\n\n", pfv.Ticker, pfv.CurrentPrice, pfv.FairValue)
		fmt.Printf("  %-9s %-13s %-9s %s\n", "PRICE", "TYPE", "STRENGTH", "DISTANCE")
		for _, m := range pfv.MagneticLevels {
			fmt.Printf("  %-9.2f %-13s %-9.2f %+.1f%%\n", m.Price, m.Type, m.Strength, m.DistancePct)
		}
		if pfv.SupportZone != nil {
			fmt.Printf("\n  Support zone:    %.2f - %.2f\n", pfv.SupportZone.Low, pfv.SupportZone.High)
		}
		if pfv.ResistanceZone != nil {
			fmt.Printf("  Resistance zone: %.2f - %.2f\n", pfv.ResistanceZone.Low, pfv.ResistanceZone.High)
		}

		spread := fairvalue.Spread(pfv)
		if len(spread.PutWalls) > 0 || len(spread.CallWalls) > 0 {
			fmt.Printf("\n  Spread strikes:  put walls %s / call walls %s\n",
				formatStrikes(spread.PutWalls), formatStrikes(spread.CallWalls))
		}
		return nil
	},
}

// --- Context Command ---

var contextCmd = &cobra.Command{
	Use:   "context [ticker]",
	Short: "Print the compact AI context block for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		opts, err := analyzeOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		pfv, err := eng.Analyze(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}

		fmt.Println(pfv.AIContext)
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		srv := api.NewServer(cfg, eng, logger)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  pinpoint — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus())
		fmt.Printf("  Time (ET):     %s\n", utils.NowEastern().Format(time.RFC1123))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Data Source:   %s (%s)\n", cfg.Data.Source, cfg.Data.Dir)
		fmt.Printf("    DTE Window:    [%d, %d]\n", cfg.Engine.MinDTE, cfg.Engine.MaxDTE)
		fmt.Printf("    Cache TTL:     %ds\n", cfg.Analysis.CacheTTL)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// printFairValue renders the analyze command's report.
func formatStrikes(strikes []float64) string {
	if len(strikes) == 0 {
		return "none"
	}
	parts := make([]string, len(strikes))
	for i, s := range strikes {
		parts[i] = fmt.Sprintf("%.2f", s)
	}
	return strings.Join(parts, ", ")
}

func printFairValue(pfv *models.PsychologicalFairValue) {
	fmt.Printf("═══ %s ═══\n", pfv.Ticker)
	fmt.Printf("  Current Price:  %.2f\n", pfv.CurrentPrice)
	fmt.Printf("  Fair Value:     %.2f (%+.1f%%)\n", pfv.FairValue, pfv.DeviationPct)
	fmt.Printf("  Bias:           %s\n", pfv.Bias)
	fmt.Printf("  Confidence:     %s (%.2f)\n", pfv.Confidence, pfv.ConfidenceScore)
	fmt.Printf("  Profile:        %s\n", pfv.Profile.Type)
	fmt.Printf("  Data:           %s\n", pfv.DataFreshness)
	fmt.Println()

	fmt.Println("  Components:")
	for _, c := range pfv.Components {
		fmt.Printf("    %-13s %9.2f  × %.2f  = %8.2f\n", c.Name, c.Value, c.Weight, c.Contribution)
	}

	if pfv.Primary != nil {
		p := pfv.Primary
		fmt.Printf("\n  Primary Expiry: %s (%dd, weight %.2f)\n", p.ExpiryDate.Format("2006-01-02"), p.DTE, p.Weight)
		fmt.Printf("    Max Pain:     %.2f (confidence %.2f)\n", p.MaxPain.Strike, p.MaxPain.Confidence)
		if p.GammaWalls.StrongestSupport != nil {
			fmt.Printf("    Put Wall:     %.2f\n", p.GammaWalls.StrongestSupport.Strike)
		}
		if p.GammaWalls.StrongestResistance != nil {
			fmt.Printf("    Call Wall:    %.2f\n", p.GammaWalls.StrongestResistance.Strike)
		}
	}

	fmt.Printf("\n  %s\n", pfv.Interpretation)
}

func init() {
	addAnalysisFlags(analyzeCmd)
	addAnalysisFlags(levelsCmd)
	addAnalysisFlags(contextCmd)
}
