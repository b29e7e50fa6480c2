package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cybercaution/cybercaution/internal/catalog"
	jsonrepo "github.com/cybercaution/cybercaution/internal/persistence/json"
)

var cfgFile string
var logger *zap.SugaredLogger
var operator string
var dataDir string

// AppContext bundles the dependencies every command needs.
type AppContext struct {
	Logger    *zap.SugaredLogger
	Operator  string
	DataDir   string
	Registry  *catalog.Registry
	Snapshots *jsonrepo.SnapshotRepository
}

var appContext *AppContext

// getAppContext returns the context built in PersistentPreRunE. Commands
// always run after it, so a nil context is a wiring bug.
func getAppContext() *AppContext {
	if appContext == nil {
		panic("app context not initialized")
	}
	return appContext
}

var rootCmd = &cobra.Command{
	Use:   "cybercaution",
	Short: "Security readiness assessments with section-by-section scoring",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".cybercaution")
			viper.SetConfigType("yaml")
		}

		_ = viper.ReadInConfig()
		dataDir = viper.GetString("data_dir")
		if dataDir == "" {
			var err error
			dataDir, err = getDataDir()
			if err != nil {
				return err
			}
		}

		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %s", err.Error())
		}

		// init logger
		l, _ := zap.NewProduction()
		logger = l.Sugar()

		// ensure operator is set (via flag or env default)
		if operator == "" {
			if env := os.Getenv("USER"); env != "" {
				operator = env
			} else if env := os.Getenv("LOGNAME"); env != "" {
				operator = env
			}
		}
		if operator == "" {
			return fmt.Errorf("operator identity is required (use --operator or set USER env)")
		}

		// Make final dataDir absolute (for clarity in logs)
		if abs, err := filepath.Abs(dataDir); err == nil {
			dataDir = abs
		}

		registry := catalog.NewRegistry()
		if extraDir := viper.GetString("catalog_dir"); extraDir != "" {
			if loaded := registry.LoadDir(extraDir, logger); loaded > 0 {
				logger.Infow("loaded custom catalogs", "dir", extraDir, "count", loaded)
			}
		}

		snapshotDir, err := getSnapshotsDir(dataDir)
		if err != nil {
			return err
		}
		snapshots, err := jsonrepo.NewSnapshotRepository(snapshotDir, logger)
		if err != nil {
			return err
		}

		appContext = &AppContext{
			Logger:    logger,
			Operator:  operator,
			DataDir:   dataDir,
			Registry:  registry,
			Snapshots: snapshots,
		}

		logger.Infof("operator=%s data_dir=%s", operator, dataDir)

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cybercaution.yaml)")

	// operator persistent flag (default from USER env)
	defaultOperator := os.Getenv("USER")

	rootCmd.PersistentFlags().StringVarP(&operator, "operator", "o", defaultOperator, "operator name (or set via USER env)")

	// flags double as config keys
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	// add subcommands
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(versionCmd)
}
