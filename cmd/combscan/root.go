package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-comb/configs"
)

const envPrefix = "COMBSCAN"

var (
	configFile   string
	logLevel     string
	logFormat    string
	outputFormat string
)

// flagKeys maps flag names to configuration keys where they differ from
// the flag name.
var flagKeys = map[string]string{}

var rootCmd = &cobra.Command{
	Use:   "combscan",
	Short: "Frequency-comb quality analyzer",
	Long: `combscan analyzes the steady-state spectrum of a transient waveform,
locates the teeth of a harmonic comb and reports per-tooth amplitude and
SNR together with flatness and spacing error of the comb.

Waveforms are columnar text files (time followed by probe voltages), read
from local paths or s3:// URIs and optionally gzip, zstd or lz4 compressed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, viper.GetViper())
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is ./combscan.yaml or $HOME/.config/combscan/combscan.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console",
		"log encoding (console, json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (table, json, yaml, parquet)")

	bindKey("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindKey("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	bindKey("output_format", rootCmd.PersistentFlags().Lookup("output"))
}

// bindKey binds f to a configuration key and records the mapping for env
// binding.
func bindKey(key string, f *pflag.Flag) {
	flagKeys[f.Name] = key
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "combscan"))
		}
		viper.AddConfigPath("/etc/combscan")
		viper.SetConfigName("combscan")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configs.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

// bindFlags binds each flag of cmd to its configuration key and to the
// environment variable COMBSCAN_<FLAG_NAME>.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}

		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), envPrefix+"_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}
