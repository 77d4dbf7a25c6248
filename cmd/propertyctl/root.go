package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/logging"
)

type rootOptions struct {
	dataDir  string
	logLevel string
	out      io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}

	root := &cobra.Command{
		Use:           "propertyctl",
		Short:         "Local wishlist and loan tools for PropertyBazaar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", defaultDataDir(), "directory holding the local wishlist")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newSavedCmd(opts), newEMICmd(opts), newPredictCmd(opts))
	return root
}

func (o *rootOptions) logger() *zap.Logger {
	logger, err := logging.New(o.logLevel)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".propertyctl"
	}
	return filepath.Join(dir, "propertyctl")
}

func printf(o *rootOptions, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(o.out, format, args...)
}
