package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/tools/imports"

	"github.com/go-highway/fmath/hwy/contrib/algo"
	"github.com/go-highway/fmath/hwy/contrib/math"
)

// ConfigFile is the name of the generated defaults file.
const ConfigFile = "zz_fmath_config.go"

// GenConfig is the generation-time configuration of the default transforms.
type GenConfig struct {
	Unroll    int
	TableBits int
	Package   string
}

// MaxUnroll returns the largest unroll factor both kernels accept.
func MaxUnroll() (int, error) {
	exp, err := math.NewExpKernel()
	if err != nil {
		return 0, err
	}
	log, err := math.NewLogKernel()
	if err != nil {
		return 0, err
	}
	return min(exp.MaxUnroll(), log.MaxUnroll()), nil
}

// Validate checks the configuration against the kernels' limits.
func (c GenConfig) Validate() error {
	limit, err := MaxUnroll()
	if err != nil {
		return err
	}
	if c.Unroll < 1 || c.Unroll > limit {
		return fmt.Errorf("%w: %d not in [1, %d]", algo.ErrInvalidUnroll, c.Unroll, limit)
	}
	if _, err := math.NewLogTable(c.TableBits); err != nil {
		return err
	}
	if c.Package == "" {
		return fmt.Errorf("empty package name")
	}
	return nil
}

// Render returns the formatted source of the defaults file.
func (c GenConfig) Render() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by fmathgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", c.Package)
	fmt.Fprintf(&buf, "//go:generate go run ../../../cmd/fmathgen config --unroll %d --table-bits %d --output . --pkg %s\n\n",
		c.Unroll, c.TableBits, c.Package)
	fmt.Fprintf(&buf, "// DefaultUnroll is the number of vectors the steady-state loop of the\n")
	fmt.Fprintf(&buf, "// default transforms processes per iteration.\n")
	fmt.Fprintf(&buf, "const DefaultUnroll = %d\n\n", c.Unroll)
	fmt.Fprintf(&buf, "// DefaultLogTableBits is the number of mantissa bits indexing the log\n")
	fmt.Fprintf(&buf, "// tables of LogTransform.\n")
	fmt.Fprintf(&buf, "const DefaultLogTableBits = %d\n", c.TableBits)

	formatted, err := imports.Process(ConfigFile, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", ConfigFile, err)
	}
	return formatted, nil
}

// Write renders the defaults file into dir.
func (c GenConfig) Write(dir string) (string, error) {
	src, err := c.Render()
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, ConfigFile)
	if err := os.WriteFile(filename, src, 0644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return filename, nil
}

func newConfigCmd() *cobra.Command {
	var (
		cfg    GenConfig
		output string
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate the unroll factor and log table size and write " + ConfigFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, err := cfg.Write(output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (unroll %d, table bits %d)\n", filename, cfg.Unroll, cfg.TableBits)
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.Unroll, "unroll", 4, "Vectors per steady-state iteration")
	cmd.Flags().IntVar(&cfg.TableBits, "table-bits", math.DefaultTableBits, "Mantissa bits indexing the log tables")
	cmd.Flags().StringVar(&cfg.Package, "pkg", "algo", "Package name of the generated file")
	cmd.Flags().StringVar(&output, "output", ".", "Output directory")
	return cmd
}
