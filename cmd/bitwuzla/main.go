// Command bitwuzla exposes the solver library for command-line smoke use.
// It does not parse SMT-LIB input (the text front end is a separate
// collaborator); the selftest subcommand runs built-in checks and exits
// with the solver exit-code convention: 10 for sat, 20 for unsat, 0 for
// other success, nonzero for errors.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matthewsot/bitwuzla"
)

const (
	exitSat    = 10
	exitUnsat  = 20
	exitOK     = 0
	exitErr    = 1
)

var (
	flagVerbosity    uint64
	flagRewriteLevel uint64
	flagModels       bool
	flagSeed         uint64
)

func options() bitwuzla.Options {
	opts := bitwuzla.DefaultOptions()
	opts.Verbosity = flagVerbosity
	opts.RewriteLevel = flagRewriteLevel
	opts.ProduceModels = flagModels
	opts.Seed = flagSeed
	return opts
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bitwuzla",
		Short:         "SMT solver for bit-vectors, floating-point, arrays and uninterpreted functions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Uint64VarP(&flagVerbosity, "verbosity", "v", 0, "diagnostic output level (0-4)")
	root.PersistentFlags().Uint64Var(&flagRewriteLevel, "rewrite-level", 2, "rewriter intensity (0-2)")
	root.PersistentFlags().BoolVarP(&flagModels, "produce-models", "m", true, "retain model information after sat")
	root.PersistentFlags().Uint64VarP(&flagSeed, "seed", "s", 0, "seed for randomized subroutines")
	root.AddCommand(newSelftestCmd())
	return root
}

func newSelftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run a built-in satisfiability check and exit with the solver exit-code convention",
		RunE: func(cmd *cobra.Command, args []string) error {
			tm := bitwuzla.NewTermManager()
			sc, err := bitwuzla.NewSolvingContext(tm, options())
			if err != nil {
				return err
			}
			if flagVerbosity > 0 {
				logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
				sc.SetLogger(logger)
			}

			// Multiplication is associative over fixed-width bit-vectors.
			bv8 := tm.MkBVSort(8)
			s := tm.MkConst(bv8, "s")
			x := tm.MkConst(bv8, "x")
			t := tm.MkConst(bv8, "t")
			lhs := tm.MkBVMul(s, tm.MkBVMul(x, t))
			rhs := tm.MkBVMul(tm.MkBVMul(s, x), t)
			if err := sc.Assert(tm.MkNot(tm.MkEqual(lhs, rhs))); err != nil {
				return err
			}
			res, err := sc.CheckSat()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			switch res {
			case bitwuzla.Satisfiable:
				os.Exit(exitSat)
			case bitwuzla.Unsatisfiable:
				os.Exit(exitUnsat)
			}
			os.Exit(exitOK)
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitErr)
	}
}
