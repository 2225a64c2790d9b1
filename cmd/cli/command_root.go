package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/khardix/urldispatch/pkg/lib"
	"github.com/khardix/urldispatch/pkg/lib/dispatch"
)

func NewRootCmd() *cobra.Command {
	var (
		env     []string
		dir     string
		verbose bool
	)

	root := &cobra.Command{
		Use:           "urldispatch [flags] -- <command> [args...]",
		Short:         "Launch a command detached and report whether the launch succeeded",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("command to dispatch is required; use -- to separate CLI flags from the command")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				dispatch.SetLogOutput(cmd.ErrOrStderr())
			}
			return dispatch.Dispatch(lib.Command{
				Path: args[0],
				Args: args[1:],
				Env:  env,
				Dir:  dir,
			})
		},
	}

	root.Flags().StringArrayVar(&env, "env", nil, "extra KEY=VALUE entry for the dispatched program (repeatable)")
	root.Flags().StringVar(&dir, "dir", "", "working directory for the dispatched program")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log dispatch progress to stderr")

	return root
}
