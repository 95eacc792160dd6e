/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jose-perigolo/bystruct"
	"github.com/jose-perigolo/bystruct/internal/codec"
)

// newTransformCommand creates the transform command
func newTransformCommand(a *app) *cobra.Command {
	var dataFile, specFile, extraFile string

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform data using a spec",
		Long: `Transform data using a spec. The spec is an example of the output:
backtick references such as ` + "`a.b`" + ` are replaced by source data, and
directives such as ` + "`$COPY`" + ` and ` + "`$EACH`" + ` build the output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := codec.DecodeFile(dataFile)
			if err != nil {
				return err
			}
			spec, err := codec.DecodeFile(specFile)
			if err != nil {
				return err
			}

			var extra any
			if extraFile != "" {
				if extra, err = codec.DecodeFile(extraFile); err != nil {
					return err
				}
			}

			return a.write(cmd.OutOrStdout(), bystruct.TransformModify(data, spec, extra, nil))
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "source data file (.json, .yaml)")
	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "transform spec file (.json, .yaml)")
	cmd.Flags().StringVar(&extraFile, "extra", "", "extra store data file")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

// newValidateCommand creates the validate command
func newValidateCommand(a *app) *cobra.Command {
	var dataFile, specFile string
	var collect bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate data against a shape",
		Long: `Validate data against a shape. Plain values in the shape are
defaults that also fix the type, and directives such as ` + "`$STRING`" + `
require a value of a kind. The validated data is written out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := codec.DecodeFile(dataFile)
			if err != nil {
				return err
			}
			spec, err := codec.DecodeFile(specFile)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("collect") {
				collect = a.cfg.Validate.Collect
			}

			if !collect {
				out, err := bystruct.Validate(data, spec)
				if err != nil {
					return err
				}
				return a.write(cmd.OutOrStdout(), out)
			}

			// Collect mode writes the output and then the messages.
			errs := bystruct.NewErrs()
			out, _ := bystruct.ValidateCollect(data, spec, nil, errs)
			if err := a.write(cmd.OutOrStdout(), out); err != nil {
				return err
			}

			if 0 < errs.Len() {
				zap.L().Debug("validation errors", zap.Int("count", errs.Len()))
				return &bystruct.ValidationError{Messages: errs.List()}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "data file (.json, .yaml)")
	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "shape file (.json, .yaml)")
	cmd.Flags().BoolVar(&collect, "collect", false, "write the output even if the data is invalid")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

// newGetPathCommand creates the getpath command
func newGetPathCommand(a *app) *cobra.Command {
	var storeFile string

	cmd := &cobra.Command{
		Use:   "getpath <path>",
		Short: "Get a value from a store by dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := codec.DecodeFile(storeFile)
			if err != nil {
				return err
			}

			out := bystruct.GetPath(args[0], store)
			if nil == out {
				return fmt.Errorf("path not found: %s", args[0])
			}
			return a.write(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&storeFile, "store", "", "store file (.json, .yaml)")
	_ = cmd.MarkFlagRequired("store")

	return cmd
}

// newMergeCommand creates the merge command
func newMergeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <file>...",
		Short: "Deep merge documents, later files have precedence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := make([]any, 0, len(args))
			for _, file := range args {
				doc, err := codec.DecodeFile(file)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}

			return a.write(cmd.OutOrStdout(), bystruct.Merge(docs))
		},
	}
}

// newInjectCommand creates the inject command
func newInjectCommand(a *app) *cobra.Command {
	var storeFile, specFile string

	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Replace backtick references in a document with store values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := codec.DecodeFile(storeFile)
			if err != nil {
				return err
			}
			spec, err := codec.DecodeFile(specFile)
			if err != nil {
				return err
			}

			return a.write(cmd.OutOrStdout(), bystruct.Inject(spec, store))
		},
	}

	cmd.Flags().StringVar(&storeFile, "store", "", "store file (.json, .yaml)")
	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "document with references (.json, .yaml)")
	_ = cmd.MarkFlagRequired("store")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

func (a *app) write(w io.Writer, val any) error {
	out, err := codec.Encode(val, a.cfg.Format(), a.cfg.Indent)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
