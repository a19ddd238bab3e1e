package main

import (
	"github.com/spf13/cobra"

	"github.com/docslice/carve/internal/profile"
)

var validateProfile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a profile and print its canonical form",
	Long: `Validate a segmentation profile without touching any document.

Shorthand detect forms are expanded, defaults merged, and the fully
normalized profile printed. Fatal problems (unknown modes, bad
patterns, cyclic inside references) are reported as errors; lenient
fix-ups such as an unknown on_pages value appear as warnings.

Examples:
  carve validate -p invoice.yaml
  carve validate -p invoice.yaml -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveProfilePath(validateProfile)
		if err != nil {
			return err
		}
		prof, warnings, err := profile.Load(path, logger)
		if err != nil {
			return err
		}

		p, err := printer(cmd)
		if err != nil {
			return err
		}

		out := struct {
			Profile  *profile.Profile  `yaml:"profile" json:"profile"`
			Warnings []profile.Warning `yaml:"warnings,omitempty" json:"warnings,omitempty"`
		}{prof, warnings}
		return p.Print(out)
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateProfile, "profile", "p", "", "segmentation profile (yaml path or saved profile name)")
	_ = validateCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(validateCmd)
}
