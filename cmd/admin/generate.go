package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/passvault/pkg/generator"
)

func newGenerateCmd() *cobra.Command {
	p := generator.DefaultPolicy()
	var count int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print random passwords with their strength",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := p.Validate(); err != nil {
				return err
			}
			if count < 1 {
				count = 1
			}
			for i := 0; i < count; i++ {
				pw, err := generator.Generate(p)
				if err != nil {
					return err
				}
				s := generator.ClassifyStrength(pw)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s (%d/%d)\n", pw, s.Label, s.Score, generator.MaxScore)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&p.Length, "length", "l", p.Length, "password length")
	f.BoolVar(&p.Uppercase, "upper", p.Uppercase, "include A-Z")
	f.BoolVar(&p.Lowercase, "lower", p.Lowercase, "include a-z")
	f.BoolVar(&p.Digits, "digits", p.Digits, "include 0-9")
	f.BoolVar(&p.Symbols, "symbols", p.Symbols, "include symbols")
	f.BoolVar(&p.ExcludeSimilar, "exclude-similar", p.ExcludeSimilar, "drop look-alike characters (il1Lo0O)")
	f.IntVarP(&count, "count", "n", 1, "how many passwords to print")
	return cmd
}
