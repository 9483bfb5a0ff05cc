package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/sitypes"
	"github.com/wippyai/sitypes/errors"
	"github.com/wippyai/sitypes/si"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		to        string
		toSI      bool
		best      bool
		preferred bool
	)
	cmd := &cobra.Command{
		Use:   "eval EXPR",
		Short: "Evaluate a quantity or a calculation A op B [-> UNIT]",
		Long: `Evaluate a quantity such as "9.81 m/s^2" or a calculation
"A op B [-> UNIT]" where op is one of + - * / ^ root, surrounded by spaces.
Arguments are joined with spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := evalLine(strings.Join(args, " "))
			if err != nil {
				return err
			}
			switch {
			case to != "":
				s, err = replace(s, func(s *si.Scalar) (*si.Scalar, error) { return s.ConvertToUnit(to) })
			case toSI:
				s, err = replace(s, (*si.Scalar).ToCoherentSI)
			case best:
				s, err = replace(s, (*si.Scalar).ToBestUnit)
			case preferred:
				s, err = replace(s, func(s *si.Scalar) (*si.Scalar, error) {
					return toPreferred(s, a.cfg.Units.Preferred)
				})
			}
			if err != nil {
				return err
			}
			defer s.Close()
			a.log.Debug("evaluated", zap.Stringer("result", s))
			return a.out.scalar(s)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "convert the result to `UNIT`")
	cmd.Flags().BoolVar(&toSI, "si", false, "express the result in coherent SI units")
	cmd.Flags().BoolVar(&best, "best", false, "choose the SI prefix that gives 1 <= |value| < 1000")
	cmd.Flags().BoolVar(&preferred, "preferred", false, "convert to the first compatible unit from units.preferred")
	cmd.MarkFlagsMutuallyExclusive("to", "si", "best", "preferred")
	return cmd
}

// replace applies fn to s and closes s.
func replace(s *si.Scalar, fn func(*si.Scalar) (*si.Scalar, error)) (*si.Scalar, error) {
	defer s.Close()
	return fn(s)
}

// toPreferred converts s to the first unit in preferred that is compatible
// with it. Without a match s is copied unchanged.
func toPreferred(s *si.Scalar, preferred []string) (*si.Scalar, error) {
	for _, expr := range preferred {
		u, err := si.ParseUnit(expr)
		if err != nil {
			return nil, err
		}
		if u.CompatibleWith(s.Unit()) {
			return s.ConvertTo(u)
		}
	}
	return s.Copy()
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert EXPR UNIT",
		Short: "Convert a quantity to another unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := evalLine(args[0] + " -> " + args[1])
			if err != nil {
				return err
			}
			defer s.Close()
			return a.out.scalar(s)
		},
	}
}

func newCalcCmd(a *app) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "calc A OP B",
		Short: "Apply + - * / ^ or root to two operands",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			if !operators[args[1]] {
				return errors.InvalidInput(errors.PhaseParse, "unknown operator "+strconv.Quote(args[1]))
			}
			s, err := line{left: args[0], op: args[1], right: args[2], target: to}.eval()
			if err != nil {
				return err
			}
			defer s.Close()
			return a.out.scalar(s)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "convert the result to `UNIT`")
	return cmd
}

func newUnitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unit EXPR",
		Short: "Describe a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			u, mult, err := si.ParseUnitWithMultiplier(args[0])
			if err != nil {
				if u, err = si.UnitNamed(args[0]); err != nil {
					return err
				}
				mult = 1
			}
			coherent, err := u.ToCoherentSI()
			if err != nil {
				return err
			}
			d := u.Dimensionality()
			defer d.Close()

			fs := []field{
				{"symbol", displaySymbol(u.Symbol())},
				{"name", u.Name()},
				{"plural", u.PluralName()},
				{"dimensionality", displaySymbol(d.Symbol())},
				{"coherent SI", displaySymbol(coherent.Symbol())},
				{"scale to SI", strconv.FormatFloat(u.ScaleToCoherentSI(), 'g', -1, 64)},
				{"kind", unitKind(u)},
			}
			if mult != 1 {
				fs = append(fs, field{"multiplier", strconv.FormatFloat(mult, 'g', -1, 64)})
			}
			return a.out.fields(fs)
		},
	}
}

func unitKind(u *si.Unit) string {
	switch {
	case u.IsDimensionless():
		return "dimensionless"
	case u.IsSIBase():
		return "SI base"
	case u.IsCoherentSI():
		return "coherent SI"
	case u.IsDerived():
		return "derived"
	}
	return "base"
}

func newDimCmd(a *app) *cobra.Command {
	var (
		quantity string
		list     bool
	)
	cmd := &cobra.Command{
		Use:   "dim [EXPR]",
		Short: "Describe a dimensionality",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if list {
				fs := make([]field, 0, len(si.Quantities()))
				for _, q := range si.Quantities() {
					d, err := si.DimensionalityForQuantity(q)
					if err != nil {
						return err
					}
					fs = append(fs, field{q, displaySymbol(d.Symbol())})
					d.Close()
				}
				return a.out.fields(fs)
			}

			var (
				d   *si.Dimensionality
				err error
			)
			switch {
			case quantity != "":
				d, err = si.DimensionalityForQuantity(quantity)
			case len(args) == 1:
				d, err = si.ParseDimensionality(args[0])
			default:
				return errors.InvalidInput(errors.PhaseParse, "dim needs EXPR or --quantity")
			}
			if err != nil {
				return err
			}
			defer d.Close()

			reduced, err := d.Reduced()
			if err != nil {
				return err
			}
			defer reduced.Close()

			fs := []field{
				{"symbol", displaySymbol(d.Symbol())},
				{"reduced", displaySymbol(reduced.Symbol())},
			}
			for _, b := range sitypes.Bases() {
				if e := d.Exponent(b); !e.IsZero() {
					fs = append(fs, field{b.String() + " (" + b.Symbol() + ")", e.String()})
				}
			}
			if u, err := si.CoherentUnitFor(d); err == nil {
				fs = append(fs, field{"coherent SI", displaySymbol(u.Symbol())})
			}
			fs = append(fs, field{"kind", dimKind(d)})
			return a.out.fields(fs)
		},
	}
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "", "look up the dimensionality of a named quantity such as force")
	cmd.Flags().BoolVar(&list, "list", false, "list the named quantities")
	return cmd
}

func dimKind(d *si.Dimensionality) string {
	switch {
	case d.IsDimensionless():
		return "dimensionless"
	case d.IsBase():
		return "base"
	}
	return "derived"
}

func displaySymbol(s string) string {
	if s == "" {
		return "1"
	}
	return s
}
