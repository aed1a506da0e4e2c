// go.colorcore.dev/cms - a numerical core for ICC-style color management
// Copyright (C) 2026  The colorcore Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command colorcore drives the color pipeline core from the shell:
// evaluating a single parametric curve, sampling a demo per-channel
// gamma pipeline at a named color, and inverting a pipeline by
// Newton-Raphson search.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/image/colornames"

	"go.colorcore.dev/cms"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "colorcore",
		Short: "Inspect the color pipeline core from the command line",
	}
	root.AddCommand(newCurveCmd(), newSampleCmd(), newInvertCmd())
	return root
}

func newCurveCmd() *cobra.Command {
	var typ int
	var params string
	var x float64
	var inverse bool

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Evaluate a registered parametric curve type at a point",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := cms.NewContext()
			pp, err := parseFloats(params)
			if err != nil {
				return err
			}
			signed := typ
			if inverse {
				signed = -typ
			}
			c := cms.NewParametricCurve(ctx, signed, pp)
			fmt.Printf("%.6f\n", c.Eval(x))
			return nil
		},
	}
	cmd.Flags().IntVar(&typ, "type", 1, "parametric curve type (1-8, 108, 109)")
	cmd.Flags().StringVar(&params, "params", "2.2", "comma-separated curve parameters")
	cmd.Flags().Float64Var(&x, "x", 0.5, "input value in [0, 1]")
	cmd.Flags().BoolVar(&inverse, "inverse", false, "evaluate the analytic inverse")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var colorName string
	var gamma float64

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Push a named CSS color through a demo gamma CurveSet pipeline",
		RunE: func(_ *cobra.Command, _ []string) error {
			rgba, ok := colornames.Map[strings.ToLower(colorName)]
			if !ok {
				names := maps.Keys(colornames.Map)
				sort.Strings(names)
				return fmt.Errorf("unknown color %q; known names include %s, ...", colorName, strings.Join(names[:10], ", "))
			}

			ctx := cms.NewContext()
			p := cms.NewPipeline(ctx, 3, 3)
			curves := []*cms.Curve{
				cms.NewGammaCurve(ctx, gamma),
				cms.NewGammaCurve(ctx, gamma),
				cms.NewGammaCurve(ctx, gamma),
			}
			if err := p.Push(cms.NewCurveSetStage(ctx, curves)); err != nil {
				return err
			}

			in := []float32{
				float32(rgba.R) / 255,
				float32(rgba.G) / 255,
				float32(rgba.B) / 255,
			}
			out, err := p.EvalF32(in)
			if err != nil {
				return err
			}
			fmt.Printf("%s: linear(%.6f, %.6f, %.6f)\n", colorName, out[0], out[1], out[2])
			return nil
		},
	}
	cmd.Flags().StringVar(&colorName, "color", "cornflowerblue", "CSS color name")
	cmd.Flags().Float64Var(&gamma, "gamma", 2.2, "gamma applied per channel")
	return cmd
}

func newInvertCmd() *cobra.Command {
	var targetStr string
	var gamma float64

	cmd := &cobra.Command{
		Use:   "invert",
		Short: "Invert a demo gamma pipeline at a target value by Newton-Raphson search",
		RunE: func(_ *cobra.Command, _ []string) error {
			target, err := parseFloats(targetStr)
			if err != nil {
				return err
			}
			if len(target) != 3 {
				return fmt.Errorf("--target needs exactly 3 comma-separated values, got %d", len(target))
			}

			ctx := cms.NewContext()
			p := cms.NewPipeline(ctx, 3, 3)
			curves := []*cms.Curve{
				cms.NewGammaCurve(ctx, gamma),
				cms.NewGammaCurve(ctx, gamma),
				cms.NewGammaCurve(ctx, gamma),
			}
			if err := p.Push(cms.NewCurveSetStage(ctx, curves)); err != nil {
				return err
			}

			t32 := []float32{float32(target[0]), float32(target[1]), float32(target[2])}
			out, err := p.EvalReverseF32(t32, nil)
			if err != nil {
				return err
			}
			fmt.Printf("input(%.6f, %.6f, %.6f)\n", out[0], out[1], out[2])
			return nil
		},
	}
	cmd.Flags().StringVar(&targetStr, "target", "0.5,0.5,0.5", "comma-separated target output in [0,1]")
	cmd.Flags().Float64Var(&gamma, "gamma", 2.2, "gamma applied per channel")
	return cmd
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
