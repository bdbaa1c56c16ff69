// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/google2013/NNPACK/pkg/support/xslices"
	"github.com/google2013/NNPACK/pkg/ukernel"
	"github.com/google2013/NNPACK/pkg/ukernel/gemmtest"
	"gonum.org/v1/gonum/stat"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	passStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("9"))
)

// Columns of the report table.
const (
	colKernel = iota
	colConvention
	colKc
	colShapes
	colWorstError
	colStatus
)

// summary of one check: its worst tile shape.
type summary struct {
	worst       gemmtest.Result
	numShapes   int
	numFailed   int
	numTrials   int
	worstIsNaN  bool
	hasNoShapes bool
}

func summarize(c *check) (s summary) {
	s.numShapes = len(c.results)
	if s.numShapes == 0 {
		s.hasNoShapes = true
		return
	}
	errs := xslices.Map(c.results, func(r gemmtest.Result) float32 { return r.MaxMedianError })
	maxErr, worstIdx := xslices.MaxNaN(errs)
	s.worst = c.results[worstIdx]
	s.worstIsNaN = math.IsNaN(float64(maxErr))
	for _, r := range c.results {
		s.numTrials += r.Iterations
		if !r.Passed {
			s.numFailed++
		}
	}
	return
}

// printReport writes a table with one row per check, followed by a one-line summary.
// It returns whether all checks passed.
func printReport(w io.Writer, checks []*check) (allPassed bool) {
	allPassed = true
	var rowPassed []bool
	table := lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers("Kernel", "Convention", "Kc", "Shapes", "Max Median Error", "Status").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			switch col {
			case colKc, colShapes, colWorstError:
				return numberStyle
			case colStatus:
				if row >= 0 && row < len(rowPassed) && !rowPassed[row] {
					return failStyle
				}
				return passStyle
			}
			return cellStyle
		})

	var totalTrials int
	var worstErrors []float64
	var numFailedChecks int
	for _, c := range checks {
		s := summarize(c)
		totalTrials += s.numTrials
		passed := s.numFailed == 0 && len(c.reporter.failures) == 0
		rowPassed = append(rowPassed, passed)
		if !passed {
			allPassed = false
			numFailedChecks++
		}

		worstError, status := "-", "ok"
		switch {
		case s.hasNoShapes:
			status = "no shapes"
		case s.worstIsNaN:
			worstError = fmt.Sprintf("NaN at (%d, %d)", s.worst.WorstRow, s.worst.WorstCol)
		default:
			worstError = fmt.Sprintf("%.3g", s.worst.MaxMedianError)
			worstErrors = append(worstErrors, float64(s.worst.MaxMedianError))
		}
		if !passed {
			status = fmt.Sprintf("FAILED %d/%d (worst %dx%d)", s.numFailed, s.numShapes,
				s.worst.TileRows, s.worst.TileCols)
		}
		table.Row(
			c.reg.Name,
			c.reg.Convention(),
			strconv.Itoa(c.config.Kc),
			strconv.Itoa(s.numShapes),
			worstError,
			status,
		)
	}
	_, _ = fmt.Fprintln(w, table.Render())

	meanError := "-"
	if len(worstErrors) > 0 {
		meanError = fmt.Sprintf("%.3g", stat.Mean(worstErrors, nil))
	}
	var seed int64
	if len(checks) > 0 {
		seed = checks[0].config.Seed
	}
	_, _ = fmt.Fprintf(w, "%d checks (%d failed), %s trials, mean max median error %s, host SIMD width %d, seed %d\n",
		len(checks), numFailedChecks, humanize.Comma(int64(totalTrials)), meanError, ukernel.DefaultSIMDWidth(), seed)
	return
}
