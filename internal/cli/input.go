package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// interactive reports whether in is a terminal, in which case the REPL
// prints a prompt before each read.
func interactive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid id", common.ErrValidation, s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseAmount accepts any finite number; range checks belong to the services.
func parseAmount(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", common.ErrValidation, s)
	}
	return f, nil
}

// buildVector makes a nutrient vector from either a full positional list in
// storage order or nothing, then applies name=value overrides such as
// "Energy=270". Names match nutrients.Fields columns, ignoring case.
func buildVector(values, sets []string) (nutrients.Vector, error) {
	var v nutrients.Vector
	if len(values) > 0 {
		var err error
		if v, err = nutrients.ParseFields(values); err != nil {
			return nutrients.Vector{}, err
		}
	}

	ptrs := v.Pointers()
	for _, kv := range sets {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nutrients.Vector{}, fmt.Errorf("%w: %q is not name=value", common.ErrValidation, kv)
		}
		idx := fieldIndex(name)
		if idx < 0 {
			return nutrients.Vector{}, fmt.Errorf("%w: unknown nutrient %q", common.ErrValidation, name)
		}
		f, err := parseAmount(raw)
		if err != nil {
			return nutrients.Vector{}, err
		}
		*ptrs[idx] = f
	}
	return v, nil
}

func fieldIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, f := range nutrients.Fields {
		if strings.EqualFold(f.Column, name) {
			return i
		}
	}
	return -1
}
