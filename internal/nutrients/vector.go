// Package nutrients implements the Nutrition-Information-Panel vector stored
// with every food, eaten record and recipe line.
//
// A Vector holds energy plus 22 nutrient quantities. For a food the values are
// per 100 g (or per 100 mL for liquids); for eaten records and recipe lines
// they are already scaled to the consumed amount. The package is pure
// arithmetic: it does not reject negative values.
package nutrients

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/common"
)

// Vector is the fixed set of nutrient fields. The field order matches Fields.
type Vector struct {
	Energy             float64 // kJ
	Protein            float64 // g
	FatTotal           float64 // g
	SaturatedFat       float64 // g
	TransFat           float64 // g
	PolyunsaturatedFat float64 // g
	MonounsaturatedFat float64 // g
	Carbohydrate       float64 // g
	Sugars             float64 // g
	DietaryFibre       float64 // g
	Sodium             float64 // mg
	Calcium            float64 // mg
	Potassium          float64 // mg
	ThiaminB1          float64 // mg
	RiboflavinB2       float64 // mg
	NiacinB3           float64 // mg
	Folate             float64 // µg
	Iron               float64 // mg
	Magnesium          float64 // mg
	VitaminC           float64 // mg
	Caffeine           float64 // mg
	Cholesterol        float64 // mg
	Alcohol            float64 // g
}

// Field describes one vector component: its column/JSON key and the label
// used in exports.
type Field struct {
	Column string
	Label  string
}

// Fields lists the vector components in storage order.
var Fields = []Field{
	{"Energy", "Energy (kJ):"},
	{"Protein", "Protein (g):"},
	{"FatTotal", "Fat, total (g):"},
	{"SaturatedFat", "Saturated fat (g):"},
	{"TransFat", "Trans fat (g):"},
	{"PolyunsaturatedFat", "Polyunsaturated fat (g):"},
	{"MonounsaturatedFat", "Monounsaturated fat (g):"},
	{"Carbohydrate", "Carbohydrate (g):"},
	{"Sugars", "Sugars (g):"},
	{"DietaryFibre", "Dietary fibre (g):"},
	{"SodiumNa", "Sodium (mg):"},
	{"CalciumCa", "Calcium (mg):"},
	{"PotassiumK", "Potassium (mg):"},
	{"ThiaminB1", "Thiamin B1 (mg):"},
	{"RiboflavinB2", "Riboflavin B2 (mg):"},
	{"NiacinB3", "Niacin B3 (mg):"},
	{"Folate", "Folate (µg):"},
	{"IronFe", "Iron (mg):"},
	{"MagnesiumMg", "Magnesium (mg):"},
	{"VitaminC", "Vitamin C (mg):"},
	{"Caffeine", "Caffeine (mg):"},
	{"Cholesterol", "Cholesterol (mg):"},
	{"Alcohol", "Alcohol (g):"},
}

// Count is the number of numeric components in a Vector.
var Count = len(Fields)

// Columns returns the SQL column names in storage order.
func Columns() []string {
	cols := make([]string, len(Fields))
	for i, f := range Fields {
		cols[i] = f.Column
	}
	return cols
}

// ColumnList returns Columns joined for use in a SELECT or INSERT list.
func ColumnList() string {
	return strings.Join(Columns(), ", ")
}

// Pointers returns pointers to every component in storage order, suitable for
// rows.Scan.
func (v *Vector) Pointers() []*float64 {
	return []*float64{
		&v.Energy, &v.Protein, &v.FatTotal, &v.SaturatedFat, &v.TransFat,
		&v.PolyunsaturatedFat, &v.MonounsaturatedFat, &v.Carbohydrate, &v.Sugars,
		&v.DietaryFibre, &v.Sodium, &v.Calcium, &v.Potassium, &v.ThiaminB1,
		&v.RiboflavinB2, &v.NiacinB3, &v.Folate, &v.Iron, &v.Magnesium,
		&v.VitaminC, &v.Caffeine, &v.Cholesterol, &v.Alcohol,
	}
}

// ScanTargets is Pointers typed for database/sql.
func (v *Vector) ScanTargets() []any {
	ps := v.Pointers()
	out := make([]any, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

// Values returns the components in storage order.
func (v Vector) Values() []float64 {
	ps := v.Pointers()
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = *p
	}
	return out
}

// Args is Values typed for query arguments.
func (v Vector) Args() []any {
	vals := v.Values()
	out := make([]any, len(vals))
	for i, x := range vals {
		out[i] = x
	}
	return out
}

// FromValues builds a Vector from values in storage order.
func FromValues(vals []float64) (Vector, error) {
	var v Vector
	ps := v.Pointers()
	if len(vals) != len(ps) {
		return Vector{}, fmt.Errorf("%w: expected %d nutrient values, got %d", common.ErrValidation, len(ps), len(vals))
	}
	for i, p := range ps {
		*p = vals[i]
	}
	return v, nil
}

// Round2 rounds half away from zero to two decimal places. Rounding applies
// to the binary value, so inputs such as 1.005 that are stored just below the
// halfway point round down.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Scale multiplies every component by factor and rounds the result to two
// decimal places.
func (v Vector) Scale(factor float64) Vector {
	out := v
	for _, p := range out.Pointers() {
		*p = Round2(*p * factor)
	}
	return out
}

// Add returns the component-wise sum of v and o without rounding.
func (v Vector) Add(o Vector) Vector {
	out := v
	op := o.Pointers()
	for i, p := range out.Pointers() {
		*p += *op[i]
	}
	return out
}

// Sum adds vectors pairwise. No intermediate rounding is applied; callers
// round when the result is persisted (usually through Scale).
func Sum(vs ...Vector) Vector {
	var total Vector
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}

// IsAllNumeric reports whether every raw field parses as a finite number.
func IsAllNumeric(raw []string) bool {
	for _, s := range raw {
		if _, ok := parseNumber(s); !ok {
			return false
		}
	}
	return true
}

// ParseFields converts raw text fields (in storage order) into a Vector.
func ParseFields(raw []string) (Vector, error) {
	if len(raw) != Count {
		return Vector{}, fmt.Errorf("%w: expected %d nutrient values, got %d", common.ErrValidation, Count, len(raw))
	}
	if !IsAllNumeric(raw) {
		return Vector{}, fmt.Errorf("%w: nutrient values must be numeric", common.ErrValidation)
	}
	vals := make([]float64, len(raw))
	for i, s := range raw {
		vals[i], _ = parseNumber(s)
	}
	return FromValues(vals)
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
