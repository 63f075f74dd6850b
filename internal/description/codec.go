// Package description parses and produces the encoded food description.
//
// Food descriptions carry their kind and provenance as text markers:
//
//	"Milk mL"                      liquid, values per 100 mL
//	"Milk mL#"                     liquid, user-added
//	"Cheese #"                     solid, user-added
//	"Milk {density=1.03g/mL} #"    solid converted from a liquid
//	"Mix {recipe=250g}"            recipe, 250 g of ingredients
//
// The models store an explicit Kind next to the description; this grammar is
// kept so that existing data files classify the same way.
package description

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the derived classification of a food.
type Kind string

const (
	KindSolid  Kind = "solid"
	KindLiquid Kind = "liquid"
	KindRecipe Kind = "recipe"
)

// ParseKind converts a stored kind value. Unknown values are reported as
// invalid.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSolid, KindLiquid, KindRecipe:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown food kind %q", s)
	}
}

const (
	UnitGrams      = "g"
	UnitMillilitre = "mL"

	suffixLiquidUser = " mL#"
	suffixLiquid     = " mL"
	suffixUser       = " #"

	decorations = " #*"
)

var recipeMarker = regexp.MustCompile(`\{recipe=([^}]*)\}`)

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// IsLiquid reports whether desc ends with " mL" or " mL#" (case-insensitive).
func IsLiquid(desc string) bool {
	return hasSuffixFold(desc, suffixLiquid) || hasSuffixFold(desc, suffixLiquidUser)
}

// IsRecipe reports whether desc contains a {recipe=...} marker.
func IsRecipe(desc string) bool {
	return recipeMarker.MatchString(desc)
}

// KindOf classifies desc. Recipe is checked before Liquid.
func KindOf(desc string) Kind {
	switch {
	case IsRecipe(desc):
		return KindRecipe
	case IsLiquid(desc):
		return KindLiquid
	default:
		return KindSolid
	}
}

// Unit returns "mL" for liquids and "g" for everything else.
func Unit(desc string) string {
	return UnitOf(KindOf(desc))
}

// UnitOf returns the amount unit for k.
func UnitOf(k Kind) string {
	if k == KindLiquid {
		return UnitMillilitre
	}
	return UnitGrams
}

// IsUserAdded reports whether desc carries the trailing '#' of a row that was
// not part of the seed dataset.
func IsUserAdded(desc string) bool {
	return strings.HasSuffix(strings.TrimRight(desc, "*"), "#")
}

// DisplayName strips the liquid suffix, the recipe marker and any trailing
// '#'/'*' decoration.
func DisplayName(desc string) string {
	s := recipeMarker.ReplaceAllString(desc, "")
	s = strings.TrimRight(s, decorations)
	if hasSuffixFold(s, suffixLiquid) {
		s = s[:len(s)-len(suffixLiquid)]
	}
	return strings.TrimSpace(strings.TrimRight(s, decorations))
}

// StripRecipeMarker returns desc without its {recipe=...} marker and trailing
// '*'/'#' decoration, i.e. the bare recipe name.
func StripRecipeMarker(desc string) string {
	s := recipeMarker.ReplaceAllString(desc, "")
	return strings.TrimSpace(strings.TrimRight(s, decorations))
}

// ExtractSuffix splits off exactly one of " mL#", " mL" or " #", checked in
// that order. suffix is empty when none matches.
func ExtractSuffix(desc string) (base, suffix string) {
	for _, sfx := range []string{suffixLiquidUser, suffixLiquid, suffixUser} {
		if hasSuffixFold(desc, sfx) {
			n := len(desc) - len(sfx)
			return desc[:n], desc[n:]
		}
	}
	return desc, ""
}

// MarkerSuffix returns the decoration DisplayName removes, normalised so that
// DisplayName(desc)+MarkerSuffix(desc) has the same kind as desc.
func MarkerSuffix(desc string) string {
	switch KindOf(desc) {
	case KindRecipe:
		return " " + recipeMarker.FindString(desc)
	case KindLiquid:
		if IsUserAdded(desc) {
			return suffixLiquidUser
		}
		return suffixLiquid
	default:
		if IsUserAdded(desc) {
			return suffixUser
		}
		return ""
	}
}

// Rebase applies the kind markers of oldDesc to newName, so a rename keeps the
// row's kind.
func Rebase(newName, oldDesc string) string {
	name := strings.TrimSpace(newName)
	if IsRecipe(oldDesc) {
		return StripRecipeMarker(name) + " " + recipeMarker.FindString(oldDesc)
	}
	_, sfx := ExtractSuffix(oldDesc)
	if sfx == "" && strings.HasSuffix(oldDesc, "#") {
		sfx = "#"
	}
	return name + sfx
}

// FormatDensity renders d with trailing zeros trimmed.
func FormatDensity(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// ToSolid rewrites a liquid description for the solid food created by a
// density conversion. The emitted token is "{density=<d>g/mL} #", kept as-is
// for compatibility with existing exports.
func ToSolid(desc string, density float64) string {
	base := desc
	switch {
	case hasSuffixFold(base, suffixLiquidUser):
		base = base[:len(base)-len(suffixLiquidUser)]
	case hasSuffixFold(base, suffixLiquid):
		base = base[:len(base)-len(suffixLiquid)]
	}
	return fmt.Sprintf("%s {density=%sg/mL} #", strings.TrimRight(base, " "), FormatDensity(density))
}

// RecipeDescription builds a recipe description from a name and the total
// ingredient weight, rounded to whole grams.
func RecipeDescription(name string, weightGrams float64) string {
	return fmt.Sprintf("%s {recipe=%dg}", StripRecipeMarker(name), int64(math.Round(weightGrams)))
}

// RecipeWeight extracts the weight recorded in a {recipe=<w>g} marker.
func RecipeWeight(desc string) (float64, bool) {
	m := recipeMarker.FindStringSubmatch(desc)
	if m == nil {
		return 0, false
	}
	w, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(m[1]), "g"), 64)
	if err != nil {
		return 0, false
	}
	return w, true
}
