// Package recipes persists recipe ingredient lines (the Recipe table).
//
// A line is live when it is linked to a committed recipe food (FoodId set,
// CopyFg 0) and a draft otherwise: either a new line not yet linked
// (FoodId 0) or the working copy of a committed recipe being edited
// (CopyFg 1). Draft lines carry the id of the staging session that owns
// them, so the bulk operations here can be scoped to one session.
package recipes
