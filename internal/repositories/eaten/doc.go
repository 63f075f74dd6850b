// Package eaten persists the consumption log (the Eaten table).
//
// Each row is a snapshot: the food description and the nutrient vector are
// copied from the food at logging time and scaled to the amount eaten, so
// later edits of the food do not change history.
package eaten
