// Package cli is the foodlog command-line front end.
//
// Every invocation loads configuration (see package config), opens the
// database lazily on the first command that needs it and closes it on exit.
// Commands map one-to-one onto the services:
//
//	food add|list|show|rename|delete|convert|import|export
//	eat <foodId> <amount>
//	eaten list|edit|delete
//	weight add|list|edit|delete
//	day [date]
//	export <file.csv>
//	recipe new | edit <id> | copy <id>
//
// The recipe commands open a staging session and hand control to a small
// REPL (see runREPL) until the recipe is committed or abandoned.
package cli
