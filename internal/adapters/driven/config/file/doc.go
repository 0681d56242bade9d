// Package file provides the TOML configuration store.
//
// Keys are dotted paths ("ranking.alpha"). On disk they are written as
// nested tables:
//
//	[ranking]
//	alpha = 0.6
package file
