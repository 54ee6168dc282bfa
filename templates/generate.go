// Package templates renders the pages as templ components.
package templates

//go:generate templ generate
