// Package home describes the loga home directory layout. A Home value is
// created once per process and handed to every component that needs a path.
package home
