// Package registry keeps track of the projects whose glossaries take part in
// lookups. Registrations live in a single YAML index file in the loga home.
package registry
