// Package catalog prepares the product listing for display: prices in
// Brazilian format and descriptions stripped of any markup the backend
// stored.
package catalog
