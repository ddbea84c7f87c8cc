// Package utils provides clock string helpers shared by the command line and
// the GTFS importer.
package utils
