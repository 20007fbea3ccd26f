// Package util holds small string helpers shared by the client packages.
package util
