// Package adapter defines the pluggable interface for code hosts, including
// the Repo identity the controller compares, the tree items the sidebar
// renders, and the registry that picks one adapter per location.
package adapter
