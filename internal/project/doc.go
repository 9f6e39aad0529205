// Package project loads and validates project definition files
// (project.yaml). A definition describes one chip development: the chip
// name and version, the DesignSync base path, and the settings collection
// the workspace builder derives its environment from.
package project
