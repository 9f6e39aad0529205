// Package workspace creates and populates SITaR workspaces: it derives
// the DesignSync environment for a chip development, drives sda to make
// or join the workspace, and generates the files a workspace needs
// (.cshrc.project/.shrc.project source fragments, cds.lib, Cadence setup
// files copied from the config module).
package workspace
