// Package rcfile reads and writes the shell rc fragments used by SITaR
// workspaces (.cshrc.project, .shrc.project). These files are generated
// by the workspace builder and contain only variable assignments and
// comments, so they can be parsed back without a shell.
package rcfile
