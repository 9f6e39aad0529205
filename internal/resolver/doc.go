// Package resolver implements the layered environment resolution performed
// when a SITaR workspace shell starts: source the workspace project rc,
// source the tool project rc, and re-point HOME at the vendor modeler
// directory so Cadence SKILL startup files are picked up.
//
// The resolution is modeled as an ordered list of gates over an explicit
// environment record. Every gate runs regardless of earlier failures, and
// every failure is a diagnostic for the operator rather than an abort: the
// user stays in a (possibly partially configured) shell.
package resolver
