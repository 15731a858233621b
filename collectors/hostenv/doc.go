// Package hostenv adapts the local machine to the probe interfaces the
// monitor consumes: Go runtime heap, network interfaces, filesystem quota
// and a netlink-driven connectivity watcher.
//
// Every reader goes through an overridable function field so tests can
// substitute fixture data for /proc, /sys and syscalls.
package hostenv
