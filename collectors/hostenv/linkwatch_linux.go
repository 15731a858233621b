package hostenv

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Run subscribes to rtnetlink link and address groups and checks
// connectivity after each batch of messages until ctx is cancelled.
func (w *LinkWatcher) Run(ctx context.Context) error {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.NETLINK_ROUTE)
	if err != nil {
		return fmt.Errorf("hostenv: netlink socket: %w", err)
	}
	defer unix.Close(fd)

	sa := &unix.SockaddrNetlink{
		Family: unix.AF_NETLINK,
		Groups: unix.RTMGRP_LINK | unix.RTMGRP_IPV4_IFADDR | unix.RTMGRP_IPV6_IFADDR,
	}
	if err := unix.Bind(fd, sa); err != nil {
		return fmt.Errorf("hostenv: netlink bind: %w", err)
	}

	tv := unix.NsecToTimeval(w.recvTimeout.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return fmt.Errorf("hostenv: netlink timeout: %w", err)
	}

	w.prime()
	w.logger.Debug("link watcher started")

	buf := make([]byte, unix.Getpagesize())
	for {
		if ctx.Err() != nil {
			w.logger.Debug("link watcher stopped")
			return nil
		}

		n, _, err := unix.Recvfrom(fd, buf, 0)
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK), errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ENOBUFS):
			// Dropped messages: state may have changed unseen.
			w.check()
			continue
		case err != nil:
			return fmt.Errorf("hostenv: netlink receive: %w", err)
		}
		if n > 0 {
			w.check()
		}
	}
}
