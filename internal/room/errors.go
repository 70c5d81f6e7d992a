package room

import "errors"

var (
	ErrNotJoined        = errors.New("no room joined")
	ErrRoomClosed       = errors.New("room is closed")
	ErrHostOnly         = errors.New("host-only action")
	ErrPollNotFound     = errors.New("poll not found")
	ErrNotScreenSharing = errors.New("screen sharing must be active before screen recording")
)
