package quality

// Package quality builds the per-video catalog of selectable quality options
// and encodes each option into a short opaque token that survives a round
// trip through Telegram's size-limited callback-data channel. Tokens carry a
// catalog position plus a session generation, never the raw format spec, so a
// selection made against an overwritten catalog is rejected instead of
// silently resolving to the wrong format.
