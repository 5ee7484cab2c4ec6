package profile

// Reconcile seeds the drafts from a freshly loaded remote record. Once the user
// has edited, the record is ignored entirely until a successful save clears the flag.
func Reconcile(remote Record, s Session, defaultAvatar AvatarID) Session {
	if s.UserHasEdited {
		return s
	}
	s.DraftHandle = remote.Handle
	s.DraftAvatar = remote.AvatarID
	if s.DraftAvatar == NoAvatar {
		s.DraftAvatar = defaultAvatar
	}
	s.HandleError = nil
	s.AvatarError = nil
	s.LastPersisted = Pair{Handle: remote.Handle, Avatar: remote.AvatarID}
	return s
}
