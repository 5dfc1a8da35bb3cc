package entities

// MemberSession is the per-request pairing of an authenticated identity with its
// member profile and owning business. It is never persisted.
type MemberSession struct {
	Identity Identity       `json:"identity"`
	Profile  *MemberProfile `json:"profile"`
	Client   *Client        `json:"client"`
}

// Active returns true if the member's profile is active
func (s *MemberSession) Active() bool {
	return s.Profile != nil && s.Profile.IsActive
}
