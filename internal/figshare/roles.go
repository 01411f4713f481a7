package figshare

// Role identifiers the service assigns with fixed semantics.
const (
	// roleIDGroupMember marks the row that carries an account's group
	// association; the map key of that row is the group id.
	roleIDGroupMember = 11
	roleIDAdmin       = 2
	roleIDReviewer    = 49
)

// RoleFlags are the semantic flags derived from raw role assignments.
type RoleFlags struct {
	Admin    bool
	Reviewer bool
}

// ResolveRoles maps raw group role assignments to the account's group
// association (the group id key whose roles include the member role) and its
// administrative flags.
func ResolveRoles(roles GroupRoles) (groupID string, flags RoleFlags) {
	for key, assignments := range roles {
		for _, role := range assignments {
			switch role.ID {
			case roleIDGroupMember:
				groupID = key
			case roleIDAdmin:
				flags.Admin = true
			case roleIDReviewer:
				flags.Reviewer = true
			}
		}
	}
	return groupID, flags
}
