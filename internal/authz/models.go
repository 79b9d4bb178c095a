package authz

// PolicyTuple is the authorization ground truth: the named role may perform
// the action on the resource, within the domain and nowhere else.
type PolicyTuple struct {
	SubjectRole string `json:"subject_role"`
	Domain      string `json:"domain"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
}

// Matches reports whether the tuple grants (resource, action). Resources
// support suffix wildcards: "doc:*" matches "doc" and anything under
// "doc:...". Actions support the bare wildcard "*".
func (t PolicyTuple) Matches(resource, action string) bool {
	return matchPattern(t.Resource, resource) && matchAction(t.Action, action)
}

func matchPattern(pattern, resource string) bool {
	if pattern == resource || pattern == "*" {
		return true
	}
	const wildcardSuffix = ":*"
	if len(pattern) > len(wildcardSuffix) && pattern[len(pattern)-len(wildcardSuffix):] == wildcardSuffix {
		prefix := pattern[:len(pattern)-len(wildcardSuffix)]
		if resource == prefix {
			return true
		}
		return len(resource) > len(prefix)+1 && resource[:len(prefix)+1] == prefix+":"
	}
	return false
}

func matchAction(pattern, action string) bool {
	return pattern == action || pattern == "*"
}
