package workflow

import (
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// GlobalPermission is the string form of `permissions`.
type GlobalPermission string

func (GlobalPermission) EnumValues() []string { return []string{"read-all", "write-all"} }

// Level is the access level of one scope.
type Level string

func (Level) EnumValues() []string { return []string{"read", "write", "none"} }

// Scopes is the record form of `permissions`.
type Scopes struct {
	Actions            Level `json:"actions"`
	Attestations       Level `json:"attestations"`
	Checks             Level `json:"checks"`
	Contents           Level `json:"contents"`
	Deployments        Level `json:"deployments"`
	Discussions        Level `json:"discussions"`
	IDToken            Level `json:"id-token" alias:"id_token"`
	Issues             Level `json:"issues"`
	Models             Level `json:"models"`
	Packages           Level `json:"packages"`
	Pages              Level `json:"pages"`
	PullRequests       Level `json:"pull-requests" alias:"pull_requests"`
	RepositoryProjects Level `json:"repository-projects" alias:"repository_projects"`
	SecurityEvents     Level `json:"security-events" alias:"security_events"`
	Statuses           Level `json:"statuses"`
}

// Permissions is `read-all`, `write-all`, or per-scope levels. Two scope
// records merge scope by scope; anything else resolves to the right operand.
type Permissions struct {
	global GlobalPermission
	scopes *Scopes
}

// PermitAll returns the global form.
func PermitAll(p GlobalPermission) Permissions { return Permissions{global: p} }

// PermitScopes returns the per-scope form.
func PermitScopes(s Scopes) Permissions { return Permissions{scopes: &s} }

func (p Permissions) IsZero() bool { return p.global == "" && p.scopes == nil }

func (p Permissions) Variant() string {
	if p.scopes != nil {
		return "scopes"
	}
	return "global"
}

func (p *Permissions) DecodeTree(v tree.Value, path tree.Path) error {
	if _, ok := v.(*tree.Object); ok {
		var s Scopes
		if err := schema.Decode(v, &s, path); err != nil {
			return err
		}
		*p = PermitScopes(s)
		return nil
	}
	var g GlobalPermission
	if err := schema.Decode(v, &g, path); err != nil {
		return err
	}
	*p = PermitAll(g)
	return nil
}

func (p Permissions) EncodeTree() (tree.Value, error) {
	if p.scopes != nil {
		return schema.Encode(*p.scopes)
	}
	return tree.String(p.global), nil
}

func (p Permissions) Merge(right any, path tree.Path) (any, error) {
	r := right.(Permissions)
	if p.scopes == nil || r.scopes == nil {
		return r, nil
	}
	merged, err := merge.At(*p.scopes, *r.scopes, path)
	if err != nil {
		return nil, err
	}
	return PermitScopes(merged), nil
}
