package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var embedded []byte

// Permission lists the roles allowed to call an endpoint. Skip marks a public endpoint.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// PermissionData is the route table read by the auth middleware. Skip disables role checks for
// every route.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]int
}

func routeKey(path, method string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}

// FindPermissions looks up a chi route pattern, ignoring a trailing slash and the case of the
// method. Unknown routes get the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	i, ok := r.index[routeKey(path, method)]
	if !ok {
		return Permission{}
	}

	return r.Endpoints[i]
}

// Parse decodes a route table. A route listed twice is rejected.
func Parse(data []byte) (*PermissionData, error) {
	var table PermissionData

	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	table.index = make(map[string]int, len(table.Endpoints))

	for i, endpoint := range table.Endpoints {
		key := routeKey(endpoint.Path, endpoint.Method)
		if _, ok := table.index[key]; ok {
			return nil, fmt.Errorf("duplicate permission for %s", key)
		}

		table.index[key] = i
	}

	return &table, nil
}

// Get returns the embedded route table, or nil when it cannot be decoded. The RBAC middleware
// rejects every protected route when the table is nil.
func Get() *PermissionData {
	table, err := Parse(embedded)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(table.Endpoints)).Msg("Loaded embedded permissions")

	return table
}
