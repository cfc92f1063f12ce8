package aprx

import (
	"path/filepath"
	"strings"
)

const (
	databaseKey     = "DATABASE"
	serverKey       = "SERVER"
	instanceKey     = "INSTANCE"
	sdeFactory      = "SDE"
	connStringKey   = "workspaceConnectionString"
	factoryKey      = "workspaceFactory"
	dataConnKey     = "dataConnection"
	featureTableKey = "featureTable"
)

// connectionValue looks up key in a ";"-separated KEY=VALUE connection
// string. Keys are case-insensitive.
func connectionValue(conn, key string) (string, bool) {
	for _, part := range strings.Split(conn, ";") {
		k, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

// workspaceFromConnectionString extracts the DATABASE value of conn.
func workspaceFromConnectionString(conn string) string {
	ws, _ := connectionValue(conn, databaseKey)
	return ws
}

// isFileWorkspace reports whether conn references a workspace on disk. A
// server connection (SERVER or INSTANCE present) names a database instead,
// unless its DATABASE value is itself a path.
func isFileWorkspace(conn string) bool {
	_, server := connectionValue(conn, serverKey)
	_, instance := connectionValue(conn, instanceKey)
	if !server && !instance {
		return true
	}
	return looksLikePath(workspaceFromConnectionString(conn))
}

func looksLikePath(ws string) bool {
	if strings.ContainsAny(ws, `/\`) {
		return true
	}
	switch strings.ToLower(filepath.Ext(ws)) {
	case ".sde", ".gdb":
		return true
	}
	return false
}

func connectionStringFor(workspace string) string {
	return databaseKey + "=" + workspace
}
