package appwrite

import "fmt"

// Permission grants follow the platform's string grammar, e.g.
// read("user:abc123").

func RoleUser(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func PermissionRead(role string) string {
	return fmt.Sprintf("read(%q)", role)
}

func PermissionUpdate(role string) string {
	return fmt.Sprintf("update(%q)", role)
}

func PermissionDelete(role string) string {
	return fmt.Sprintf("delete(%q)", role)
}

// OwnerPermissions names the given user as the sole reader, updater and
// deleter of a document.
func OwnerPermissions(userID string) []string {
	role := RoleUser(userID)
	return []string{
		PermissionRead(role),
		PermissionUpdate(role),
		PermissionDelete(role),
	}
}
