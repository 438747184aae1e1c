package service

// canAccess is the whole authorization model: strict equality between the
// authenticated principal and the resource's recorded owner. No roles, no
// delegation, no admin override.
func canAccess(principalUserID, resourceOwnerUserID string) bool {
	return principalUserID != "" && principalUserID == resourceOwnerUserID
}
