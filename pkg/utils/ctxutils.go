package utils

import (
	"context"

	"inventory-system/pkg/constants"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRoleFromCtx(ctx context.Context) (constants.Role, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(constants.Role)
	if !ok || !role.Valid() {
		return "", apperrors.ErrUserIDNotFoundInContext
	}
	return role, nil
}
