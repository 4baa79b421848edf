package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidRole      = errors.New("invalid role")
	ErrOwnRole          = errors.New("you cannot change your own role")
	ErrRoleNotGrantable = errors.New("only a super admin can grant or revoke super admin")
)
