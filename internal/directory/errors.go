package directory

import "errors"

var (
	ErrTokenExchange = errors.New("Failed to get Microsoft token")
	ErrUserNameTaken = errors.New("用户名已被占用，请修改后重试")
	ErrCreateUser    = errors.New("创建用户失败")
	ErrAssignLicense = errors.New("分配许可证失败")
	ErrDeleteUser    = errors.New("删除用户失败")
	ErrEnableUser    = errors.New("启用用户失败")
)
