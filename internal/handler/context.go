package handler

type ContextKey string

var (
	RoleCtxKey  ContextKey = "role"
	SubCtxKey   ContextKey = "sub"
	UserInfoCtx ContextKey = "userInfo"
	StudentCtx  ContextKey = "student"
)
