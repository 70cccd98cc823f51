package errors

import "errors"

// ErrQueryFailure 文档库读取失败：任一查询出错即中止整个响应，不做重试与部分降级
var ErrQueryFailure = errors.New("文档库查询失败")

// ErrInvalidObjectID 非法的文档 ID（非 24 位十六进制）
var ErrInvalidObjectID = errors.New("非法的文档 ID")
