package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
	PartialSuccess      = 206
)

var (
	ErrParamInvalid             = errors.New("参数错误")
	ErrArticleNotFound          = errors.New("文章不存在")
	ErrArticleNotPending        = errors.New("文章不在待审核状态")
	ErrEngagementNotFound       = errors.New("计数记录不存在")
	ErrEngagementInitIncomplete = errors.New("文章已创建，计数初始化不完整")
	ErrMediaUnavailable         = errors.New("媒体存储不可用")
	ErrMediaAllFailed           = errors.New("媒体文件全部上传失败")
	ErrCursorInvalid            = errors.New("游标无效")
	UnauthorizedError           = errors.New("权限不足")
	UnExpectedError             = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:             BadRequest,
	ErrArticleNotFound:          NotFound,
	ErrArticleNotPending:        BadRequest,
	ErrEngagementNotFound:       NotFound,
	ErrEngagementInitIncomplete: PartialSuccess,
	ErrMediaUnavailable:         InternalServerError,
	ErrMediaAllFailed:           BadRequest,
	ErrCursorInvalid:            BadRequest,
	UnauthorizedError:           Unauthorized,
	UnExpectedError:             InternalServerError,
}
