package service

import (
	"errors"
	"fmt"

	"budget/repository"
)

// 业务错误分类，调用方用 errors.Is 判断
var (
	ErrInvalidInput = errors.New("参数错误")
	ErrNotFound     = errors.New("记录不存在")
	ErrConflict     = errors.New("操作冲突")
	ErrUnavailable  = errors.New("服务不可用")
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// translateNotFound 将存储层的未找到错误转换为 ErrNotFound，其它错误原样返回
func translateNotFound(err error, what string) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

// translateInvalidCategory 引用的类别不存在属于参数错误
func translateInvalidCategory(err error, id uint) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return invalidInput("类别不存在: %d", id)
	}
	return err
}
