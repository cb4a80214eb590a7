package errors

import (
	"database/sql"
	stdErrors "errors"
)

// Normalize 将存储层/框架层的错误规范化为 AppError。
//
// 设计目标：
//   - 对外统一暴露 ErrorCode 体系，避免调用方出现一堆"裸"错误类型；
//   - 保留原始错误作为 cause，方便日志与调试；
//   - 仅处理当前框架中常见的错误类型，未识别的错误原样返回，交由调用方决定是否 Wrap。
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	// 已经是 AppError，直接返回
	if _, ok := err.(IError); ok {
		return err
	}

	if stdErrors.Is(err, sql.ErrNoRows) {
		return WrapError(err, ErrCodeNotFound, "row not found")
	}

	if stdErrors.Is(err, sql.ErrTxDone) || stdErrors.Is(err, sql.ErrConnDone) {
		return WrapError(err, ErrCodeConnectionFailed, "database connection closed")
	}

	// 未识别的错误保持原样
	return err
}
