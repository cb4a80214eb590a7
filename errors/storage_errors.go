package errors

// 存储契约错误代码（saga/snapshot 存储的统一错误表面）
//
// 这些代码对应存储契约允许抛出的四类错误：连接失败、交互失败（超时/协议错误等）、
// 唯一约束冲突、以及其他操作失败。调用方（saga.Provider 等）据此判断是否可重试。
const (
	ErrCodeConnectionFailed         ErrorCode = "STORAGE_CONNECTION_FAILED"
	ErrCodeStorageInteractingFailed ErrorCode = "STORAGE_INTERACTING_FAILED"
	ErrCodeUniqueConstraintViolation ErrorCode = "STORAGE_UNIQUE_CONSTRAINT_VIOLATION"
	ErrCodeOperationFailed          ErrorCode = "STORAGE_OPERATION_FAILED"
)

var (
	errConnectionFailed         = &AppError{code: ErrCodeConnectionFailed, message: "storage connection failed"}
	errStorageInteractingFailed = &AppError{code: ErrCodeStorageInteractingFailed, message: "storage interaction failed"}
	errUniqueConstraintViolation = &AppError{code: ErrCodeUniqueConstraintViolation, message: "unique constraint violation"}
	errOperationFailed          = &AppError{code: ErrCodeOperationFailed, message: "storage operation failed"}
)

// ErrConnectionFailed 返回连接失败哨兵（用于 errors.Is 比较）
func ErrConnectionFailed() *AppError { return errConnectionFailed }

// ErrStorageInteractingFailed 返回交互失败哨兵
func ErrStorageInteractingFailed() *AppError { return errStorageInteractingFailed }

// ErrUniqueConstraintViolation 返回唯一约束冲突哨兵
func ErrUniqueConstraintViolation() *AppError { return errUniqueConstraintViolation }

// ErrOperationFailed 返回操作失败哨兵
func ErrOperationFailed() *AppError { return errOperationFailed }

// NewConnectionFailedError 创建连接失败错误
func NewConnectionFailedError(message string, cause error) IError {
	return NewErrorWithCause(ErrCodeConnectionFailed, message, cause)
}

// NewStorageInteractingFailedError 创建存储交互失败错误
func NewStorageInteractingFailedError(message string, cause error) IError {
	return NewErrorWithCause(ErrCodeStorageInteractingFailed, message, cause)
}

// NewUniqueConstraintViolationError 创建唯一约束冲突错误
func NewUniqueConstraintViolationError(message string) IError {
	return NewError(ErrCodeUniqueConstraintViolation, message)
}

// NewOperationFailedError 创建操作失败错误
func NewOperationFailedError(message string, cause error) IError {
	return NewErrorWithCause(ErrCodeOperationFailed, message, cause)
}

// IsTransientStorageError 判断错误是否为可重试的瞬时存储错误
//
// 仅 ConnectionFailed 与 StorageInteractingFailed 被视为瞬时；
// UniqueConstraintViolation 与 OperationFailed 不重试。
func IsTransientStorageError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrCodeConnectionFailed || code == ErrCodeStorageInteractingFailed
}
