package errors

// 引擎级错误代码（见 §7 ERROR HANDLING DESIGN）
//
// 这些代码覆盖消息处理管道和 saga 生命周期抛出的错误种类。除
// DecodeFailed（在 messaging/codec 里单独定义，因为它需要携带
// packageId/traceId）外，其余都集中在这里，方便 EntryPointProcessor
// 和 saga.Provider 统一通过 GetErrorCode 判定错误种类。
const (
	ErrCodeValidationFailed          ErrorCode = "VALIDATION_FAILED"
	ErrCodeArgumentResolutionFailed  ErrorCode = "ARGUMENT_RESOLUTION_FAILED"
	ErrCodeEndpointNotConfigured     ErrorCode = "ENDPOINT_NOT_CONFIGURED"
	ErrCodeDuplicateSagaID           ErrorCode = "DUPLICATE_SAGA_ID"
	ErrCodeStartSagaFailed           ErrorCode = "START_SAGA_FAILED"
	ErrCodeLoadSagaFailed            ErrorCode = "LOAD_SAGA_FAILED"
	ErrCodeSaveSagaFailed            ErrorCode = "SAVE_SAGA_FAILED"
	ErrCodeExpiredSagaLoaded         ErrorCode = "EXPIRED_SAGA_LOADED"
	ErrCodeSagaMetaDataNotFound      ErrorCode = "SAGA_METADATA_NOT_FOUND"
	ErrCodeSagaAlreadyClosed         ErrorCode = "SAGA_ALREADY_CLOSED"
)

var (
	errValidationFailed         = &AppError{code: ErrCodeValidationFailed, message: "message validation failed"}
	errArgumentResolutionFailed = &AppError{code: ErrCodeArgumentResolutionFailed, message: "handler argument resolution failed"}
	errEndpointNotConfigured    = &AppError{code: ErrCodeEndpointNotConfigured, message: "no endpoint configured for message type"}
	errDuplicateSagaID          = &AppError{code: ErrCodeDuplicateSagaID, message: "saga id already exists"}
	errStartSagaFailed          = &AppError{code: ErrCodeStartSagaFailed, message: "failed to start saga"}
	errLoadSagaFailed           = &AppError{code: ErrCodeLoadSagaFailed, message: "failed to load saga"}
	errSaveSagaFailed           = &AppError{code: ErrCodeSaveSagaFailed, message: "failed to save saga"}
	errExpiredSagaLoaded        = &AppError{code: ErrCodeExpiredSagaLoaded, message: "saga was expired on load"}
	errSagaMetaDataNotFound     = &AppError{code: ErrCodeSagaMetaDataNotFound, message: "saga metadata not found"}
	errSagaAlreadyClosed        = &AppError{code: ErrCodeSagaAlreadyClosed, message: "saga is already closed"}
)

func ErrValidationFailed() *AppError         { return errValidationFailed }
func ErrArgumentResolutionFailed() *AppError { return errArgumentResolutionFailed }
func ErrEndpointNotConfigured() *AppError    { return errEndpointNotConfigured }
func ErrDuplicateSagaID() *AppError          { return errDuplicateSagaID }
func ErrStartSagaFailed() *AppError          { return errStartSagaFailed }
func ErrLoadSagaFailed() *AppError           { return errLoadSagaFailed }
func ErrSaveSagaFailed() *AppError           { return errSaveSagaFailed }
func ErrExpiredSagaLoaded() *AppError        { return errExpiredSagaLoaded }
func ErrSagaMetaDataNotFound() *AppError     { return errSagaMetaDataNotFound }
func ErrSagaAlreadyClosed() *AppError        { return errSagaAlreadyClosed }

// NewValidationFailedError 创建校验失败错误，携带违规详情
func NewValidationFailedError(message string, details map[string]any) IError {
	return NewError(ErrCodeValidationFailed, message).WithDetails(details)
}

// NewArgumentResolutionFailedError 创建依赖解析失败错误
func NewArgumentResolutionFailedError(message string) IError {
	return NewError(ErrCodeArgumentResolutionFailed, message)
}

// NewEndpointNotConfiguredError 创建端点未配置错误
func NewEndpointNotConfiguredError(messageType string) IError {
	return NewError(ErrCodeEndpointNotConfigured, "no endpoint configured for "+messageType)
}

// NewDuplicateSagaIDError 创建 saga id 重复错误
func NewDuplicateSagaIDError(sagaID string, cause error) IError {
	return NewErrorWithCause(ErrCodeDuplicateSagaID, "duplicate saga id: "+sagaID, cause)
}

// NewStartSagaFailedError 创建启动 saga 失败错误
func NewStartSagaFailedError(message string, cause error) IError {
	return NewErrorWithCause(ErrCodeStartSagaFailed, message, cause)
}

// NewLoadSagaFailedError 创建加载 saga 失败错误
func NewLoadSagaFailedError(message string, cause error) IError {
	return NewErrorWithCause(ErrCodeLoadSagaFailed, message, cause)
}

// NewSaveSagaFailedError 创建保存 saga 失败错误
func NewSaveSagaFailedError(message string, cause error) IError {
	return NewErrorWithCause(ErrCodeSaveSagaFailed, message, cause)
}

// NewExpiredSagaLoadedError 创建"加载时已过期"错误
func NewExpiredSagaLoadedError(sagaID string) IError {
	return NewError(ErrCodeExpiredSagaLoaded, "saga expired on load: "+sagaID)
}

// NewSagaMetaDataNotFoundError 创建 saga 元数据缺失错误
func NewSagaMetaDataNotFoundError(sagaClass string) IError {
	return NewError(ErrCodeSagaMetaDataNotFound, "no metadata registered for saga class: "+sagaClass)
}

// NewSagaAlreadyClosedError 创建 saga 已关闭错误
func NewSagaAlreadyClosedError(sagaID string) IError {
	return NewError(ErrCodeSagaAlreadyClosed, "saga already closed: "+sagaID)
}
