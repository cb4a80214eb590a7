package codec

import "github.com/AndrewSinukov/service-bus/errors"

// ErrCodeDecodeFailed 对应 spec 中的 DecodeFailed：解码失败时必须
// 只记录日志并 ack 原始包，不能让错误向上传播毒化队列。
const ErrCodeDecodeFailed errors.ErrorCode = "DECODE_FAILED"

// DecodeFailedError 携带触发解码失败的包标识，便于 EntryPointProcessor
// 按 spec §4.1 步骤 1 的要求记录 {packageId, traceId, payload}。
type DecodeFailedError struct {
	PackageID string
	TraceID   string
	Reason    string
	Cause     error
}

func (e *DecodeFailedError) Error() string {
	if e.Cause != nil {
		return "decode failed: " + e.Reason + ": " + e.Cause.Error()
	}
	return "decode failed: " + e.Reason
}

func (e *DecodeFailedError) Unwrap() error { return e.Cause }

// Is 支持 errors.Is(err, &DecodeFailedError{}) 做类型判定
func (e *DecodeFailedError) Is(target error) bool {
	_, ok := target.(*DecodeFailedError)
	return ok
}

// NewDecodeFailedError 创建解码失败错误
func NewDecodeFailedError(packageID, traceID, reason string) *DecodeFailedError {
	return &DecodeFailedError{PackageID: packageID, TraceID: traceID, Reason: reason}
}

// NewDecodeFailedErrorWithCause 创建带原因的解码失败错误
func NewDecodeFailedErrorWithCause(packageID, traceID, reason string, cause error) *DecodeFailedError {
	return &DecodeFailedError{PackageID: packageID, TraceID: traceID, Reason: reason, Cause: cause}
}
