package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Response 轉換為 API 錯誤響應
func (e *CustomError) Response() ErrorResponse {
	return ErrorResponse{Code: e.Code, Message: e.Message}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// NetworkError 傳輸層失敗（DNS、逾時、連線被拒、非 2xx 回應）
type NetworkError struct {
	Status   int    // HTTP 狀態碼，沒有回應時為 0
	Method   string // 請求方法
	Endpoint string // 請求位址
	Reason   string // 可讀原因
	Err      error  // 原始錯誤
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s %s (status %d)", e.Reason, e.Method, e.Endpoint, e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// SchemaValidationError 回應不是預期的結構
type SchemaValidationError struct {
	Status   int
	Method   string
	Endpoint string
	Reason   string
	Err      error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation error: %s %s %s (status %d)", e.Reason, e.Method, e.Endpoint, e.Status)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// StorageError 本地儲存不可用或寫入失敗
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage error: " + e.Op
	}
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError 包裝儲存錯誤，err 為 nil 時回傳 nil
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsNetworkError 檢查是否為傳輸錯誤
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsSchemaValidationError 檢查是否為結構驗證錯誤
func IsSchemaValidationError(err error) bool {
	var target *SchemaValidationError
	return errors.As(err, &target)
}

// IsStorageError 檢查是否為儲存錯誤
func IsStorageError(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

// 使用者看到的通用錯誤訊息，細節只寫進日誌
const GenericFailureMessage = "Something went wrong. Please try again."

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE" // 413

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
)

// 預定義錯誤
var (
	ErrNotFound           = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrTooManyRequests    = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)
	ErrInternalError      = NewError(ErrCodeInternalError, GenericFailureMessage, http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
)
