package public

import (
	"errors"

	"github.com/mercado-next/internal/http/response"
	"github.com/mercado-next/internal/i18n"
	"github.com/mercado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// 存储错误放在最后，领域错误优先匹配
var storageErrorRules = []mappedHandlerError{
	{target: service.ErrCartBusy, code: response.CodeConflict, key: "error.cart_busy"},
	{target: service.ErrStorage, code: response.CodeInternal, key: "error.storage"},
}

var cartMutationErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrOutOfStock, code: response.CodeBadRequest, key: "error.out_of_stock"},
	{target: service.ErrStockExceeded, code: response.CodeBadRequest, key: "error.stock_exceeded"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, key: "error.cart_not_found"},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, key: "error.email_exists"},
	{target: service.ErrRoleInvalid, code: response.CodeBadRequest, key: "error.role_invalid"},
	{target: service.ErrStoreNameRequired, code: response.CodeBadRequest, key: "error.store_name_required"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
}

var accountErrorRules = []mappedHandlerError{
	{target: service.ErrStoreNotFound, code: response.CodeNotFound, key: "error.store_not_found"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
}

func respondCartMutationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartMutationErrorRules, storageErrorRules), response.CodeInternal, "error.internal")
}

func respondCartReadError(c *gin.Context, err error) {
	respondWithMappedError(c, err, storageErrorRules, response.CodeInternal, "error.internal")
}

func respondProductError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(productErrorRules, storageErrorRules), response.CodeInternal, "error.internal")
}

func respondAccountError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(accountErrorRules, storageErrorRules), response.CodeInternal, "error.internal")
}

func respondLoginError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(loginErrorRules, storageErrorRules), response.CodeInternal, "error.internal")
}

// respondRegisterError 密码策略错误携带参数，单独格式化文案
func respondRegisterError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrWeakPassword) {
		if perr, ok := err.(interface {
			Key() string
			Args() []interface{}
		}); ok {
			msg := i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...)
			respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
			return
		}
		respondError(c, response.CodeBadRequest, "error.password_weak", nil)
		return
	}
	respondWithMappedError(c, err, concatMappedHandlerErrors(registerErrorRules, storageErrorRules), response.CodeInternal, "error.internal")
}
